package solr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SolrClient = (*Client)(nil)

// Client implements driven.SolrClient against Solr's HTTP API.
//
// The pool configuration is the only mutable state. SetPoolConfig swaps in a
// fresh transport; in-flight requests finish on the old one, subsequent
// requests use the new sizing.
type Client struct {
	baseURL string
	timeout time.Duration

	mu         sync.RWMutex
	pool       domain.PoolConfig
	httpClient *http.Client
}

// Config holds Solr connection configuration
type Config struct {
	// BaseURL is the Solr endpoint (e.g., http://localhost:8983/solr)
	BaseURL string

	// Timeout for HTTP requests
	Timeout time.Duration

	// Pool sizes the HTTP connection pool
	Pool domain.PoolConfig
}

// DefaultConfig returns sensible defaults
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 60 * time.Second,
		Pool:    domain.DefaultPoolConfig(),
	}
}

// NewClient creates a new Solr-backed client
func NewClient(cfg Config) *Client {
	pool := cfg.Pool
	if pool.Validate() != nil {
		pool = domain.DefaultPoolConfig()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		pool:       pool,
		httpClient: newHTTPClient(pool, cfg.Timeout),
	}
}

// newHTTPClient builds a client whose transport enforces the pool sizing.
// net/http cannot pipeline; MaxPipeline only scales the idle pool so warm
// connections survive bursts.
func newHTTPClient(pool domain.PoolConfig, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxConnsPerHost:     pool.MaxSessions,
			MaxIdleConnsPerHost: pool.MaxSessions,
			MaxIdleConns:        pool.MaxSessions * pool.MaxPipeline,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// SetPoolConfig resizes the connection pool for subsequent requests
func (c *Client) SetPoolConfig(cfg domain.PoolConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.httpClient
	c.pool = cfg
	c.httpClient = newHTTPClient(cfg, c.timeout)
	if t, ok := old.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	return nil
}

// PoolConfig reads back the current pool sizing
func (c *Client) PoolConfig() domain.PoolConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pool
}

// client returns the http client under the read lock, so a concurrent
// SetPoolConfig cannot tear the swap.
func (c *Client) client() *http.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.httpClient
}

// coreURL joins the base URL, a core and a handler path.
func (c *Client) coreURL(core, handler string) string {
	return c.baseURL + "/" + core + handler
}

// Search runs a select query against a core. The params carry the caller's
// terms plus any fan-out parameters already merged in; wt=json is forced so
// the response is decodable.
func (c *Client) Search(ctx context.Context, core string, params url.Values) (*domain.SearchResult, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("wt", "json")

	reqURL := c.coreURL(core, "/select")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("solr search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readRequestError("search", reqURL, resp)
	}

	return decodeSelectResponse(resp.Body)
}

// Index applies document adds and delete operations as one update batch.
func (c *Client) Index(ctx context.Context, core string, docs []domain.Document, deletes []domain.DeleteOp) error {
	body, err := encodeUpdate(docs, deletes)
	if err != nil {
		return err
	}
	return c.update(ctx, "index", core, nil, body)
}

// Delete applies delete operations only.
func (c *Client) Delete(ctx context.Context, core string, ops []domain.DeleteOp) error {
	body, err := encodeUpdate(nil, ops)
	if err != nil {
		return err
	}
	return c.update(ctx, "delete", core, nil, body)
}

// Commit forces a commit so previous updates become visible.
func (c *Client) Commit(ctx context.Context, core string) error {
	params := url.Values{}
	params.Set("commit", "true")
	params.Set("waitFlush", "true")
	params.Set("waitSearcher", "true")
	return c.update(ctx, "commit", core, params, []byte("{}"))
}

// update posts a JSON body to a core's update handler.
func (c *Client) update(ctx context.Context, op, core string, params url.Values, body []byte) error {
	reqURL := c.coreURL(core, "/update")
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client().Do(req)
	if err != nil {
		return fmt.Errorf("solr %s failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readRequestError(op, reqURL, resp)
	}
	return nil
}

// Ping reports whether the core answers its ping handler. A 404 means the
// core does not exist, which is an answer, not an error.
func (c *Client) Ping(ctx context.Context, core string) (bool, error) {
	reqURL := c.coreURL(core, "/admin/ping")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return false, fmt.Errorf("solr ping failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, readRequestError("ping", reqURL, resp)
	}
}

// EntropyData fetches one page of (key, digest) pairs for anti-entropy. The
// start-of-stream continuation is never sent as a parameter.
func (c *Client) EntropyData(ctx context.Context, core string, filter domain.EntropyFilter) (*domain.EntropyPage, error) {
	params := url.Values{}
	params.Set("wt", "json")
	if !filter.Before.IsZero() {
		params.Set("before", filter.Before.UTC().Format(time.RFC3339))
	}
	if !filter.Continuation.None() {
		params.Set("continuation", string(filter.Continuation))
	}
	if filter.Limit > 0 {
		params.Set("n", strconv.Itoa(filter.Limit))
	}
	if filter.Partition != nil {
		params.Set("partition", strconv.FormatInt(*filter.Partition, 10))
	}

	reqURL := c.coreURL(core, "/entropy_data") + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("solr entropy_data failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readRequestError("entropy_data", reqURL, resp)
	}

	return decodeEntropyResponse(resp.Body)
}

// readRequestError drains the body into a RequestError.
func readRequestError(op, reqURL string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	return &domain.RequestError{
		Op:         op,
		URL:        reqURL,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
