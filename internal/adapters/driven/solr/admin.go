package solr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SolrAdmin = (*Admin)(nil)

// Admin implements driven.SolrAdmin through the core admin handler. It rides
// on a Client so admin calls share the same transport and pool sizing.
type Admin struct {
	c *Client
}

// NewAdmin creates an Admin sharing the client's connection pool
func NewAdmin(c *Client) *Admin {
	return &Admin{c: c}
}

// coresURL renders a core admin action URL.
func (a *Admin) coresURL(action string, params url.Values) string {
	params.Set("action", action)
	params.Set("wt", "json")
	return a.c.baseURL + "/admin/cores?" + params.Encode()
}

// CreateCore creates a core from a prepared instance directory. The caller's
// directory and file names translate to the admin handler's parameter names:
// index dir to instanceDir, config file to config, schema file to schema.
func (a *Admin) CreateCore(ctx context.Context, spec domain.CoreSpec) error {
	params := url.Values{}
	params.Set("name", spec.Name)
	if spec.IndexDir != "" {
		params.Set("instanceDir", spec.IndexDir)
	}
	if spec.CfgFile != "" {
		params.Set("config", spec.CfgFile)
	}
	if spec.SchemaFile != "" {
		params.Set("schema", spec.SchemaFile)
	}

	err := a.adminCall(ctx, "create_core", a.coresURL("CREATE", params))
	if err != nil && isAlreadyExists(err) {
		return fmt.Errorf("core %s: %w", spec.Name, domain.ErrAlreadyExists)
	}
	return err
}

// ReloadCore reloads a core's config and schema in place
func (a *Admin) ReloadCore(ctx context.Context, name string) error {
	params := url.Values{}
	params.Set("core", name)
	return a.adminCall(ctx, "reload_core", a.coresURL("RELOAD", params))
}

// RemoveCore unloads a core, optionally deleting its instance directory
func (a *Admin) RemoveCore(ctx context.Context, name string, deleteInstance bool) error {
	params := url.Values{}
	params.Set("core", name)
	if deleteInstance {
		params.Set("deleteInstanceDir", "true")
	}
	return a.adminCall(ctx, "remove_core", a.coresURL("UNLOAD", params))
}

// Ping checks that the search service answers its core admin handler.
// Used by readiness probes; individual cores have their own ping.
func (a *Admin) Ping(ctx context.Context) error {
	return a.adminCall(ctx, "ping", a.coresURL("STATUS", url.Values{}))
}

// CoreStatus fetches the admin status of one core
func (a *Admin) CoreStatus(ctx context.Context, name string) (*domain.CoreStatus, error) {
	params := url.Values{}
	params.Set("core", name)
	reqURL := a.coresURL("STATUS", params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("solr core_status failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readRequestError("core_status", reqURL, resp)
	}

	var sr statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding core status: %w", err)
	}

	cs, ok := sr.Status[name]
	// the status handler answers 200 with an empty object for unknown cores
	if !ok || cs.Name == "" {
		return nil, fmt.Errorf("core %s: %w", name, domain.ErrNotFound)
	}

	return &domain.CoreStatus{
		Name:        cs.Name,
		InstanceDir: cs.InstanceDir,
		DataDir:     cs.DataDir,
		StartTime:   cs.StartTime,
		Uptime:      cs.Uptime,
		Index: domain.IndexStatus{
			NumDocs:      cs.Index.NumDocs,
			MaxDoc:       cs.Index.MaxDoc,
			DeletedDocs:  cs.Index.DeletedDocs,
			SegmentCount: cs.Index.SegmentCount,
			SizeBytes:    cs.Index.SizeInBytes,
		},
	}, nil
}

// Mbeans fetches a core's statistics beans
func (a *Admin) Mbeans(ctx context.Context, core string) (domain.MbeanStats, error) {
	reqURL := a.c.coreURL(core, "/admin/mbeans") + "?stats=true&wt=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("solr mbeans failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readRequestError("mbeans", reqURL, resp)
	}

	var mr mbeansResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decoding mbeans: %w", err)
	}

	// solr-mbeans alternates category name and bean object
	stats := domain.MbeanStats{}
	for i := 0; i+1 < len(mr.Mbeans); i += 2 {
		var category string
		if err := json.Unmarshal(mr.Mbeans[i], &category); err != nil {
			continue
		}
		var beans map[string]any
		if err := json.Unmarshal(mr.Mbeans[i+1], &beans); err != nil {
			continue
		}
		stats[category] = beans
	}
	return stats, nil
}

// adminCall issues one admin GET and maps any non-200 to a RequestError.
func (a *Admin) adminCall(ctx context.Context, op, reqURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := a.c.client().Do(req)
	if err != nil {
		return fmt.Errorf("solr %s failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readRequestError(op, reqURL, resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// isAlreadyExists matches the admin handler's duplicate-core failure, which
// arrives as a plain 400 whose message names the existing core.
func isAlreadyExists(err error) bool {
	var re *domain.RequestError
	if !errors.As(err, &re) {
		return false
	}
	return re.StatusCode == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(re.Body), "already exists")
}

// statusResponse is the core admin STATUS wire format
type statusResponse struct {
	Status map[string]coreStatusDoc `json:"status"`
}

type coreStatusDoc struct {
	Name        string `json:"name"`
	InstanceDir string `json:"instanceDir"`
	DataDir     string `json:"dataDir"`
	StartTime   string `json:"startTime"`
	Uptime      int64  `json:"uptime"`
	Index       struct {
		NumDocs      int64 `json:"numDocs"`
		MaxDoc       int64 `json:"maxDoc"`
		DeletedDocs  int64 `json:"deletedDocs"`
		SegmentCount int64 `json:"segmentCount"`
		SizeInBytes  int64 `json:"sizeInBytes"`
	} `json:"index"`
}

// mbeansResponse is the admin mbeans wire format
type mbeansResponse struct {
	Mbeans []json.RawMessage `json:"solr-mbeans"`
}
