package solr

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

func newTestClient(serverURL string) *Client {
	return NewClient(DefaultConfig(serverURL))
}

func TestClient_Search_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/idx1/select" {
			t.Errorf("expected /idx1/select, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %s", ct)
		}

		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if r.PostForm.Get("q") != "*:*" {
			t.Errorf("expected q=*:*, got %s", r.PostForm.Get("q"))
		}
		if r.PostForm.Get("wt") != "json" {
			t.Error("expected wt=json forced")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"responseHeader": {"status": 0, "QTime": 7},
			"response": {"numFound": 2, "start": 0, "maxScore": 1.4,
				"docs": [{"_yz_rk": "k1"}, {"_yz_rk": "k2"}]}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	params := url.Values{}
	params.Set("q", "*:*")

	result, err := client.Search(context.Background(), "idx1", params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NumFound != 2 {
		t.Errorf("expected 2 found, got %d", result.NumFound)
	}
	if len(result.Docs) != 2 {
		t.Errorf("expected 2 docs, got %d", len(result.Docs))
	}
	if result.Docs[0]["_yz_rk"] != "k1" {
		t.Errorf("unexpected first doc: %v", result.Docs[0])
	}
	if result.Took.Milliseconds() != 7 {
		t.Errorf("expected QTime 7ms, got %v", result.Took)
	}
}

func TestClient_Search_CarriesFanoutParams(t *testing.T) {
	var form url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form = r.PostForm
		_, _ = w.Write([]byte(`{"responseHeader":{},"response":{"docs":[]}}`))
	}))
	defer server.Close()

	params := url.Values{}
	params.Set("q", "name:rita")
	params.Set("shards", "10.0.0.1:8093/idx,10.0.0.2:8093/idx")
	params.Set("10.0.0.1:8093.fq", "_yz_pn:0 OR _yz_pn:2")
	params.Set("10.0.0.2:8093.fq", "_yz_pn:1")

	client := newTestClient(server.URL)
	if _, err := client.Search(context.Background(), "idx", params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if form.Get("shards") != "10.0.0.1:8093/idx,10.0.0.2:8093/idx" {
		t.Errorf("shards param lost: %q", form.Get("shards"))
	}
	if form.Get("10.0.0.1:8093.fq") != "_yz_pn:0 OR _yz_pn:2" {
		t.Errorf("per-node fq lost: %q", form.Get("10.0.0.1:8093.fq"))
	}
}

func TestClient_Search_ErrorCarriesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("undefined field bogus"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Search(context.Background(), "idx", url.Values{"q": {"bogus:1"}})
	if err == nil {
		t.Fatal("expected error")
	}

	var re *domain.RequestError
	if !errors.As(err, &re) {
		t.Fatalf("expected RequestError, got %T: %v", err, err)
	}
	if re.Op != "search" {
		t.Errorf("expected op search, got %s", re.Op)
	}
	if re.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", re.StatusCode)
	}
	if re.Body != "undefined field bogus" {
		t.Errorf("expected body preserved, got %q", re.Body)
	}
	if !strings.Contains(re.URL, "/idx/select") {
		t.Errorf("expected request URL, got %q", re.URL)
	}
	if !domain.IsStatus(err, http.StatusBadRequest) {
		t.Error("expected IsStatus match")
	}
}

func TestClient_Index_UpdateBody(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/idx/update" {
			t.Errorf("expected /idx/update, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %s", ct)
		}
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		_, _ = w.Write([]byte(`{"responseHeader":{"status":0}}`))
	}))
	defer server.Close()

	docs := []domain.Document{
		{
			{Name: "_yz_id", Value: "default*b*k*1"},
			{Name: "name", Value: "rita"},
		},
	}
	deletes := []domain.DeleteOp{
		{ID: "default*b*old*1"},
		{Query: `_yz_rb:"stale"`},
	}

	client := newTestClient(server.URL)
	if err := client.Index(context.Background(), "idx", docs, deletes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"delete":{"id":"default*b*old*1"},` +
		`"delete":{"query":"_yz_rb:\"stale\""},` +
		`"add":{"doc":{"_yz_id":"default*b*k*1","name":"rita"}}}`
	if body != want {
		t.Errorf("unexpected update body:\n got %s\nwant %s", body, want)
	}
}

func TestClient_Delete_404Preserved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.Delete(context.Background(), "missing_core", []domain.DeleteOp{{ID: "x"}})
	if err == nil {
		t.Fatal("expected error for 404")
	}
	// callers decide whether a missing core is fatal; the client only
	// reports what happened
	if !domain.IsStatus(err, http.StatusNotFound) {
		t.Errorf("expected 404 request error, got %v", err)
	}
}

func TestClient_Commit_Params(t *testing.T) {
	var query url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"responseHeader":{"status":0}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if err := client.Commit(context.Background(), "idx"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, param := range []string{"commit", "waitFlush", "waitSearcher"} {
		if query.Get(param) != "true" {
			t.Errorf("expected %s=true, got %q", param, query.Get(param))
		}
	}
}

func TestClient_Ping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantUp  bool
		wantErr bool
	}{
		{"up", http.StatusOK, true, false},
		{"no core", http.StatusNotFound, false, false},
		{"server error", http.StatusInternalServerError, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/idx/admin/ping" {
					t.Errorf("expected ping path, got %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			up, err := client.Ping(context.Background(), "idx")
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if up != tt.wantUp {
				t.Errorf("expected up=%v, got %v", tt.wantUp, up)
			}
		})
	}
}

func TestClient_SetPoolConfig(t *testing.T) {
	client := newTestClient("http://localhost:8983/solr")

	if got := client.PoolConfig(); got != domain.DefaultPoolConfig() {
		t.Errorf("expected default pool, got %+v", got)
	}

	next := domain.PoolConfig{MaxSessions: 7, MaxPipeline: 3}
	if err := client.SetPoolConfig(next); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := client.PoolConfig(); got != next {
		t.Errorf("expected %+v, got %+v", next, got)
	}

	transport := client.client().Transport.(*http.Transport)
	if transport.MaxConnsPerHost != 7 {
		t.Errorf("expected transport rebuilt with 7 conns, got %d", transport.MaxConnsPerHost)
	}
}

func TestClient_SetPoolConfig_RejectsInvalid(t *testing.T) {
	client := newTestClient("http://localhost:8983/solr")

	err := client.SetPoolConfig(domain.PoolConfig{MaxSessions: 0, MaxPipeline: 1})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	// failed update must not disturb the active configuration
	if got := client.PoolConfig(); got != domain.DefaultPoolConfig() {
		t.Errorf("expected defaults preserved, got %+v", got)
	}
}

func TestClient_NetworkError(t *testing.T) {
	// invalid port guarantees the dial fails without touching the network
	client := newTestClient("http://localhost:99999")

	if _, err := client.Search(context.Background(), "idx", url.Values{}); err == nil {
		t.Error("expected network error from search")
	}
	if err := client.Commit(context.Background(), "idx"); err == nil {
		t.Error("expected network error from commit")
	}
}
