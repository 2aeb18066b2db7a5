package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apisec/sentinel/pkg/asset"
	"github.com/apisec/sentinel/pkg/proxy/events"
	"github.com/apisec/sentinel/pkg/proxy/intercept"
	"github.com/apisec/sentinel/pkg/store"
)

// fakeProxy is a minimal ProxyController double for exercising handlers
// without a real proxy.Server or bound listener.
type fakeProxy struct {
	running    bool
	rootPEM    []byte
	addr       string
	lastResult intercept.Result
	resolveErr error
}

func (f *fakeProxy) Start(ctx context.Context) error    { f.running = true; return nil }
func (f *fakeProxy) Shutdown(ctx context.Context) error  { f.running = false; return nil }
func (f *fakeProxy) SetInterceptionConfig(_, _, _ bool)  {}
func (f *fakeProxy) RootCAPEM() []byte                   { return f.rootPEM }
func (f *fakeProxy) IsRunning() bool                     { return f.running }
func (f *fakeProxy) Addr() string                        { return f.addr }
func (f *fakeProxy) ResolveInterception(id string, result intercept.Result) error {
	f.lastResult = result
	return f.resolveErr
}

// fakeStore is a minimal AssetStore double backed by in-memory slices.
type fakeStore struct {
	assets []asset.Asset
	rules  []store.CustomRuleRecord
	pingOK bool
}

func (f *fakeStore) GetAssets(ctx context.Context) ([]asset.Asset, error) { return f.assets, nil }
func (f *fakeStore) AddAsset(ctx context.Context, req store.CreateAssetRequest) (int64, error) {
	f.assets = append(f.assets, asset.Asset{ID: int64(len(f.assets) + 1), URL: req.URL, Method: req.Method})
	return int64(len(f.assets)), nil
}
func (f *fakeStore) BatchAddAssets(ctx context.Context, urls []string, source string) ([]store.BatchAssetResult, error) {
	out := make([]store.BatchAssetResult, len(urls))
	for i, u := range urls {
		out[i] = store.BatchAssetResult{URL: u, Status: "added"}
	}
	return out, nil
}
func (f *fakeStore) DeleteAsset(ctx context.Context, id int64) error  { return nil }
func (f *fakeStore) ClearInventory(ctx context.Context) error         { f.assets = nil; return nil }
func (f *fakeStore) GetAssetHistory(ctx context.Context, id int64) ([]asset.HistoryEntry, error) {
	return nil, nil
}
func (f *fakeStore) GlobalSearch(ctx context.Context, substr string) ([]asset.Asset, []asset.Finding, error) {
	return f.assets, nil, nil
}
func (f *fakeStore) GetFindings(ctx context.Context, assetID int64) ([]asset.Finding, error) {
	return nil, nil
}
func (f *fakeStore) UpdateFindingAnnotation(ctx context.Context, findingID int64, notes string, falsePositive bool, severityOverride asset.Severity) error {
	return nil
}
func (f *fakeStore) GetCustomRules(ctx context.Context) ([]store.CustomRuleRecord, error) {
	return f.rules, nil
}
func (f *fakeStore) AddCustomRule(ctx context.Context, r store.CustomRuleRecord) (int64, error) {
	f.rules = append(f.rules, r)
	return int64(len(f.rules)), nil
}
func (f *fakeStore) DeleteCustomRule(ctx context.Context, id int64) error { return nil }
func (f *fakeStore) GetAPISpecs(ctx context.Context) ([]store.ApiSpecRecord, error) {
	return nil, nil
}
func (f *fakeStore) AddAPISpec(ctx context.Context, name, content, version string) (int64, error) {
	return 1, nil
}
func (f *fakeStore) DeleteAPISpec(ctx context.Context, id int64) error       { return nil }
func (f *fakeStore) AddTag(ctx context.Context, assetID int64, name string) error { return nil }
func (f *fakeStore) RemoveTag(ctx context.Context, assetID int64, name string) error {
	return nil
}
func (f *fakeStore) ListTagsForAsset(ctx context.Context, assetID int64) ([]string, error) {
	return []string{"tag1"}, nil
}
func (f *fakeStore) Ping(ctx context.Context) error {
	if f.pingOK {
		return nil
	}
	return context.DeadlineExceeded
}

func newTestServer(t *testing.T) (*Server, *fakeProxy, *fakeStore) {
	t.Helper()
	proxy := &fakeProxy{addr: "127.0.0.1:8080", rootPEM: []byte("-----BEGIN CERTIFICATE-----\nfake\n-----END CERTIFICATE-----\n")}
	st := &fakeStore{pingOK: true}
	hub := events.NewHub(slog.Default(), false)
	srv, err := NewServer(Config{ListenAddress: "127.0.0.1:0"}, proxy, st, hub, slog.Default())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv, proxy, st
}

func TestHandleControlStatus(t *testing.T) {
	srv, proxy, _ := newTestServer(t)
	proxy.running = true

	req := httptest.NewRequest(http.MethodGet, "/v1/control/status", nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["running"] != true {
		t.Errorf("running = %v, want true", body["running"])
	}
	if body["addr"] != "127.0.0.1:8080" {
		t.Errorf("addr = %v, want 127.0.0.1:8080", body["addr"])
	}
}

func TestHandleAddAndListAssets(t *testing.T) {
	srv, _, _ := newTestServer(t)

	addBody := bytes.NewBufferString(`{"url":"https://api.example.com/v1/users","method":"GET"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/assets", addBody)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/assets", nil)
	w = httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want %d", w.Code, http.StatusOK)
	}
	var assets []asset.Asset
	if err := json.NewDecoder(w.Body).Decode(&assets); err != nil {
		t.Fatalf("decode assets: %v", err)
	}
	if len(assets) != 1 || assets[0].URL != "https://api.example.com/v1/users" {
		t.Errorf("assets = %+v, want one asset for the added URL", assets)
	}
}

func TestHandleAddAssetRejectsMissingURL(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/assets", bytes.NewBufferString(`{"method":"GET"}`))
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleAddRuleRejectsInvalidRegex(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"rule_id":"r1","name":"bad","regex":"(unterminated","severity":"high"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/rules", body)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}

func TestHandleResolveInterception(t *testing.T) {
	srv, proxy, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"decision":"drop"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/intercept/flow-1/resolve", body)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if proxy.lastResult.Decision != intercept.Drop {
		t.Errorf("decision = %v, want Drop", proxy.lastResult.Decision)
	}
}

func TestHandleRootCA(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ca/root", nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/x-pem-file" {
		t.Errorf("content-type = %q, want application/x-pem-file", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("expected non-empty PEM body")
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _, st := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("/health status = %d, want %d", w.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	w = httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("/ready status = %d, want %d when asset store is healthy", w.Code, http.StatusOK)
	}

	st.pingOK = false
	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	w = httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("/ready status = %d, want %d when asset store is unhealthy", w.Code, http.StatusServiceUnavailable)
	}
}
