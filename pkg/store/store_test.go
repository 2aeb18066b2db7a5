package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/apisec/sentinel/pkg/asset"
	"github.com/apisec/sentinel/pkg/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.StoreConfig{
		Path:         filepath.Join(t.TempDir(), "sentinel.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		BusyTimeout:  5 * time.Second,
	}
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAssetInsertsNewAsset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddAsset(ctx, CreateAssetRequest{
		URL: "https://api.example.com/users/1", Method: "GET", StatusCode: 200,
		ResBody: []byte(`{"id":1}`), Source: asset.SourceLiveProxy,
	})
	if err != nil {
		t.Fatalf("AddAsset() error: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected a non-zero asset id")
	}

	assets, err := s.GetAssets(ctx)
	if err != nil {
		t.Fatalf("GetAssets() error: %v", err)
	}
	if len(assets) != 1 || assets[0].URL != "https://api.example.com/users/1" {
		t.Fatalf("expected a single matching asset, got %+v", assets)
	}
}

func TestAddAssetDeduplicatesByURL(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	req := CreateAssetRequest{URL: "https://api.example.com/x", Method: "GET", StatusCode: 200, ResBody: []byte("a")}

	id1, err := s.AddAsset(ctx, req)
	if err != nil {
		t.Fatalf("first AddAsset() error: %v", err)
	}
	id2, err := s.AddAsset(ctx, req)
	if err != nil {
		t.Fatalf("second AddAsset() error: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected the same asset id for a repeated URL, got %d and %d", id1, id2)
	}

	assets, err := s.GetAssets(ctx)
	if err != nil {
		t.Fatalf("GetAssets() error: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("expected exactly one asset row for one URL, got %d", len(assets))
	}
}

func TestAddAssetNoChangeSkipsHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	req := CreateAssetRequest{URL: "https://api.example.com/y", Method: "GET", StatusCode: 200, ResBody: []byte("same")}

	id, err := s.AddAsset(ctx, req)
	if err != nil {
		t.Fatalf("AddAsset() error: %v", err)
	}
	if _, err := s.AddAsset(ctx, req); err != nil {
		t.Fatalf("second AddAsset() error: %v", err)
	}

	history, err := s.GetAssetHistory(ctx, id)
	if err != nil {
		t.Fatalf("GetAssetHistory() error: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected no history rows for an unchanged re-observation, got %d", len(history))
	}
}

func TestAddAssetChangeAppendsHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddAsset(ctx, CreateAssetRequest{URL: "https://api.example.com/z", Method: "GET", StatusCode: 200, ResBody: []byte("v1")})
	if err != nil {
		t.Fatalf("AddAsset() error: %v", err)
	}
	if _, err := s.AddAsset(ctx, CreateAssetRequest{URL: "https://api.example.com/z", Method: "GET", StatusCode: 200, ResBody: []byte("v2")}); err != nil {
		t.Fatalf("second AddAsset() error: %v", err)
	}

	history, err := s.GetAssetHistory(ctx, id)
	if err != nil {
		t.Fatalf("GetAssetHistory() error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected exactly one history row after a body change, got %d", len(history))
	}
	if string(history[0].ResponseBody) != "v1" {
		t.Fatalf("expected the history row to carry the superseded body 'v1', got %q", history[0].ResponseBody)
	}

	assets, err := s.GetAssets(ctx)
	if err != nil {
		t.Fatalf("GetAssets() error: %v", err)
	}
	if string(assets[0].ResponseBody) != "v2" {
		t.Fatalf("expected the asset row to carry the new body 'v2', got %q", assets[0].ResponseBody)
	}
}

func TestAddAssetInsertsFindings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddAsset(ctx, CreateAssetRequest{
		URL: "https://api.example.com/f", Method: "GET", StatusCode: 200,
		Findings: []asset.Finding{{RuleID: "AUTH-JWT", Name: "JWT", Severity: asset.SeverityHigh, MatchContent: "ey..."}},
	})
	if err != nil {
		t.Fatalf("AddAsset() error: %v", err)
	}

	findings, err := s.GetFindings(ctx, id)
	if err != nil {
		t.Fatalf("GetFindings() error: %v", err)
	}
	if len(findings) != 1 || findings[0].RuleID != "AUTH-JWT" {
		t.Fatalf("expected the single AUTH-JWT finding to persist, got %+v", findings)
	}
}

func TestAddAssetRunsDriftDetection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	spec := `{"paths":{"/items/{id}":{"get":{"responses":{}}}}}`
	if _, err := s.AddAPISpec(ctx, "items-api", spec, ""); err != nil {
		t.Fatalf("AddAPISpec() error: %v", err)
	}

	id, err := s.AddAsset(ctx, CreateAssetRequest{URL: "https://api.example.com/items/42", Method: "POST", StatusCode: 201})
	if err != nil {
		t.Fatalf("AddAsset() error: %v", err)
	}

	findings, err := s.GetFindings(ctx, id)
	if err != nil {
		t.Fatalf("GetFindings() error: %v", err)
	}
	if len(findings) != 1 || findings[0].RuleID != "DRIFT-UNDOCUMENTED-METHOD" {
		t.Fatalf("expected a DRIFT-UNDOCUMENTED-METHOD finding from the stored spec, got %+v", findings)
	}
}

func TestBatchAddAssetsMarksAddedAndSkipped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddAsset(ctx, CreateAssetRequest{URL: "https://api.example.com/existing", StatusCode: 200}); err != nil {
		t.Fatalf("AddAsset() error: %v", err)
	}

	results, err := s.BatchAddAssets(ctx, []string{"https://api.example.com/existing", "https://api.example.com/new"}, "Import")
	if err != nil {
		t.Fatalf("BatchAddAssets() error: %v", err)
	}
	if len(results) != 2 || results[0].Status != "skipped" || results[1].Status != "added" {
		t.Fatalf("expected [skipped, added], got %+v", results)
	}
}

func TestDeleteAssetRemovesFindings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddAsset(ctx, CreateAssetRequest{
		URL: "https://api.example.com/gone", StatusCode: 200,
		Findings: []asset.Finding{{RuleID: "PII-EMAIL", Severity: asset.SeverityLow}},
	})
	if err != nil {
		t.Fatalf("AddAsset() error: %v", err)
	}

	if err := s.DeleteAsset(ctx, id); err != nil {
		t.Fatalf("DeleteAsset() error: %v", err)
	}

	assets, err := s.GetAssets(ctx)
	if err != nil {
		t.Fatalf("GetAssets() error: %v", err)
	}
	if len(assets) != 0 {
		t.Fatalf("expected no assets after deletion, got %d", len(assets))
	}
	findings, err := s.GetFindings(ctx, id)
	if err != nil {
		t.Fatalf("GetFindings() error: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings left for a deleted asset, got %d", len(findings))
	}
}

func TestClearInventoryEmptiesAssetsAndFindings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddAsset(ctx, CreateAssetRequest{URL: "https://api.example.com/a", StatusCode: 200, Findings: []asset.Finding{{RuleID: "PII-EMAIL"}}})
	if err != nil {
		t.Fatalf("AddAsset() error: %v", err)
	}

	if err := s.ClearInventory(ctx); err != nil {
		t.Fatalf("ClearInventory() error: %v", err)
	}

	assets, _ := s.GetAssets(ctx)
	if len(assets) != 0 {
		t.Fatalf("expected an empty inventory, got %d assets", len(assets))
	}
	findings, _ := s.GetFindings(ctx, id)
	if len(findings) != 0 {
		t.Fatalf("expected no findings after clearing, got %d", len(findings))
	}
}

func TestGlobalSearchMatchesURLAndFindingFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddAsset(ctx, CreateAssetRequest{
		URL: "https://api.example.com/secret-endpoint", StatusCode: 200,
		Findings: []asset.Finding{{RuleID: "AUTH-JWT", Name: "JWT detected", Description: "token leak"}},
	}); err != nil {
		t.Fatalf("AddAsset() error: %v", err)
	}

	assets, _, err := s.GlobalSearch(ctx, "secret-endpoint")
	if err != nil {
		t.Fatalf("GlobalSearch() error: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("expected one asset matching the URL substring, got %d", len(assets))
	}

	_, findings, err := s.GlobalSearch(ctx, "token leak")
	if err != nil {
		t.Fatalf("GlobalSearch() error: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected one finding matching the description substring, got %d", len(findings))
	}
}

func TestTagAddRemoveRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddAsset(ctx, CreateAssetRequest{URL: "https://api.example.com/tagged", StatusCode: 200})
	if err != nil {
		t.Fatalf("AddAsset() error: %v", err)
	}

	if err := s.AddTag(ctx, id, "reviewed"); err != nil {
		t.Fatalf("AddTag() error: %v", err)
	}
	if err := s.AddTag(ctx, id, "reviewed"); err != nil {
		t.Fatalf("repeated AddTag() error: %v", err)
	}

	tags, err := s.ListTagsForAsset(ctx, id)
	if err != nil {
		t.Fatalf("ListTagsForAsset() error: %v", err)
	}
	if len(tags) != 1 || tags[0] != "reviewed" {
		t.Fatalf("expected exactly one 'reviewed' tag, got %+v", tags)
	}

	if err := s.RemoveTag(ctx, id, "reviewed"); err != nil {
		t.Fatalf("RemoveTag() error: %v", err)
	}
	tags, err = s.ListTagsForAsset(ctx, id)
	if err != nil {
		t.Fatalf("ListTagsForAsset() error: %v", err)
	}
	if len(tags) != 0 {
		t.Fatalf("expected no tags after removal, got %+v", tags)
	}
}

func TestPingReportsLiveConnection(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error on an open store: %v", err)
	}

	s.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected Ping() to fail after Close()")
	}
}

func TestCustomRuleCRUDAndScannerAdapter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddCustomRule(ctx, CustomRuleRecord{RuleID: "CUST-1", Name: "Internal token", Regex: `internal-[a-z0-9]+`, Severity: "High"})
	if err != nil {
		t.Fatalf("AddCustomRule() error: %v", err)
	}

	rules, err := s.CustomRules()
	if err != nil {
		t.Fatalf("CustomRules() error: %v", err)
	}
	if len(rules) != 1 || rules[0].RuleID != "CUST-1" {
		t.Fatalf("expected the scanner adapter to surface CUST-1, got %+v", rules)
	}

	if err := s.DeleteCustomRule(ctx, id); err != nil {
		t.Fatalf("DeleteCustomRule() error: %v", err)
	}
	rules, err = s.CustomRules()
	if err != nil {
		t.Fatalf("CustomRules() error: %v", err)
	}
	if len(rules) != 0 {
		t.Fatalf("expected no custom rules after deletion, got %+v", rules)
	}
}
