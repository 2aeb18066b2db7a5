package store

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/apisec/sentinel/pkg/asset"
	"github.com/apisec/sentinel/pkg/config"
	"github.com/apisec/sentinel/pkg/drift"
)

// Store is the SQLite-backed Asset Store. A single Store value is safe
// for concurrent use; the upsert path is additionally serialized by mu so
// that the read-check-write sequence in AddAsset behaves as a single
// critical section under the single-writer-per-URL assumption the
// cross-statement upsert logic below depends on.
type Store struct {
	db     *sql.DB
	cfg    config.StoreConfig
	drift  *drift.Detector
	mu     sync.Mutex
	logger *slog.Logger
}

// New opens (creating if necessary) the SQLite database at cfg.Path and
// ensures its schema is current.
func New(cfg config.StoreConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store.sqlite")

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, NewStoreError("open", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	s := &Store{
		db:     db,
		cfg:    cfg,
		drift:  drift.NewDetector(),
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("asset store initialized", "path", cfg.Path)
	return s, nil
}

func (s *Store) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return NewStoreError("enable_wal", err)
	}

	busyTimeoutMs := s.cfg.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStoreError("set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStoreError("create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStoreError("insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil && err != sql.ErrNoRows {
		return NewStoreError("get_schema_version", err)
	}
	s.logger.Debug("schema version verified", "version", version)

	return nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStoreError("close", err)
	}
	return nil
}

// Ping verifies the underlying database connection is alive, for use as
// a health.CheckFunc.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStoreError("ping", err)
	}
	return nil
}

// RecordFlow adapts a Flow and its Scanner findings into a
// CreateAssetRequest and upserts it. It satisfies proxy.AssetStore.
func (s *Store) RecordFlow(ctx context.Context, flow asset.Flow, findings []asset.Finding) error {
	source := asset.SourceLiveProxy
	if flow.IsWebSocket {
		source = asset.SourceLiveProxyWS
	}
	_, err := s.AddAsset(ctx, CreateAssetRequest{
		URL:        flow.URL,
		Source:     source,
		Method:     flow.Method,
		StatusCode: flow.StatusCode,
		ReqBody:    flow.RequestBody,
		ResBody:    flow.ResponseBody,
		Findings:   findings,
	})
	return err
}

// AddAsset implements the upsert sequence:
//  1. Invoke the Drift Detector, extend findings with its output.
//  2. Look up an existing asset by exact URL match.
//  3. If present and (status_code, res_body) changed, snapshot the old
//     values to history (when a prior body existed) and update the row;
//     otherwise refresh last_seen only.
//  4. If absent, insert a new asset.
//  5. Insert each finding against the resulting asset id.
func (s *Store) AddAsset(ctx context.Context, req CreateAssetRequest) (int64, error) {
	specs, err := s.loadSpecs(ctx)
	if err != nil {
		return 0, NewStoreError("load_specs", err)
	}
	if len(specs) > 0 {
		driftFindings := s.drift.Detect(req.URL, req.Method, string(req.ResBody), specs)
		req.Findings = append(req.Findings, driftFindings...)
	}

	method := req.Method
	if method == "" {
		method = "GET"
	}

	s.mu.Lock()
	assetID, err := s.upsertAsset(ctx, req, method)
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}

	for _, f := range req.Findings {
		if err := s.insertFinding(ctx, assetID, f); err != nil {
			return assetID, err
		}
	}

	return assetID, nil
}

// upsertAsset performs steps 2-4 of AddAsset under the caller's lock.
func (s *Store) upsertAsset(ctx context.Context, req CreateAssetRequest, method string) (int64, error) {
	var assetID int64
	var existingStatus sql.NullInt64
	var existingResBody []byte

	row := s.db.QueryRowContext(ctx, "SELECT id, status_code, res_body FROM assets WHERE url = ?", req.URL)
	err := row.Scan(&assetID, &existingStatus, &existingResBody)

	switch {
	case err == sql.ErrNoRows:
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO assets (url, method, source, status_code, req_body, res_body, last_seen)
			 VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
			req.URL, method, req.Source, req.StatusCode, nullableBytes(req.ReqBody), nullableBytes(req.ResBody),
		)
		if err != nil {
			return 0, NewStoreError("insert_asset", err)
		}
		return res.LastInsertId()

	case err != nil:
		return 0, NewStoreError("lookup_asset", err)

	default:
		changed := !existingStatus.Valid || int(existingStatus.Int64) != req.StatusCode || !bytes.Equal(existingResBody, req.ResBody)

		if !changed {
			if _, err := s.db.ExecContext(ctx, "UPDATE assets SET last_seen = CURRENT_TIMESTAMP WHERE id = ?", assetID); err != nil {
				return 0, NewStoreError("touch_asset", err)
			}
			return assetID, nil
		}

		if existingResBody != nil {
			if _, err := s.db.ExecContext(ctx,
				"INSERT INTO asset_history (asset_id, status_code, res_body, recorded_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)",
				assetID, existingStatus, existingResBody,
			); err != nil {
				return 0, NewStoreError("insert_history", err)
			}
		}

		if _, err := s.db.ExecContext(ctx,
			`UPDATE assets SET status_code = ?, res_body = ?, method = ?, last_seen = CURRENT_TIMESTAMP WHERE id = ?`,
			req.StatusCode, nullableBytes(req.ResBody), method, assetID,
		); err != nil {
			return 0, NewStoreError("update_asset", err)
		}
		return assetID, nil
	}
}

func (s *Store) insertFinding(ctx context.Context, assetID int64, f asset.Finding) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO findings (asset_id, rule_id, name, description, severity, match_content, notes, is_false_positive, severity_override)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		assetID, f.RuleID, f.Name, f.Description, string(f.Severity), f.MatchContent, f.Notes, f.FalsePositive, string(f.SeverityOverride),
	)
	if err != nil {
		return NewStoreError("insert_finding", err)
	}
	return nil
}

// BatchAddAssets implements the URL-only batch ingest: existing URLs are
// marked "skipped" (last_seen refreshed only), new URLs
// are inserted with method defaulting to GET and marked "added".
func (s *Store) BatchAddAssets(ctx context.Context, urls []string, source string) ([]BatchAssetResult, error) {
	results := make([]BatchAssetResult, 0, len(urls))

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, url := range urls {
		var existingID int64
		err := s.db.QueryRowContext(ctx, "SELECT id FROM assets WHERE url = ?", url).Scan(&existingID)
		switch {
		case err == sql.ErrNoRows:
			if _, err := s.db.ExecContext(ctx,
				"INSERT INTO assets (url, method, source, last_seen) VALUES (?, 'GET', ?, CURRENT_TIMESTAMP)", url, source,
			); err != nil {
				return results, NewStoreError("batch_insert", err)
			}
			results = append(results, BatchAssetResult{URL: url, Status: "added"})
		case err != nil:
			return results, NewStoreError("batch_lookup", err)
		default:
			if _, err := s.db.ExecContext(ctx, "UPDATE assets SET last_seen = CURRENT_TIMESTAMP WHERE id = ?", existingID); err != nil {
				return results, NewStoreError("batch_touch", err)
			}
			results = append(results, BatchAssetResult{URL: url, Status: "skipped"})
		}
	}

	return results, nil
}

// nullableBytes converts an empty byte slice to a nil interface value so
// it is stored as SQL NULL rather than an empty BLOB.
func nullableBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
