package store

import (
	"context"
	"database/sql"

	"github.com/apisec/sentinel/pkg/drift"
)

// ApiSpecRecord is a stored OpenAPI document, the database counterpart
// of drift's in-memory ApiSpec.
type ApiSpecRecord struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Version string `json:"version"`
}

// AddAPISpec persists a new OpenAPI document and returns its id.
func (s *Store) AddAPISpec(ctx context.Context, name, content, version string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO specs (name, content, version) VALUES (?, ?, ?)", name, content, nullableString(version),
	)
	if err != nil {
		return 0, NewStoreError("add_api_spec", err)
	}
	return res.LastInsertId()
}

// GetAPISpecs lists every stored OpenAPI document.
func (s *Store) GetAPISpecs(ctx context.Context) ([]ApiSpecRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, content, version FROM specs")
	if err != nil {
		return nil, NewStoreError("get_api_specs", err)
	}
	defer rows.Close()

	var out []ApiSpecRecord
	for rows.Next() {
		var r ApiSpecRecord
		var version sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &r.Content, &version); err != nil {
			return nil, NewStoreError("scan_api_spec", err)
		}
		r.Version = version.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteAPISpec removes an OpenAPI document by id.
func (s *Store) DeleteAPISpec(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM specs WHERE id = ?", id); err != nil {
		return NewStoreError("delete_api_spec", err)
	}
	return nil
}

// loadSpecs fetches every stored spec as drift.Spec values, for the
// Drift Detector invocation inside AddAsset.
func (s *Store) loadSpecs(ctx context.Context) ([]drift.Spec, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, content FROM specs")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []drift.Spec
	for rows.Next() {
		var sp drift.Spec
		if err := rows.Scan(&sp.Name, &sp.Content); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
