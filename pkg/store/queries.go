package store

import (
	"context"
	"database/sql"

	"github.com/apisec/sentinel/pkg/asset"
)

// GetAssets lists every asset with a joined findings count, sorted by
// last_seen descending.
func (s *Store) GetAssets(ctx context.Context) ([]asset.Asset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.url, a.method, a.status_code, a.source, a.req_body, a.res_body, a.last_seen, a.notes, COUNT(f.id)
		 FROM assets a
		 LEFT JOIN findings f ON a.id = f.asset_id
		 GROUP BY a.id
		 ORDER BY a.last_seen DESC`,
	)
	if err != nil {
		return nil, NewStoreError("get_assets", err)
	}
	defer rows.Close()

	var out []asset.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, NewStoreError("scan_asset", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetFindings returns every Finding recorded against assetID.
func (s *Store) GetFindings(ctx context.Context, assetID int64) ([]asset.Finding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, rule_id, name, description, severity, match_content, notes, is_false_positive, severity_override
		 FROM findings WHERE asset_id = ?`, assetID,
	)
	if err != nil {
		return nil, NewStoreError("get_findings", err)
	}
	defer rows.Close()

	var out []asset.Finding
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, NewStoreError("scan_finding", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetAssetHistory returns assetID's history snapshots, ordered by
// recorded_at descending.
func (s *Store) GetAssetHistory(ctx context.Context, assetID int64) ([]asset.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, asset_id, status_code, res_body, recorded_at FROM asset_history WHERE asset_id = ? ORDER BY recorded_at DESC",
		assetID,
	)
	if err != nil {
		return nil, NewStoreError("get_history", err)
	}
	defer rows.Close()

	var out []asset.HistoryEntry
	for rows.Next() {
		var h asset.HistoryEntry
		var statusCode sql.NullInt64
		var resBody []byte
		if err := rows.Scan(&h.ID, &h.AssetID, &statusCode, &resBody, &h.RecordedAt); err != nil {
			return nil, NewStoreError("scan_history", err)
		}
		h.StatusCode = int(statusCode.Int64)
		h.ResponseBody = resBody
		out = append(out, h)
	}
	return out, rows.Err()
}

// UpdateFindingAnnotation applies an operator annotation to a Finding.
// Only notes/false-positive/severity-override are mutable.
func (s *Store) UpdateFindingAnnotation(ctx context.Context, findingID int64, notes string, falsePositive bool, severityOverride asset.Severity) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE findings SET notes = ?, is_false_positive = ?, severity_override = ? WHERE id = ?",
		notes, falsePositive, string(severityOverride), findingID,
	)
	if err != nil {
		return NewStoreError("update_finding_annotation", err)
	}
	return nil
}

// GlobalSearch returns every asset and finding whose text fields contain
// substr, covering URL, bodies, notes, and finding
// names/descriptions/matches.
func (s *Store) GlobalSearch(ctx context.Context, substr string) ([]asset.Asset, []asset.Finding, error) {
	q := "%" + substr + "%"

	assetRows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.url, a.method, a.status_code, a.source, a.req_body, a.res_body, a.last_seen, a.notes, 0
		 FROM assets a
		 WHERE a.url LIKE ? OR a.req_body LIKE ? OR a.res_body LIKE ? OR a.notes LIKE ?`,
		q, q, q, q,
	)
	if err != nil {
		return nil, nil, NewStoreError("search_assets", err)
	}
	defer assetRows.Close()

	var assets []asset.Asset
	for assetRows.Next() {
		a, err := scanAsset(assetRows)
		if err != nil {
			return nil, nil, NewStoreError("scan_asset", err)
		}
		assets = append(assets, a)
	}
	if err := assetRows.Err(); err != nil {
		return nil, nil, NewStoreError("search_assets", err)
	}

	findingRows, err := s.db.QueryContext(ctx,
		`SELECT id, rule_id, name, description, severity, match_content, notes, is_false_positive, severity_override
		 FROM findings WHERE name LIKE ? OR description LIKE ? OR match_content LIKE ?`,
		q, q, q,
	)
	if err != nil {
		return nil, nil, NewStoreError("search_findings", err)
	}
	defer findingRows.Close()

	var findings []asset.Finding
	for findingRows.Next() {
		f, err := scanFinding(findingRows)
		if err != nil {
			return nil, nil, NewStoreError("scan_finding", err)
		}
		findings = append(findings, f)
	}
	return assets, findings, findingRows.Err()
}

// DeleteAsset removes an asset's findings, then the asset row itself.
func (s *Store) DeleteAsset(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM findings WHERE asset_id = ?", id); err != nil {
		return NewStoreError("delete_findings", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM asset_history WHERE asset_id = ?", id); err != nil {
		return NewStoreError("delete_history", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id); err != nil {
		return NewStoreError("delete_asset", err)
	}
	return nil
}

// ClearInventory truncates findings then assets. Asset history is
// cleared alongside assets since every row references an asset id that
// is about to disappear.
func (s *Store) ClearInventory(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM findings"); err != nil {
		return NewStoreError("clear_findings", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM asset_history"); err != nil {
		return NewStoreError("clear_history", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM assets"); err != nil {
		return NewStoreError("clear_assets", err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Rows and *sql.Row.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(row rowScanner) (asset.Asset, error) {
	var a asset.Asset
	var method, source, notes sql.NullString
	var statusCode sql.NullInt64
	var reqBody, resBody []byte

	err := row.Scan(&a.ID, &a.URL, &method, &statusCode, &source, &reqBody, &resBody, &a.LastSeen, &notes, &a.FindingsCount)
	if err != nil {
		return a, err
	}
	a.Method = method.String
	a.Source = source.String
	a.Notes = notes.String
	a.StatusCode = int(statusCode.Int64)
	a.RequestBody = reqBody
	a.ResponseBody = resBody
	return a, nil
}

func scanFinding(row rowScanner) (asset.Finding, error) {
	var f asset.Finding
	var notes, severityOverride sql.NullString
	var severity string

	err := row.Scan(&f.ID, &f.RuleID, &f.Name, &f.Description, &severity, &f.MatchContent, &notes, &f.FalsePositive, &severityOverride)
	if err != nil {
		return f, err
	}
	f.Severity = asset.Severity(severity)
	f.Notes = notes.String
	f.SeverityOverride = asset.Severity(severityOverride.String)
	return f, nil
}
