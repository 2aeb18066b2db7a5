package store

import (
	"context"
	"database/sql"
)

// AddTag associates assetID with a named tag, creating the tag (with a
// default color) if it doesn't already exist. Grounded on
// original_source's add_asset_tag: INSERT OR IGNORE into tags, then into
// asset_tags, so a repeated tag add is a no-op rather than an error.
func (s *Store) AddTag(ctx context.Context, assetID int64, name string) error {
	const defaultColor = "#3b82f6"

	if _, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO tags (name, color) VALUES (?, ?)", name, defaultColor); err != nil {
		return NewStoreError("add_tag", err)
	}

	var tagID int64
	if err := s.db.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", name).Scan(&tagID); err != nil {
		return NewStoreError("lookup_tag", err)
	}

	if _, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO asset_tags (asset_id, tag_id) VALUES (?, ?)", assetID, tagID); err != nil {
		return NewStoreError("associate_tag", err)
	}
	return nil
}

// RemoveTag disassociates a named tag from assetID. Removing a tag that
// was never associated, or that doesn't exist, is a no-op.
func (s *Store) RemoveTag(ctx context.Context, assetID int64, name string) error {
	var tagID int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", name).Scan(&tagID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return NewStoreError("lookup_tag", err)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM asset_tags WHERE asset_id = ? AND tag_id = ?", assetID, tagID); err != nil {
		return NewStoreError("remove_tag", err)
	}
	return nil
}

// ListTagsForAsset returns the names of every tag associated with assetID.
func (s *Store) ListTagsForAsset(ctx context.Context, assetID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT t.name FROM tags t JOIN asset_tags at ON t.id = at.tag_id WHERE at.asset_id = ?", assetID,
	)
	if err != nil {
		return nil, NewStoreError("list_tags", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, NewStoreError("scan_tag", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// CreateFolder creates a new folder, optionally nested under parentID,
// and returns its id.
func (s *Store) CreateFolder(ctx context.Context, name string, parentID *int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO folders (name, parent_id) VALUES (?, ?)", name, parentID)
	if err != nil {
		return 0, NewStoreError("create_folder", err)
	}
	return res.LastInsertId()
}

// MoveAssetToFolder assigns assetID to folderID, or clears its folder
// assignment when folderID is nil.
func (s *Store) MoveAssetToFolder(ctx context.Context, assetID int64, folderID *int64) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE assets SET folder_id = ? WHERE id = ?", folderID, assetID); err != nil {
		return NewStoreError("move_asset_to_folder", err)
	}
	return nil
}
