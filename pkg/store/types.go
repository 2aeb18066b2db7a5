package store

import "github.com/apisec/sentinel/pkg/asset"

// CreateAssetRequest is the upsert input for a single observed asset: an
// observed (URL, method, status, bodies) tuple plus the Findings the
// Scanner already raised for it. AddAsset extends Findings with whatever
// the Drift Detector raises before persisting either.
type CreateAssetRequest struct {
	URL        string
	Source     string
	Method     string
	StatusCode int
	ReqBody    []byte
	ResBody    []byte
	Findings   []asset.Finding
}

// BatchAssetResult reports, per URL, whether a batch ingest added a new
// asset row or found one already present and only refreshed LastSeen.
type BatchAssetResult struct {
	URL    string `json:"url"`
	Status string `json:"status"` // "added" | "skipped"
}

// Tag is a named, optionally colored label assets can be associated with.
type Tag struct {
	ID    int64
	Name  string
	Color string
}

// Folder groups assets into an operator-defined hierarchy. ParentID is nil
// for a top-level folder.
type Folder struct {
	ID       int64
	Name     string
	ParentID *int64
}
