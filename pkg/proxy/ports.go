package proxy

import (
	"context"

	"github.com/apisec/sentinel/pkg/asset"
)

// Analyzer runs passive analysis (the Scanner and Drift Detector) against
// an observed Flow and returns any Findings raised.
type Analyzer interface {
	Analyze(ctx context.Context, flow asset.Flow) ([]asset.Finding, error)
}

// AssetStore persists an observed Flow (and its Findings) as an Asset,
// de-duplicated by URL.
type AssetStore interface {
	RecordFlow(ctx context.Context, flow asset.Flow, findings []asset.Finding) error
}
