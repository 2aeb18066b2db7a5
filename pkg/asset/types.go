// Package asset defines the domain types shared by the Proxy, Scanner,
// Drift Detector, and Store: the vocabulary every subsystem in the core
// speaks, so none of them need to import one another's internals.
package asset

import "time"

// Source labels where an Asset was observed.
const (
	SourceLiveProxy   = "Live Proxy"
	SourceLiveProxyWS = "Live Proxy (WS)"
)

// Severity classifies a Finding.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
	SeverityInfo   Severity = "Info"
)

// Flow is one observed request/response pair, the unit of work handed from
// the Proxy to the Scanner and Drift Detector.
type Flow struct {
	Method          string
	URL             string
	StatusCode      int
	RequestHeaders  map[string][]string
	ResponseHeaders map[string][]string
	RequestBody     []byte
	ResponseBody    []byte
	IsWebSocket     bool
	ObservedAt      time.Time
}

// Finding is a single detection raised by the Scanner or Drift Detector
// against a Flow.
type Finding struct {
	ID          int64    `json:"id"`
	RuleID      string   `json:"rule_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	// MatchContent is the literal matched text, possibly truncated.
	MatchContent string `json:"match_content"`

	// Mutable annotation fields, set by an operator after creation.
	Notes            string   `json:"notes"`
	FalsePositive    bool     `json:"false_positive"`
	SeverityOverride Severity `json:"severity_override,omitempty"`
}

// Asset is the de-duplicated record for a single URL: at most one Asset
// exists per URL string.
type Asset struct {
	ID            int64     `json:"id"`
	URL           string    `json:"url"`
	Method        string    `json:"method"`
	StatusCode    int       `json:"status_code"`
	Source        string    `json:"source"`
	RequestBody   []byte    `json:"req_body,omitempty"`
	ResponseBody  []byte    `json:"res_body,omitempty"`
	LastSeen      time.Time `json:"last_seen"`
	Notes         string    `json:"notes"`
	FindingsCount int       `json:"findings_count"`
}

// HistoryEntry is one superseded (status, response body) snapshot for an
// Asset, written before the Asset's body is overwritten. Never mutated.
type HistoryEntry struct {
	ID           int64     `json:"id"`
	AssetID      int64     `json:"asset_id"`
	StatusCode   int       `json:"status_code"`
	ResponseBody []byte    `json:"res_body,omitempty"`
	RecordedAt   time.Time `json:"recorded_at"`
}
