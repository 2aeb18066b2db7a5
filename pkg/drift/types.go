package drift

// Spec is a stored OpenAPI document as the Drift Detector needs it: a
// name for attribution in a finding's description, and the raw JSON
// document text.
type Spec struct {
	Name    string
	Content string
}
