package intercept

// Decision identifies which arm of an InterceptResult tagged union is set.
type Decision int

const (
	// Forward sends the original bytes unmodified.
	Forward Decision = iota
	// Drop replies 403 with a fixed body and makes no upstream call.
	// Only meaningful for a request-phase interception.
	Drop
	// ModifyRequest replaces method, URL, headers, and body. Invalid
	// replacements fall back to the original field. Meaningless for a
	// response phase, where it is treated as Forward.
	ModifyRequest
	// ModifyResponse replaces status, headers, and body. Meaningless for a
	// request phase, where it is ignored (treated as Forward).
	ModifyResponse
)

// Result is the operator's decision for a single pending interception.
// Exactly one of the Modify* field groups is meaningful, selected by
// Decision; the others are zero-valued and ignored.
type Result struct {
	Decision Decision

	// ModifyRequest fields.
	Method  string
	URL     string
	Headers map[string][]string
	Body    []byte

	// ModifyResponse fields.
	StatusCode int
}

// ForRequestPhase normalizes a decision made during a request-phase
// interception: ModifyResponse has no meaning here and falls back to
// Forward.
func (r Result) ForRequestPhase() Result {
	if r.Decision == ModifyResponse {
		return Result{Decision: Forward}
	}
	return r
}

// ForResponsePhase normalizes a decision made during a response-phase
// interception: ModifyRequest has no meaning here and falls back to
// Forward.
func (r Result) ForResponsePhase() Result {
	if r.Decision == ModifyRequest {
		return Result{Decision: Forward}
	}
	return r
}
