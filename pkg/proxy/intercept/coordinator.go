package intercept

import "time"

// Coordinator owns the two pending-interception tables described by the
// interception protocol: one for requests, one for responses. The proxy
// holds a single Coordinator for its lifetime.
type Coordinator struct {
	Requests  *Table
	Responses *Table

	// Timeout bounds how long a suspended flow waits for an operator
	// decision before falling back to Forward. Zero disables the bound,
	// matching the protocol's specified default of no timeout.
	Timeout time.Duration
}

// NewCoordinator returns a Coordinator with both tables ready for use.
func NewCoordinator(timeout time.Duration) *Coordinator {
	return &Coordinator{
		Requests:  &Table{},
		Responses: &Table{},
		Timeout:   timeout,
	}
}
