// Package intercept implements the pausable-interception correlation layer
// used by the MITM proxy: when interception is enabled for a flow, the
// proxy registers a pending entry keyed by a correlation id and blocks on a
// single-shot channel until an operator resolves it (or, if configured, a
// timeout elapses) before the flow continues.
package intercept
