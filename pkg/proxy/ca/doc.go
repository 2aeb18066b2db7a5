// Package ca implements the dynamic, per-host certificate authority used by
// the interception proxy to terminate TLS with an intercepted client.
//
// A process-lifetime self-signed root is minted once at startup. Leaves are
// minted lazily, one per hostname, signed by that root, and cached for the
// remainder of the process lifetime. The root is never trusted
// automatically; an operator must import it into the client's trust store
// out of band; the running process serves it on the control API at
// GET /v1/ca/root.
package ca
