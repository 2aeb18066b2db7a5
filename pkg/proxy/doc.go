// Package proxy implements the interception proxy: a loopback HTTP(S)
// listener that transparently MITMs CONNECT tunnels using a dynamic
// per-host certificate authority, optionally suspends requests and
// responses for an operator decision, and hands every observed flow to an
// Analyzer and an AssetStore before returning it to the client.
package proxy
