// Package api implements the control-plane HTTP surface: a JSON/REST
// front door over the proxy's lifecycle and interception state, the
// asset store, and the scanner's custom rules and API specs, plus the
// WebSocket event stream the proxy publishes traffic and
// pending-interception notices to.
//
// The control plane has no fixed transport requirement, so this package
// picks plain HTTP/JSON as the concrete transport, exposed over net/http
// rather than a bespoke RPC framework. Routes are grouped by resource:
//
//	/v1/control/*   proxy lifecycle and interception configuration
//	/v1/intercept/* resolving a single paused interception
//	/v1/ca/root     the in-memory root CA certificate
//	/v1/assets/*    asset CRUD, history, findings, tags, batch ingest, clear
//	/v1/search      global search across assets and findings
//	/v1/findings/*  finding annotation
//	/v1/rules/*     operator-defined custom rules
//	/v1/specs/*     stored OpenAPI documents used by the drift detector
//	/v1/events      WebSocket upgrade, delegated to events.Hub
//	/health /ready  liveness and readiness probes, delegated to telemetry/health
//	/version        build version information
package api
