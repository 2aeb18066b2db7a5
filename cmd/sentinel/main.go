// Sentinel is a traffic interception and security analysis core for API
// security testing.
//
// It runs a TLS-intercepting MITM proxy with pausable per-message
// interception, a passive pattern-matching vulnerability scanner, and an
// OpenAPI drift detector, all sharing a single asset store:
//   - Dynamic per-host certificate minting behind an in-memory root CA
//   - Operator-resolvable pausing of in-flight requests and responses
//   - A large built-in rule catalog plus YAML-defined custom rule packs
//   - Detection of undocumented methods and extra or missing response
//     fields against stored OpenAPI specs
//
// Usage:
//
//	# Start the proxy and control plane with default configuration
//	sentinel run
//
//	# Start with a custom configuration file
//	sentinel run --config /path/to/config.yaml
//
//	# Show version information
//	sentinel version
//
//	# Inspect a PEM certificate file
//	sentinel ca info root-ca.pem
//
//	# List and validate custom scanner rules
//	sentinel rules list
//	sentinel rules validate
//
//	# Search and clear the asset store
//	sentinel store search --query jwt
//	sentinel store clear
//
// For complete documentation, see: https://github.com/apisec/sentinel
package main

func main() {
	Execute()
}
