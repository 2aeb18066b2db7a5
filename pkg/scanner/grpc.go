package scanner

import (
	"strings"

	"github.com/apisec/sentinel/pkg/asset"
)

// scanGRPC flags a gRPC content-type declaration and a crude
// length-prefixed binary frame heuristic (a leading compression-flag byte
// of 0 or 1 followed by further bytes), both purely informational.
func scanGRPC(content string) []asset.Finding {
	var findings []asset.Finding

	if strings.Contains(content, "application/grpc") {
		findings = append(findings, asset.Finding{
			RuleID: "MGMT-GRPC-API", Name: "gRPC API Endpoint Detected",
			Description: "This endpoint uses gRPC (Protocol Buffers). Ensure binary message integrity and lack of sensitive data in field names.",
			Severity:    asset.SeverityInfo, MatchContent: "application/grpc",
		})
	}

	if strings.ContainsRune(content, 0) && len(content) > 5 {
		b := content[0]
		if b == 0 || b == 1 {
			findings = append(findings, asset.Finding{
				RuleID: "BASE-BINARY-PROTO", Name: "Binary/gRPC Message Frame",
				Description: "Detected length-prefixed binary frame characteristic of gRPC/Protobuf.",
				Severity:    asset.SeverityInfo, MatchContent: "Binary frame start detected",
			})
		}
	}

	return findings
}
