package scanner

import (
	"regexp"

	"github.com/apisec/sentinel/pkg/asset"
)

var (
	sqliRegex = regexp.MustCompile(`(?i)(SELECT\s+.*\s+FROM|UNION\s+ALL\s+SELECT|INSERT\s+INTO\s+.*\s+VALUES|UPDATE\s+.*\s+SET|DELETE\s+FROM)`)
	xssRegex  = regexp.MustCompile(`(?i)(<script>|javascript:|onerror\s*=|onload\s*=|alert\()`)
)

// scanInjection detects SQL injection keywords and XSS vectors appearing
// literally in the blob (a reflected-payload heuristic, not a semantic
// parse of the request).
func scanInjection(content string) []asset.Finding {
	var findings []asset.Finding

	for _, m := range sqliRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "INJ-SQL", Name: "SQL Injection Pattern",
			Description: "Possible SQL injection keywords detected in payload",
			Severity:    asset.SeverityHigh, MatchContent: m,
		})
	}
	for _, m := range xssRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "INJ-XSS", Name: "XSS Pattern",
			Description: "Cross-site scripting (XSS) vectors detected",
			Severity:    asset.SeverityHigh, MatchContent: m,
		})
	}

	return findings
}

var ssrfRegex = regexp.MustCompile(`(?i)(?:url|u|link|src|dest|redirect|callback)=(?:https?|ftp)://(?:localhost|127\.0\.0\.1|169\.254\.169\.254|0\.0\.0\.0|\[::1\])`)

// scanSSRF detects a URL-valued parameter pointing at a loopback or
// cloud-metadata address, a common Server-Side Request Forgery vector.
func scanSSRF(content string) []asset.Finding {
	var findings []asset.Finding
	for _, m := range ssrfRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "VULN-SSRF", Name: "Potential SSRF Vector",
			Description: "Input parameter contains internal or loopback address. Potential Server-Side Request Forgery.",
			Severity:    asset.SeverityHigh, MatchContent: m,
		})
	}
	return findings
}

var nosqlRegex = regexp.MustCompile(`\{\s*"\$(?:gt|lt|ne|eq|in|nin|regex|where)"\s*:\s*[^}]+\}`)

// scanNoSQL detects MongoDB-style query operator objects, a signal of
// NoSQL injection.
func scanNoSQL(content string) []asset.Finding {
	var findings []asset.Finding
	for _, m := range nosqlRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "INJ-NOSQL", Name: "NoSQL Injection Pattern",
			Description: "MongoDB-style query operator detected. Potential NoSQL injection.",
			Severity:    asset.SeverityHigh, MatchContent: m,
		})
	}
	return findings
}

var massAssignmentRegex = regexp.MustCompile(`(?i)"(isAdmin|is_admin|role|permissions|account_type|is_verified|privileges)"\s*:\s*(true|false|"[^"]+")`)

// scanMassAssignment detects privileged JSON fields in a request body that
// a naive bind-all deserializer would let an end user modify.
func scanMassAssignment(content string) []asset.Finding {
	var findings []asset.Finding
	for _, m := range massAssignmentRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "VULN-MASS-ASSIGNMENT", Name: "Potential Mass Assignment",
			Description: "Sensitive privilege field detected in request body. Ensure these fields cannot be modified by end-users.",
			Severity:    asset.SeverityMedium, MatchContent: m,
		})
	}
	return findings
}
