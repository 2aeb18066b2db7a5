package scanner

import (
	"regexp"

	"github.com/apisec/sentinel/pkg/asset"
)

var (
	internalIPRegex = regexp.MustCompile(`\b(?:10\.\d{1,3}\.\d{1,3}\.\d{1,3}|192\.168\.\d{1,3}\.\d{1,3}|172\.(?:1[6-9]|2\d|3[0-1])\.\d{1,3}\.\d{1,3})\b`)
	stackTraceRegex = regexp.MustCompile(`(?i)(at\s+[a-zA-Z0-9$_.]+\([a-zA-Z0-9$_.]+\.java:\d+\)|stack\s+trace|Exception\s+in\s+thread)`)
)

// scanLeaks detects disclosure of RFC 1918 private IP addresses and
// application stack traces.
func scanLeaks(content string) []asset.Finding {
	var findings []asset.Finding

	for _, m := range internalIPRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "LEAK-INTERNAL-IP", Name: "Internal IP Address Disclosure",
			Description: "Private network IP address found in response. Reveals internal infrastructure.",
			Severity:    asset.SeverityLow, MatchContent: m,
		})
	}
	for _, m := range stackTraceRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "LEAK-STACK-TRACE", Name: "Stack Trace Disclosure",
			Description: "Detailed application stack trace detected. Reveals internal codebase structure.",
			Severity:    asset.SeverityMedium, MatchContent: m,
		})
	}

	return findings
}

var corsRegex = regexp.MustCompile(`(?i)Access-Control-Allow-Origin:\s*\*`)

// scanMisconfig detects a wildcard CORS policy.
func scanMisconfig(content string) []asset.Finding {
	var findings []asset.Finding
	for _, m := range corsRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "CONF-CORS-ALL", Name: "Permissive CORS Policy",
			Description: "Access-Control-Allow-Origin is set to *. This allows any domain to access the resource.",
			Severity:    asset.SeverityMedium, MatchContent: m,
		})
	}
	return findings
}

var rateLimitRegex = regexp.MustCompile(`(?i)(X-RateLimit-Limit|RateLimit-Limit|X-RateLimit-Remaining)`)

// scanRateLimiting flags the presence of rate-limit quota headers, which
// are beneficial but also reveal quota thresholds to an attacker.
func scanRateLimiting(content string) []asset.Finding {
	var findings []asset.Finding
	for _, m := range rateLimitRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "CONF-RATE-LIMIT", Name: "Rate Limiting Headers",
			Description: "Rate limiting headers detected. Beneficial but reveals quota limits to attackers.",
			Severity:    asset.SeverityInfo, MatchContent: m,
		})
	}
	return findings
}
