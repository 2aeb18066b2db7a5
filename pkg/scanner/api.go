package scanner

import (
	"regexp"
	"strings"

	"github.com/apisec/sentinel/pkg/asset"
)

var bolaRegex = regexp.MustCompile(`/(?:user|account|order|invoice)s?/(?:[0-9]{3,}|[a-f0-9]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})\b`)

// scanBOLA detects a direct numeric or UUID object reference under a
// common resource path, a Broken Object Level Authorization smell.
func scanBOLA(content string) []asset.Finding {
	var findings []asset.Finding
	for _, m := range bolaRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "VULN-BOLA-ID", Name: "Potential BOLA Pattern",
			Description: "Direct reference to an object ID in URL. Ensure authorization checks are applied.",
			Severity:    asset.SeverityMedium, MatchContent: m,
		})
	}
	return findings
}

var (
	outdatedAPIRegex   = regexp.MustCompile(`(?i)/(v0|v1|beta|deprecated|test|old|staging)/`)
	sensitiveFileRegex = regexp.MustCompile(`(?i)\.(env|git|config|bak|zip|sql|tar|gz|key)\b`)
)

// scanAssetsMgmt detects endpoints on an outdated/non-production API
// version and references to sensitive file extensions, both classic
// improper-assets-management findings.
func scanAssetsMgmt(content string) []asset.Finding {
	var findings []asset.Finding

	for _, m := range outdatedAPIRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "MGMT-OUTDATED-API", Name: "Outdated API Version",
			Description: "Endpoint belongs to an outdated or non-production version (v1, beta, etc.). Old versions often lack security patches.",
			Severity:    asset.SeverityLow, MatchContent: m,
		})
	}
	for _, m := range sensitiveFileRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "CONF-SENSITIVE-FILE", Name: "Sensitive File Reference",
			Description: "Sensitive file extension (.env, .git, .bak) detected in URL or body. Potential source/config exposure.",
			Severity:    asset.SeverityHigh, MatchContent: m,
		})
	}

	return findings
}

var introspectionRegex = regexp.MustCompile(`(?i)(__schema|__type|__typekind|__field|__inputvalue)`)

var sensitiveGraphQLFields = []string{
	"password", "secret", "token", "apiKey", "creditCard", "ssn", "hash",
}

// scanGraphQL detects introspection queries, a naive batch-attack
// heuristic (many "query" occurrences inside an array literal), and
// sensitive field names appearing as GraphQL selection keys.
func scanGraphQL(content string) []asset.Finding {
	var findings []asset.Finding

	for _, m := range introspectionRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "VULN-GRAPHQL-INTRO", Name: "GraphQL Introspection Detected",
			Description: "GraphQL introspection query detected. This reveals the entire API schema, including hidden fields and types.",
			Severity:    asset.SeverityMedium, MatchContent: m,
		})
	}

	if strings.Contains(content, "[") && strings.Contains(content, "query") && strings.Count(content, "query") > 5 {
		findings = append(findings, asset.Finding{
			RuleID: "VULN-GRAPHQL-BATCH", Name: "Potential GraphQL Batch Attack",
			Description: "Multiple GraphQL queries detected in a single request. Can be used for brute-forcing or resource exhaustion.",
			Severity:    asset.SeverityMedium, MatchContent: "Multiple query definitions in batch",
		})
	}

	for _, field := range sensitiveGraphQLFields {
		fieldRegex := regexp.MustCompile(`(?i)"` + regexp.QuoteMeta(field) + `\s*"`)
		if fieldRegex.MatchString(content) {
			findings = append(findings, asset.Finding{
				RuleID: "LEAK-GRAPHQL-SENSITIVE", Name: "Sensitive Field in GraphQL Payload",
				Description: "GraphQL payload contains potential sensitive field: '" + field + "'. Ensure proper field-level authorization.",
				Severity:    asset.SeverityLow, MatchContent: field,
			})
		}
	}

	return findings
}
