package scanner

import (
	"regexp"
	"strings"

	"github.com/apisec/sentinel/pkg/asset"
)

// CustomRule is an operator-defined detection rule, sourced from the Asset
// Store and applied identically to a built-in regex detector.
type CustomRule struct {
	RuleID      string
	Name        string
	Description string
	Severity    string
	Regex       string
}

// CustomRuleProvider supplies the current set of operator-defined rules.
// Implemented by the Asset Store; a nil provider simply contributes no
// custom findings.
type CustomRuleProvider interface {
	CustomRules() ([]CustomRule, error)
}

// severityFromString maps a free-form severity string (as stored by a
// custom rule or declared by a plugin rule pack) onto the fixed Finding
// severity scale: "critical" and "high" both map to High, and anything
// unrecognized falls back to Info rather than being rejected.
func severityFromString(s string) asset.Severity {
	switch strings.ToLower(s) {
	case "high", "critical":
		return asset.SeverityHigh
	case "medium":
		return asset.SeverityMedium
	case "low":
		return asset.SeverityLow
	default:
		return asset.SeverityInfo
	}
}

// compileRule compiles a rule's regex, reused by both custom-rule and
// plugin-rule application.
func compileRule(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(pattern)
}

// scanCustom applies each operator-defined rule to content. A rule whose
// regex fails to compile is skipped silently; it never aborts the scan.
func scanCustom(content string, rules []CustomRule) []asset.Finding {
	var findings []asset.Finding
	for _, rule := range rules {
		re, err := compileRule(rule.Regex)
		if err != nil {
			continue
		}
		for _, m := range re.FindAllString(content, -1) {
			findings = append(findings, asset.Finding{
				RuleID:       rule.RuleID,
				Name:         rule.Name,
				Description:  rule.Description,
				Severity:     severityFromString(rule.Severity),
				MatchContent: m,
			})
		}
	}
	return findings
}
