package scanner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/apisec/sentinel/pkg/asset"
)

var (
	emailRegex  = regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)
	phoneRegex  = regexp.MustCompile(`\b(?:\+?1[-. ]?)?\(?([0-9]{3})\)?[-. ]?([0-9]{3})[-. ]?([0-9]{4})\b`)
	ssnRegex    = regexp.MustCompile(`\b([0-9]{3}-[0-9]{2}-[0-9]{4})\b`)
	secretRegex = regexp.MustCompile(`(?i)(api[_-]?key|secret|token)[\s=:]+([a-zA-Z0-9_-]{20,})`)
	headerRegex = regexp.MustCompile(`(?i)(Server|X-Powered-By|X-AspNet-Version):\s*.*`)
)

// scanPII detects email addresses, phone numbers, SSNs, generic
// keyword-adjacent secrets, verbose technology-disclosure headers, and (for
// a blob resembling a raw HTTP response) the absence of HSTS/CSP headers.
func scanPII(content string) []asset.Finding {
	var findings []asset.Finding

	for _, m := range emailRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "PII-EMAIL", Name: "Email address",
			Description: "Exposed email address", Severity: asset.SeverityLow, MatchContent: m,
		})
	}
	for _, m := range phoneRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "PII-PHONE", Name: "Phone number",
			Description: "Exposed phone number", Severity: asset.SeverityLow, MatchContent: m,
		})
	}
	for _, m := range ssnRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "PII-SSN", Name: "Social Security Number (SSN)",
			Description: "Exposed US Social Security Number", Severity: asset.SeverityHigh, MatchContent: m,
		})
	}
	for _, m := range secretRegex.FindAllStringSubmatch(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "AUTH-SECRET", Name: "API secret/key",
			Description: "High entropy string associated with security keywords",
			Severity:    asset.SeverityHigh, MatchContent: m[2],
		})
	}
	for _, m := range headerRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "CONF-VERBOSE-HEADER", Name: "Verbose Information Header",
			Description: "Server or technology version header detected. Leaks implementation details.",
			Severity:    asset.SeverityInfo, MatchContent: m,
		})
	}

	if strings.Contains(content, "HTTP/") {
		lower := strings.ToLower(content)
		if !strings.Contains(lower, "strict-transport-security") {
			findings = append(findings, asset.Finding{
				RuleID: "CONF-MISSING-HSTS", Name: "Missing HSTS Header",
				Description: "Strict-Transport-Security header is missing. Sensitive data may be sent over HTTP.",
				Severity:    asset.SeverityLow, MatchContent: "Header block",
			})
		}
		if !strings.Contains(lower, "content-security-policy") {
			findings = append(findings, asset.Finding{
				RuleID: "CONF-MISSING-CSP", Name: "Missing CSP Header",
				Description: "Content-Security-Policy header is missing. Risk of XSS and data injection.",
				Severity:    asset.SeverityLow, MatchContent: "Header block",
			})
		}
	}

	return findings
}

var cardRegex = regexp.MustCompile(`\b(?:4[0-9]{12}(?:[0-9]{3})?|5[1-5][0-9]{14}|3[47][0-9]{13}|3(?:0[0-5]|[68][0-9])[0-9]{11}|6(?:011|5[0-9]{2})[0-9]{12}|(?:2131|1800|35[0-9]{3})[0-9]{11})\b`)

// scanPCI detects plaintext payment card numbers via BIN-range-aware
// matching across the major card networks.
func scanPCI(content string) []asset.Finding {
	var findings []asset.Finding
	for _, m := range cardRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "PCI-CARD", Name: "Unmasked Payment Card",
			Description: "Plaintext credit card data detected. This is a severe PCI DSS violation.",
			Severity:    asset.SeverityHigh, MatchContent: m,
			Notes: "Card pattern matched industry standard BIN ranges.",
		})
	}
	return findings
}

var vinRegex = regexp.MustCompile(`\b[A-HJ-NPR-Z0-9]{13}[0-9]{4}\b`)

// scanVIN detects 17-character Vehicle Identification Numbers (ISO 3779),
// which exclude the letters I, O, and Q.
func scanVIN(content string) []asset.Finding {
	var findings []asset.Finding
	for _, m := range vinRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "DATA-VIN", Name: "Vehicle Identification Number (VIN)",
			Description: "Discovery of a 17-character VIN in request/response data. This is often processed as PII/Asset data.",
			Severity:    asset.SeverityLow, MatchContent: m,
			Notes: "Standard 17-digit ISO 3779 compliant pattern.",
		})
	}
	return findings
}

type complianceRule struct {
	id, name, description string
	keywords               []string
}

var complianceRules = []complianceRule{
	{"COMP-HIPAA", "HIPAA Data Marker", "Potentially protected health information (ePHI) or healthcare-specific terminology detected.",
		[]string{"Patient ID", "medical record", "health plan", "diagnosis code", "ePHI"}},
	{"COMP-SOC2", "SOC2 Compliance Keyword", "Sensitive internal operational or security terminology associated with SOC 2 requirements.",
		[]string{"audit log", "access control list", "confidentiality policy", "availability report"}},
	{"COMP-ISO27001", "ISO 27001 Marker", "Reference to ISO 27001 security standards or documentation requirements.",
		[]string{"ISMS", "Statement of Applicability", "Annex A", "security objective", "risk assessment"}},
	{"COMP-GDPR", "GDPR Data Subject Info", "References to data subject rights or terminology regulated by GDPR.",
		[]string{"data subject", "right to be forgotten", "consent withdrawal", "processing purpose", "data controller"}},
}

var swiftRegex = regexp.MustCompile(`\b[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?\b`)

// scanCompliance detects substring markers for common regulatory
// frameworks and SWIFT/BIC financial institution identifiers.
func scanCompliance(content string) []asset.Finding {
	var findings []asset.Finding

	for _, rule := range complianceRules {
		for _, kw := range rule.keywords {
			if strings.Contains(content, kw) {
				findings = append(findings, asset.Finding{
					RuleID: rule.id, Name: rule.name, Description: rule.description,
					Severity: asset.SeverityInfo, MatchContent: kw,
					Notes: fmt.Sprintf("Found compliance keyword: %s", kw),
				})
			}
		}
	}

	for _, m := range swiftRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "COMP-FIN-SWIFT", Name: "SWIFT/BIC Code",
			Description: "Financial institution identifier detected (Potential PCI/Financial leak).",
			Severity:    asset.SeverityMedium, MatchContent: m,
		})
	}

	return findings
}
