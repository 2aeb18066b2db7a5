package scanner

import (
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/apisec/sentinel/pkg/asset"
)

var (
	jwtRegex       = regexp.MustCompile(`ey[A-Za-z0-9\-_]+\.ey[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+`)
	basicAuthRegex = regexp.MustCompile(`(?i)Basic\s+([a-zA-Z0-9+/=]+)`)
)

// scanAuth detects bearer JWTs (decoding the payload for context) and
// HTTP Basic credentials (decoding and requiring a ':' separator to rule
// out plain base64 noise).
func scanAuth(content string) []asset.Finding {
	var findings []asset.Finding

	for _, token := range jwtRegex.FindAllString(content, -1) {
		parts := splitN(token, '.', 3)
		if len(parts) != 3 {
			continue
		}
		decoded, err := base64.RawURLEncoding.DecodeString(parts[1])
		if err != nil {
			decoded, err = base64.URLEncoding.DecodeString(parts[1])
		}
		if err != nil {
			continue
		}
		findings = append(findings, asset.Finding{
			RuleID:       "AUTH-JWT",
			Name:         "JWT Token",
			Description:  fmt.Sprintf("Exposed JWT. Payload: %s", string(decoded)),
			Severity:     asset.SeverityHigh,
			MatchContent: truncate(token, 80),
		})
	}

	for _, m := range basicAuthRegex.FindAllStringSubmatch(content, -1) {
		b64 := m[1]
		decoded, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			continue
		}
		creds := string(decoded)
		if !containsByte(creds, ':') {
			continue
		}
		findings = append(findings, asset.Finding{
			RuleID:       "AUTH-BASIC",
			Name:         "Basic Auth credentials",
			Description:  fmt.Sprintf("Exposed credentials: %s", creds),
			Severity:     asset.SeverityHigh,
			MatchContent: b64,
		})
	}

	return findings
}

var (
	awsKeyRegex       = regexp.MustCompile(`\b(AKIA|ASIA)[0-9A-Z]{16}\b`)
	awsSecretRegex    = regexp.MustCompile(`(?i)aws_secret_access_key[\s=:]+([a-zA-Z0-9+/]{40})`)
	gcpKeyRegex       = regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{35}\b`)
	stripeKeyRegex    = regexp.MustCompile(`sk_live_[0-9a-zA-Z]{24}`)
	slackWebhookRegex = regexp.MustCompile(`https://hooks\.slack\.com/services/T[a-zA-Z0-9_]+/B[a-zA-Z0-9_]+/[a-zA-Z0-9_]+`)
	githubPATRegex    = regexp.MustCompile(`ghp_[a-zA-Z0-9]{36}`)
	herokuKeyRegex    = regexp.MustCompile(`(?i)\bheroku.*[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12}\b`)
	firebaseKeyRegex  = regexp.MustCompile(`AIzaSy[A-Za-z0-9_-]{33}`)
	sendgridKeyRegex  = regexp.MustCompile(`SG\.[a-zA-Z0-9_-]{22}\.[a-zA-Z0-9_-]{43}`)
)

// scanInfrastructure detects cloud provider and SaaS credential material:
// AWS, GCP, Stripe, Slack, GitHub, Heroku, Firebase, and SendGrid keys.
func scanInfrastructure(content string) []asset.Finding {
	var findings []asset.Finding

	for _, m := range awsKeyRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "INFRA-AWS-KEY", Name: "AWS Access Key",
			Description: "AWS Access Key ID detected. Potential full cloud account access.",
			Severity:    asset.SeverityHigh, MatchContent: m,
		})
	}
	for _, m := range awsSecretRegex.FindAllStringSubmatch(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "INFRA-AWS-SECRET", Name: "AWS Secret Key",
			Description: "AWS Secret Access Key found. Immediate high risk.",
			Severity:    asset.SeverityHigh, MatchContent: m[1],
		})
	}
	for _, m := range gcpKeyRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "INFRA-GCP-KEY", Name: "GCP API Key",
			Description: "Google Cloud Platform API Key detected.",
			Severity:    asset.SeverityMedium, MatchContent: m,
		})
	}
	for _, m := range stripeKeyRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "INFRA-STRIPE-KEY", Name: "Stripe Secret Key",
			Description: "Active Stripe Secret Key found. Processing risk.",
			Severity:    asset.SeverityHigh, MatchContent: m,
		})
	}
	for _, m := range slackWebhookRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "SaaS-SLACK-WEBHOOK", Name: "Slack Incoming Webhook",
			Description: "Slack webhook URL found. Can be used for message spoofing.",
			Severity:    asset.SeverityMedium, MatchContent: m,
		})
	}
	for _, m := range githubPATRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "SaaS-GITHUB-PAT", Name: "GitHub Personal Access Token",
			Description: "GitHub PAT detected. Potential repository access.",
			Severity:    asset.SeverityHigh, MatchContent: m,
		})
	}
	for _, m := range herokuKeyRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "INFRA-HEROKU-KEY", Name: "Heroku API Key",
			Description: "Heroku Platform API Key found.",
			Severity:    asset.SeverityHigh, MatchContent: m,
		})
	}
	for _, m := range firebaseKeyRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "SaaS-FIREBASE-KEY", Name: "Firebase API Key",
			Description: "Firebase API key discovered. Check for permissive database rules.",
			Severity:    asset.SeverityMedium, MatchContent: m,
		})
	}
	for _, m := range sendgridKeyRegex.FindAllString(content, -1) {
		findings = append(findings, asset.Finding{
			RuleID: "SaaS-SENDGRID-KEY", Name: "SendGrid API Key",
			Description: "SendGrid API key detected. Can be used for email spoofing.",
			Severity:    asset.SeverityHigh, MatchContent: m,
		})
	}

	return findings
}
