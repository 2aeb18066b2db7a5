package logging

import (
	"fmt"
	"regexp"
	"strings"
)

// Redactor scrubs secret-shaped substrings (JWTs, API keys, basic-auth
// headers) from log fields before they reach the handler.
type Redactor struct {
	patterns []*redactPattern
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Pattern names, exported so callers can reason about what gets scrubbed.
const (
	PatternJWT        = "jwt"
	PatternAPIKey     = "api_key"
	PatternBearer     = "bearer_token"
	PatternBasicAuth  = "basic_auth"
	PatternAWSKey     = "aws_access_key"
)

// NewRedactor builds a Redactor with the built-in secret-shaped patterns.
// These mirror the patterns pkg/scanner's rule catalog looks for, so a
// flow body containing a live credential never lands unredacted in
// application logs.
func NewRedactor() *Redactor {
	r := &Redactor{}

	add := func(name, expr, replacement string) {
		r.patterns = append(r.patterns, &redactPattern{
			name:        name,
			regex:       regexp.MustCompile(expr),
			replacement: replacement,
		})
	}

	// JSON Web Tokens: three dot-separated base64url segments.
	add(PatternJWT, `eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`, "eyJ***")
	// Generic API keys: sk-..., api_key=..., apikey: ...
	add(PatternAPIKey, `(sk-[a-zA-Z0-9]{10,}|(?i)api[-_]?key[-_:=]\s*[a-zA-Z0-9_-]{8,})`, "***redacted-key***")
	// Bearer tokens in an Authorization header value.
	add(PatternBearer, `(?i)Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***")
	// Basic auth header value (base64 of user:pass).
	add(PatternBasicAuth, `(?i)Basic\s+[a-zA-Z0-9+/]+=*`, "Basic ***")
	// AWS access key ids.
	add(PatternAWSKey, `AKIA[0-9A-Z]{16}`, "AKIA***")

	return r
}

// RedactString scrubs every known secret pattern from value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	redacted := value
	for _, p := range r.patterns {
		redacted = p.regex.ReplaceAllString(redacted, p.replacement)
	}
	return redacted
}

// RedactArgs scrubs variadic slog-style key/value arguments. A value whose
// key name itself looks sensitive is fully masked regardless of shape;
// every string value is additionally passed through RedactString.
func (r *Redactor) RedactArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 1; i < len(redacted); i += 2 {
		if key, ok := redacted[i-1].(string); ok && isSensitiveKey(key) {
			redacted[i] = redactValue(redacted[i])
			continue
		}
		if str, ok := redacted[i].(string); ok {
			redacted[i] = r.RedactString(str)
		}
	}

	return redacted
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	sensitive := []string{
		"password", "passwd", "pwd",
		"secret", "token", "api_key", "apikey",
		"authorization", "bearer",
		"private_key", "privatekey",
	}
	for _, s := range sensitive {
		if strings.Contains(lowerKey, s) {
			return true
		}
	}
	return false
}

func redactValue(value any) any {
	switch v := value.(type) {
	case string:
		if v == "" {
			return ""
		}
		if len(v) <= 4 {
			return "***"
		}
		return v[:4] + "***"
	case fmt.Stringer:
		return "***"
	default:
		return "***"
	}
}
