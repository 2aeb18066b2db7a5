package drift

import (
	"regexp"
	"strings"
)

// templateToRegex turns an OpenAPI path template such as /users/{id} into
// an anchored regex, replacing each {param} segment with a catch-all for
// one non-slash path segment, and escaping every literal segment.
func templateToRegex(tmpl string) (*regexp.Regexp, bool) {
	var b strings.Builder
	b.WriteByte('^')
	parts := strings.Split(tmpl, "/")
	for i, part := range parts {
		if i > 0 {
			b.WriteByte('/')
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			b.WriteString("[^/]+")
		} else {
			b.WriteString(regexp.QuoteMeta(part))
		}
	}
	b.WriteByte('$')

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, false
	}
	return re, true
}

// pathMatches reports whether path satisfies template tmpl. A template
// whose constructed regex fails to compile falls back to an exact string
// comparison rather than matching nothing.
func pathMatches(tmpl, path string) bool {
	re, ok := templateToRegex(tmpl)
	if !ok {
		return tmpl == path
	}
	return re.MatchString(path)
}
