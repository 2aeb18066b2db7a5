package scanner

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/apisec/sentinel/pkg/asset"
)

var entropyCandidateRegex = regexp.MustCompile(`[a-zA-Z0-9/+=]{20,64}`)

// shannonEntropy computes the Shannon entropy, in bits, of s's character
// distribution.
func shannonEntropy(s string) float64 {
	freq := make(map[rune]int)
	total := 0
	for _, r := range s {
		freq[r]++
		total++
	}
	if total == 0 {
		return 0
	}
	var entropy float64
	n := float64(total)
	for _, count := range freq {
		p := float64(count) / n
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// scanEntropy looks for alphanumeric/base64-alphabet candidates whose
// character distribution exceeds threshold bits of Shannon entropy,
// catching secrets no literal regex above recognizes.
func scanEntropy(content string, threshold float64) []asset.Finding {
	var findings []asset.Finding
	for _, s := range entropyCandidateRegex.FindAllString(content, -1) {
		if strings.ContainsAny(s, "<>") {
			continue
		}
		entropy := shannonEntropy(s)
		if entropy <= threshold {
			continue
		}
		findings = append(findings, asset.Finding{
			RuleID:       "CONF-HIGH-ENTROPY",
			Name:         "High Entropy String Detected",
			Description:  fmt.Sprintf("Random-looking string with %.2f bits of entropy. Likely an encoded key, secret, or session token.", entropy),
			Severity:     asset.SeverityMedium,
			MatchContent: s,
			Notes:        fmt.Sprintf("Entropy: %.2f", entropy),
		})
	}
	return findings
}
