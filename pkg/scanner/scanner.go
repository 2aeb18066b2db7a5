package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/apisec/sentinel/pkg/asset"
	"github.com/apisec/sentinel/pkg/config"
	"github.com/apisec/sentinel/pkg/scanner/plugins"
)

// PluginProvider supplies the currently loaded rule packs. Implemented by
// plugins.Loader; a nil provider contributes no plugin findings.
type PluginProvider interface {
	Load() ([]plugins.RulePack, error)
}

// Scanner is the passive vulnerability scanner: it satisfies
// proxy.Analyzer, producing Findings from a Flow by running the fixed
// built-in detector catalog, the Shannon entropy detector, every loaded
// plugin rule pack, and every operator-defined custom rule against a text
// blob built from the flow.
type Scanner struct {
	cfg         config.ScannerConfig
	pluginSrc   PluginProvider
	customSrc   CustomRuleProvider
	logger      *slog.Logger
}

// New constructs a Scanner. pluginSrc and customSrc may be nil, in which
// case the corresponding findings are simply never produced.
func New(cfg config.ScannerConfig, pluginSrc PluginProvider, customSrc CustomRuleProvider, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{cfg: cfg, pluginSrc: pluginSrc, customSrc: customSrc, logger: logger}
}

// Analyze builds a text blob from flow's URL, headers, and bodies and
// runs the full detector catalog against it. It never returns an error:
// a malformed plugin pack or custom rule is logged and skipped, per the
// scanner's never-raise contract.
func (s *Scanner) Analyze(ctx context.Context, flow asset.Flow) ([]asset.Finding, error) {
	return s.ScanFlow(flow), nil
}

// ScanFlow is the error-free entry point used directly by callers (such
// as a generic-import command) that do not need the context.Context- and
// error-shaped Analyzer interface.
func (s *Scanner) ScanFlow(flow asset.Flow) []asset.Finding {
	return s.ScanText(buildBlob(flow))
}

// ScanText runs every detector against an arbitrary text blob. Used
// directly by generic "paste a request/response" import flows, and by
// ScanFlow for live proxy traffic.
func (s *Scanner) ScanText(content string) []asset.Finding {
	var findings []asset.Finding

	findings = append(findings, scanPII(content)...)
	findings = append(findings, scanAuth(content)...)
	findings = append(findings, scanPCI(content)...)
	findings = append(findings, scanVIN(content)...)
	findings = append(findings, scanCompliance(content)...)
	findings = append(findings, scanInfrastructure(content)...)
	findings = append(findings, scanInjection(content)...)
	findings = append(findings, scanMisconfig(content)...)
	findings = append(findings, scanBOLA(content)...)
	findings = append(findings, scanLeaks(content)...)
	findings = append(findings, scanGraphQL(content)...)
	findings = append(findings, scanRateLimiting(content)...)
	findings = append(findings, scanMassAssignment(content)...)
	findings = append(findings, scanSSRF(content)...)
	findings = append(findings, scanNoSQL(content)...)
	findings = append(findings, scanAssetsMgmt(content)...)
	findings = append(findings, scanEntropy(content, s.entropyThreshold())...)
	findings = append(findings, scanGRPC(content)...)
	findings = append(findings, s.scanPlugins(content)...)
	findings = append(findings, s.scanCustomRules(content)...)

	s.truncateMatchContent(findings)
	return findings
}

func (s *Scanner) entropyThreshold() float64 {
	if s.cfg.EntropyThreshold > 0 {
		return s.cfg.EntropyThreshold
	}
	return config.DefaultEntropyThreshold
}

func (s *Scanner) maxMatchContentLength() int {
	if s.cfg.MaxMatchContentLength > 0 {
		return s.cfg.MaxMatchContentLength
	}
	return config.DefaultMaxMatchContentLen
}

// truncateMatchContent caps every finding's match content in place, so a
// pathological match (an enormous embedded blob) never blows up storage
// or the UI.
func (s *Scanner) truncateMatchContent(findings []asset.Finding) {
	max := s.maxMatchContentLength()
	for i := range findings {
		findings[i].MatchContent = truncate(findings[i].MatchContent, max)
	}
}

// scanPlugins reloads every rule pack from disk and applies its rules.
// Reload happens on every call: there is no cache to invalidate, so a
// plugin edit takes effect on the very next flow.
func (s *Scanner) scanPlugins(content string) []asset.Finding {
	if s.pluginSrc == nil {
		return nil
	}
	packs, err := s.pluginSrc.Load()
	if err != nil {
		s.logger.Warn("failed to load plugin rule packs", "error", err)
		return nil
	}

	var findings []asset.Finding
	for _, pack := range packs {
		for _, rule := range pack.Rules {
			re, err := compileRule(rule.Regex)
			if err != nil {
				s.logger.Debug("skipping plugin rule with invalid regex", "error", &RuleError{RuleID: rule.ID, Cause: err})
				continue
			}
			description := rule.Description
			if description == "" {
				description = rule.Name
			}
			for _, m := range re.FindAllString(content, -1) {
				findings = append(findings, asset.Finding{
					RuleID:       rule.ID,
					Name:         rule.Name,
					Description:  description,
					Severity:     severityFromString(rule.Severity),
					MatchContent: m,
					Notes:        fmt.Sprintf("Pack: %s v%s", pack.Name, pack.Version),
				})
			}
		}
	}
	return findings
}

func (s *Scanner) scanCustomRules(content string) []asset.Finding {
	if s.customSrc == nil {
		return nil
	}
	rules, err := s.customSrc.CustomRules()
	if err != nil {
		s.logger.Warn("failed to load custom rules", "error", err)
		return nil
	}
	return scanCustom(content, rules)
}

// buildBlob assembles the text a Flow is scanned as: method and URL,
// request headers and body, then a synthetic status line, response
// headers, and body. Headers are included as "Key: value" lines so
// header-driven detectors (verbose headers, missing HSTS/CSP, CORS,
// rate-limit headers) see the same shape of text the original raw-HTTP
// import path does.
func buildBlob(flow asset.Flow) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", flow.Method, flow.URL)
	writeHeaders(&b, flow.RequestHeaders)
	b.Write(flow.RequestBody)
	b.WriteByte('\n')

	if flow.StatusCode != 0 {
		fmt.Fprintf(&b, "HTTP/1.1 %d\n", flow.StatusCode)
	}
	writeHeaders(&b, flow.ResponseHeaders)
	b.Write(flow.ResponseBody)

	return b.String()
}

func writeHeaders(b *strings.Builder, headers map[string][]string) {
	for k, values := range headers {
		for _, v := range values {
			fmt.Fprintf(b, "%s: %s\n", k, v)
		}
	}
}
