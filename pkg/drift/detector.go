package drift

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/apisec/sentinel/pkg/asset"
)

// Detector compares observed traffic against a set of stored OpenAPI
// specifications. It is stateless; a single Detector value is safe for
// concurrent use.
type Detector struct{}

// NewDetector constructs a Detector.
func NewDetector() *Detector { return &Detector{} }

// Detect finds documentation drift between the observed (urlStr, method,
// resBody) triple and every spec in specs. An unparseable URL or an
// unparseable spec's JSON is skipped for that spec rather than aborting
// the whole comparison.
func (d *Detector) Detect(urlStr, method, resBody string, specs []Spec) []asset.Finding {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil
	}
	path := parsed.Path

	var findings []asset.Finding
	for _, spec := range specs {
		var doc map[string]interface{}
		if err := json.Unmarshal([]byte(spec.Content), &doc); err != nil {
			continue
		}
		paths, ok := doc["paths"].(map[string]interface{})
		if !ok {
			continue
		}

		for tmpl, rawMethods := range paths {
			if !pathMatches(tmpl, path) {
				continue
			}

			methods, ok := rawMethods.(map[string]interface{})
			if !ok {
				break
			}

			op, ok := methods[strings.ToLower(method)]
			if !ok {
				findings = append(findings, asset.Finding{
					RuleID: "DRIFT-UNDOCUMENTED-METHOD", Name: "Undocumented API Method",
					Description: fmt.Sprintf("The path '%s' is documented in '%s', but the method '%s' is not.", tmpl, spec.Name, method),
					Severity:    asset.SeverityMedium, MatchContent: method,
				})
				break
			}

			if resBody != "" && strings.HasPrefix(resBody, "{") {
				if schema := responseSchema(op); schema != nil {
					findings = append(findings, compareSchemaToBody(schema, resBody)...)
				}
			}
			break
		}
	}

	return findings
}

// responseSchema drills into operation.responses.200.content["application/json"].schema.
func responseSchema(operation interface{}) map[string]interface{} {
	op, ok := operation.(map[string]interface{})
	if !ok {
		return nil
	}
	responses, ok := op["responses"].(map[string]interface{})
	if !ok {
		return nil
	}
	r200, ok := responses["200"].(map[string]interface{})
	if !ok {
		return nil
	}
	content, ok := r200["content"].(map[string]interface{})
	if !ok {
		return nil
	}
	appJSON, ok := content["application/json"].(map[string]interface{})
	if !ok {
		return nil
	}
	schema, ok := appJSON["schema"].(map[string]interface{})
	if !ok {
		return nil
	}
	return schema
}
