package drift

import (
	"encoding/json"
	"fmt"

	"github.com/apisec/sentinel/pkg/asset"
)

// compareSchemaToBody compares an OpenAPI response schema's declared
// `properties` and `required` lists against the actual parsed JSON
// response body, reporting extra and missing fields. A body that fails
// to parse as a JSON object is ignored, not reported as an error.
func compareSchemaToBody(schema map[string]interface{}, bodyStr string) []asset.Finding {
	var body map[string]interface{}
	if err := json.Unmarshal([]byte(bodyStr), &body); err != nil {
		return nil
	}

	props, _ := schema["properties"].(map[string]interface{})

	var findings []asset.Finding
	for key := range body {
		if props == nil {
			break
		}
		if _, ok := props[key]; !ok {
			findings = append(findings, asset.Finding{
				RuleID: "DRIFT-EXTRA-FIELD", Name: "Undocumented Field in Response",
				Description:  fmt.Sprintf("The field '%s' was found in the response but is not documented in the schema.", key),
				Severity:     asset.SeverityLow,
				MatchContent: key,
			})
		}
	}

	if required, ok := schema["required"].([]interface{}); ok {
		for _, r := range required {
			name, ok := r.(string)
			if !ok {
				continue
			}
			if _, present := body[name]; !present {
				findings = append(findings, asset.Finding{
					RuleID: "DRIFT-MISSING-FIELD", Name: "Missing Required Field",
					Description:  fmt.Sprintf("The required field '%s' is documented but missing from the actual response.", name),
					Severity:     asset.SeverityMedium,
					MatchContent: name,
				})
			}
		}
	}

	return findings
}
