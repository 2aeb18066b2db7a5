package plugins

// Rule is one pattern detector within a RulePack.
type Rule struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Severity    string `yaml:"severity"`
	Regex       string `yaml:"regex"`
	Description string `yaml:"description"`
}

// RulePack is one YAML rule-pack file: a named, versioned bundle of Rules
// applied identically to every built-in detector.
type RulePack struct {
	Name    string `yaml:"name"`
	Author  string `yaml:"author"`
	Version string `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

var samplePack = RulePack{
	Name:    "Cloud Infra Discovery",
	Author:  "Sentinel Team",
	Version: "1.0.0",
	Rules: []Rule{{
		ID:          "PLG-S3-BUCKET",
		Name:        "S3 Bucket Detected",
		Severity:    "Info",
		Regex:       `(?i)[a-z0-9.-]+\.s3\.amazonaws\.com`,
		Description: "Discovered a reference to an AWS S3 bucket.",
	}},
}
