package main

import (
	"os"
	"path/filepath"
	"testing"
)

// withPluginDir writes a minimal config.yaml pointing scanner.plugin_directory
// at dir and points cfgFile at it, since validateRules/listRules reload
// config from cfgFile internally rather than taking a cfg argument.
func withPluginDir(t *testing.T, dir string) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "scanner:\n  plugin_directory: " + dir + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	prev := cfgFile
	cfgFile = cfgPath
	t.Cleanup(func() { cfgFile = prev })
}

func TestValidateRulesAcceptsSeededSamplePack(t *testing.T) {
	withPluginDir(t, filepath.Join(t.TempDir(), "plugins"))

	if err := validateRules(rulesValidateCmd, nil); err != nil {
		t.Fatalf("validateRules() error: %v", err)
	}
}

func TestValidateRulesReportsUncompilableRegex(t *testing.T) {
	dir := t.TempDir()
	badPack := `name: Broken Pack
author: test
version: "1.0.0"
rules:
  - id: BAD-1
    name: bad rule
    severity: High
    regex: "(unterminated"
    description: deliberately malformed
`
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(badPack), 0o644); err != nil {
		t.Fatalf("writing rule pack: %v", err)
	}
	withPluginDir(t, dir)

	if err := validateRules(rulesValidateCmd, nil); err == nil {
		t.Fatal("expected validateRules() to report the uncompilable regex")
	}
}
