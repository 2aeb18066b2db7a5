package plugins

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderSeedsSamplePackWhenDirMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plugins")
	l := NewLoader(dir, nil)

	packs, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(packs) != 1 {
		t.Fatalf("expected one seeded pack, got %d", len(packs))
	}
	if packs[0].Name != "Cloud Infra Discovery" {
		t.Errorf("unexpected seeded pack name: %q", packs[0].Name)
	}
	if len(packs[0].Rules) != 1 || packs[0].Rules[0].ID != "PLG-S3-BUCKET" {
		t.Errorf("unexpected seeded rule: %+v", packs[0].Rules)
	}
}

func TestLoaderSkipsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("{not: valid: yaml:"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "good.yaml"), []byte("name: Good Pack\nversion: \"1.0\"\nrules:\n  - id: RULE-1\n    name: Rule One\n    severity: High\n    regex: foo\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	l := NewLoader(dir, nil)
	packs, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(packs) != 1 {
		t.Fatalf("expected the malformed file to be skipped, got %d packs", len(packs))
	}
	if packs[0].Name != "Good Pack" {
		t.Errorf("unexpected pack: %+v", packs[0])
	}
}

func TestLoaderIgnoresNonYAMLFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not a rule pack"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	l := NewLoader(dir, nil)
	packs, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(packs) != 0 {
		t.Errorf("expected no packs from a directory containing only non-YAML files, got %d", len(packs))
	}
}
