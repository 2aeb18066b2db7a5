package plugins

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader reads every *.yaml file in Dir as a RulePack on each Load call.
// The directory is seeded with one sample pack the first time it is
// empty or missing, so a fresh install always has a working example to
// edit.
type Loader struct {
	Dir    string
	Logger *slog.Logger
}

// NewLoader constructs a Loader rooted at dir.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{Dir: dir, Logger: logger}
}

// Load ensures the plugin directory exists and is seeded, then parses
// every *.yaml file in it into a RulePack. A file that fails to parse, or
// an individual rule whose regex fails to compile at scan time, is
// skipped; Load itself never returns an error for a malformed pack.
func (l *Loader) Load() ([]RulePack, error) {
	if err := l.ensureSeeded(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, err
	}

	var packs []RulePack
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(l.Dir, entry.Name()))
		if err != nil {
			l.Logger.Warn("failed to read rule pack", "file", entry.Name(), "error", err)
			continue
		}
		var pack RulePack
		if err := yaml.Unmarshal(data, &pack); err != nil {
			l.Logger.Warn("failed to parse rule pack", "file", entry.Name(), "error", err)
			continue
		}
		packs = append(packs, pack)
	}

	return packs, nil
}

// ensureSeeded creates Dir and writes the sample rule pack into it the
// first time Dir is missing or empty.
func (l *Loader) ensureSeeded() error {
	entries, err := os.ReadDir(l.Dir)
	if err == nil && len(entries) > 0 {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(samplePack)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(l.Dir, "cloud_infra.yaml"), data, 0o644)
}
