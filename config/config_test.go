package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracker.toml")
	body := `
[detection]
size_fraction = 0.05

[association]
lifetime_threshold = 10
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Detection.SizeFraction != 0.05 {
		t.Errorf("expected overridden size_fraction 0.05, got %f", cfg.Detection.SizeFraction)
	}
	if cfg.Association.LifetimeThreshold != 10 {
		t.Errorf("expected overridden lifetime_threshold 10, got %d", cfg.Association.LifetimeThreshold)
	}
	if cfg.Detection.MergeFraction != Default().Detection.MergeFraction {
		t.Errorf("expected untouched keys to keep their default values")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected an error loading a missing config file")
	}
}
