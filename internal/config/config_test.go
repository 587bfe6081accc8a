package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Particles != DefaultParticles {
		t.Errorf("particles = %d, want %d", cfg.Particles, DefaultParticles)
	}
	if cfg.Policy != "identity" {
		t.Errorf("policy = %s, want identity", cfg.Policy)
	}
	if err := cfg.Params().Validate(); err != nil {
		t.Errorf("default config fails validation: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := DefaultConfig()
	cfg.Particles = 123
	cfg.Beta = 0.45
	cfg.Policy = "random"
	cfg.Seed = 77

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if *loaded != *cfg {
		t.Errorf("round trip mismatch: %+v vs %+v", loaded, cfg)
	}
}

func TestLoadPartialYAMLFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")

	if err := os.WriteFile(path, []byte("particles: 50\nbeta: 0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Particles != 50 {
		t.Errorf("particles = %d, want 50", cfg.Particles)
	}
	if cfg.Beta != 0.5 {
		t.Errorf("beta = %v, want 0.5", cfg.Beta)
	}
	// Unset fields keep their defaults.
	if cfg.Colors != DefaultColors {
		t.Errorf("colors = %d, want %d", cfg.Colors, DefaultColors)
	}
	if cfg.Friction != DefaultFriction {
		t.Errorf("friction = %v, want %v", cfg.Friction, DefaultFriction)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.toml")

	data := "particles = 99\ncolors = 5\npolicy = \"random\"\nsample_every = 10\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Particles != 99 || cfg.Colors != 5 {
		t.Errorf("got particles=%d colors=%d", cfg.Particles, cfg.Colors)
	}
	if cfg.Policy != "random" {
		t.Errorf("policy = %s, want random", cfg.Policy)
	}
	if cfg.SampleEvery != 10 {
		t.Errorf("sample_every = %d, want 10", cfg.SampleEvery)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("particles: [not a number\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("cells")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Policy != "identity" {
		t.Errorf("policy = %s, want identity", cfg.Policy)
	}
	if err := cfg.Params().Validate(); err != nil {
		t.Errorf("preset fails validation: %v", err)
	}

	// Mutating the returned copy must not touch the shared table.
	cfg.Particles = -1
	if Presets["cells"].Particles == -1 {
		t.Error("GetPreset returned a shared pointer")
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestAllPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if err := cfg.Params().Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
		if cfg.Ticks <= 0 || cfg.SampleEvery <= 0 {
			t.Errorf("preset %s has bad run bounds", name)
		}
	}
}
