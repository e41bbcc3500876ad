package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.G != 0.8 {
		t.Errorf("expected G 0.8, got %f", cfg.G)
	}
	if cfg.TimeScale != 1 || !cfg.Playing {
		t.Errorf("expected time scale 1 and playing, got %f %v", cfg.TimeScale, cfg.Playing)
	}
	if cfg.SubSteps != 4 {
		t.Errorf("expected 4 sub-steps, got %d", cfg.SubSteps)
	}

	bs := cfg.GetBodies()
	if len(bs) != 3 {
		t.Fatalf("expected 3 bodies, got %d", len(bs))
	}
	if !bs[0].Fixed || bs[0].Mass != 1000 || bs[0].Radius != 2 {
		t.Errorf("unexpected sun: %+v", bs[0])
	}
	if bs[1].Position.X != 10 || bs[1].Velocity.Z != 8 {
		t.Errorf("unexpected earth: %+v", bs[1])
	}
	if bs[2].Position.X != 16 || bs[2].Velocity.Z != 6 {
		t.Errorf("unexpected mars: %+v", bs[2])
	}
	for i, b := range bs {
		if b.ID != i {
			t.Errorf("body %d has id %d", i, b.ID)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("binary")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Bodies) != 2 {
		t.Errorf("expected 2 bodies, got %d", len(cfg.Bodies))
	}

	// Presets are built fresh each time.
	cfg.Bodies[0].Mass = -1
	if GetPreset("binary").Bodies[0].Mass == -1 {
		t.Error("preset shared between callers")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	cfg := GetPreset("inner-system")
	cfg.G = 1.7
	cfg.Tasks = []TaskConfig{{ID: "x", Description: "d", Predicate: "g_below", Threshold: 0.3}}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.G != 1.7 || loaded.Name != "inner-system" {
		t.Errorf("unexpected loaded config: %+v", loaded)
	}
	if len(loaded.Bodies) != 5 {
		t.Errorf("expected 5 bodies, got %d", len(loaded.Bodies))
	}

	defs, err := loaded.GetTasks()
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if len(defs) != 1 || defs[0].ID != "x" {
		t.Errorf("unexpected tasks: %+v", defs)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("gravitational_constant: 2.5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.G != 2.5 {
		t.Errorf("expected G 2.5, got %f", cfg.G)
	}
	if cfg.SubSteps != DefaultSubSteps || !cfg.Playing {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if len(cfg.Bodies) != 3 {
		t.Errorf("expected default bodies, got %d", len(cfg.Bodies))
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("bodies: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetTasksUnknownPredicate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tasks = []TaskConfig{{ID: "bad", Predicate: "mass_above"}}

	if _, err := cfg.GetTasks(); err == nil {
		t.Error("expected error for unknown predicate")
	}
}

func TestGetTasksDefault(t *testing.T) {
	defs, err := DefaultConfig().GetTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 4 || defs[0].ID != "stronger-gravity" {
		t.Errorf("unexpected default tasks: %d", len(defs))
	}
}
