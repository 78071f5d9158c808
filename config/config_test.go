package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Sim.Width != 160 || cfg.Sim.Height != 90 {
		t.Errorf("default field is %dx%d, want 160x90", cfg.Sim.Width, cfg.Sim.Height)
	}
	if cfg.Sim.ReproductionEnergy != 16 {
		t.Errorf("reproduction_energy = %f, want 16", cfg.Sim.ReproductionEnergy)
	}
	if cfg.Sim.TurnCost() != cfg.Sim.MovementCost/2 {
		t.Error("turn cost must derive from movement cost")
	}
	if cfg.Sim.AttackEntryCost() != cfg.Sim.MovementCost*2 {
		t.Error("attack entry cost must derive from movement cost")
	}
}

func TestLoadUserFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "simulation:\n  width: 24\n  height: 12\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading user config: %v", err)
	}
	if cfg.Sim.Width != 24 || cfg.Sim.Height != 12 {
		t.Errorf("field is %dx%d, want override 24x12", cfg.Sim.Width, cfg.Sim.Height)
	}
	// Untouched fields keep their defaults.
	if cfg.Sim.MaxAge != 2048 {
		t.Errorf("max_age = %d, want default 2048", cfg.Sim.MaxAge)
	}
}

func TestLoadRejectsDegenerateField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "simulation:\n  width: 1\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("a 1-wide field must be rejected: bots could face their own cell")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Sim.Width = 33

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if back.Sim.Width != 33 {
		t.Errorf("width = %d after round trip, want 33", back.Sim.Width)
	}
}
