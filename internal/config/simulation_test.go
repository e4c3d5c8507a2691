package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSimulation(t *testing.T) {
	cfg := DefaultSimulation()

	if got := cfg.Cascade.RedeployabilityPct; got != 60 {
		t.Errorf("RedeployabilityPct = %v, want 60", got)
	}
	if got := cfg.Financial.ChangeManagementPct; got != 8 {
		t.Errorf("ChangeManagementPct = %v, want 8", got)
	}
	if !cfg.Financial.JCurveEnabled {
		t.Error("JCurveEnabled = false, want true")
	}
	if got := cfg.Timeline.Months; got != 36 {
		t.Errorf("Timeline.Months = %v, want 36", got)
	}
	if got := cfg.Profile.InitialResistance; got != 0.30 {
		t.Errorf("InitialResistance = %v, want 0.30", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestLoadSimulationEmptyPath(t *testing.T) {
	cfg, err := LoadSimulation("")
	if err != nil {
		t.Fatalf("LoadSimulation(\"\") error = %v", err)
	}
	if cfg.Timeline.Months != DefaultSimulation().Timeline.Months {
		t.Errorf("empty path did not return defaults")
	}
}

func TestLoadSimulationOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	override := `
timeline:
  months: 24
financial:
  change_management_pct: 12
adoption_presets:
  fast:
    p: 0.08
    q: 0.55
`
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSimulation(path)
	if err != nil {
		t.Fatalf("LoadSimulation() error = %v", err)
	}
	if got := cfg.Timeline.Months; got != 24 {
		t.Errorf("Timeline.Months = %v, want 24", got)
	}
	if got := cfg.Financial.ChangeManagementPct; got != 12 {
		t.Errorf("ChangeManagementPct = %v, want 12", got)
	}
	if got := cfg.Adoption["fast"]; got.P != 0.08 || got.Q != 0.55 {
		t.Errorf("fast preset = %+v, want {0.08 0.55}", got)
	}
	// Keys absent from the overlay keep their defaults.
	if got := cfg.Financial.SeveranceMonths; got != 6 {
		t.Errorf("SeveranceMonths = %v, want 6", got)
	}
	if got := cfg.Adoption["slow"]; got.P != 0.01 || got.Q != 0.25 {
		t.Errorf("slow preset = %+v, want {0.01 0.25}", got)
	}
}

func TestLoadSimulationErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadSimulation(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadSimulation() on missing file: expected error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("timeline: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSimulation(bad); err == nil {
		t.Error("LoadSimulation() on malformed YAML: expected error")
	}

	degenerate := filepath.Join(dir, "degenerate.yaml")
	if err := os.WriteFile(degenerate, []byte("timeline:\n  months: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSimulation(degenerate); err == nil {
		t.Error("LoadSimulation() with zero months: expected error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SimulationConfig)
		wantErr bool
	}{
		{"defaults", func(c *SimulationConfig) {}, false},
		{"zero months", func(c *SimulationConfig) { c.Timeline.Months = 0 }, true},
		{"negative redeployability", func(c *SimulationConfig) { c.Cascade.RedeployabilityPct = -1 }, true},
		{"redeployability over 100", func(c *SimulationConfig) { c.Cascade.RedeployabilityPct = 101 }, true},
		{"zero culture time constant", func(c *SimulationConfig) { c.Profile.CultureTimeConstant = 0 }, true},
		{"bad adoption preset", func(c *SimulationConfig) { c.Adoption["fast"] = BassPreset{P: 0, Q: 0.5} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSimulation()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPreset(t *testing.T) {
	cfg := DefaultSimulation()

	if got := cfg.Preset("fast"); got.P != 0.05 || got.Q != 0.50 {
		t.Errorf("Preset(fast) = %+v, want {0.05 0.50}", got)
	}
	if got := cfg.Preset("warp"); got != cfg.Adoption["moderate"] {
		t.Errorf("Preset(warp) = %+v, want moderate fallback", got)
	}
	if got := cfg.Preset(""); got != cfg.Adoption["moderate"] {
		t.Errorf("Preset(\"\") = %+v, want moderate fallback", got)
	}
}
