package org

import (
	"testing"
)

func TestAutomationLevelOrder(t *testing.T) {
	levels := AllAutomationLevels()
	for i := 1; i < len(levels); i++ {
		if levels[i-1].Rank() >= levels[i].Rank() {
			t.Errorf("levels out of order: %s (rank %d) before %s (rank %d)",
				levels[i-1], levels[i-1].Rank(), levels[i], levels[i].Rank())
		}
		if levels[i-1].Fraction() >= levels[i].Fraction() {
			t.Errorf("fractions out of order: %s=%.0f before %s=%.0f",
				levels[i-1], levels[i-1].Fraction(), levels[i], levels[i].Fraction())
		}
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name     string
		level    AutomationLevel
		steps    int
		expected AutomationLevel
	}{
		{"ZeroSteps", HumanLed, 0, HumanLed},
		{"NegativeSteps", Shared, -2, Shared},
		{"SingleStep", HumanLed, 1, Shared},
		{"TwoSteps", HumanOnly, 2, Shared},
		{"ClampAtCeiling", AILed, 5, AIOnly},
		{"CeilingStaysPut", AIOnly, 1, AIOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.Advance(tt.steps); got != tt.expected {
				t.Errorf("Advance(%d) = %v, want %v", tt.steps, got, tt.expected)
			}
		})
	}
}

func TestDeltaTo(t *testing.T) {
	tests := []struct {
		name     string
		from     AutomationLevel
		to       AutomationLevel
		expected float64
	}{
		{"HumanOnlyToAILed", HumanOnly, AILed, 0.70},
		{"HumanLedToShared", HumanLed, Shared, 0.25},
		{"SameLevel", Shared, Shared, 0},
		{"Backwards", AILed, HumanOnly, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.DeltaTo(tt.to); got != tt.expected {
				t.Errorf("DeltaTo() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBucketLevel(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected AutomationLevel
	}{
		{"Zero", 0, HumanOnly},
		{"JustBelowHumanLed", 19.9, HumanOnly},
		{"HumanLedBoundary", 20, HumanLed},
		{"SharedBoundary", 50, Shared},
		{"JustBelowAILed", 79.9, Shared},
		{"AILedBoundary", 80, AILed},
		{"Full", 100, AILed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BucketLevel(tt.score); got != tt.expected {
				t.Errorf("BucketLevel(%v) = %v, want %v", tt.score, got, tt.expected)
			}
		})
	}
}

func TestParseAutomationLevel(t *testing.T) {
	if _, err := ParseAutomationLevel("shared"); err != nil {
		t.Errorf("expected shared to parse, got %v", err)
	}
	if _, err := ParseAutomationLevel("autonomous"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestImpactFactorSkew(t *testing.T) {
	// Junior bands must amplify impact, leadership bands must dampen it.
	if BandEntry.ImpactFactor() <= BandSenior.ImpactFactor() {
		t.Errorf("entry factor %v not above senior %v", BandEntry.ImpactFactor(), BandSenior.ImpactFactor())
	}
	if BandCSuite.ImpactFactor() >= BandSenior.ImpactFactor() {
		t.Errorf("c_suite factor %v not below senior %v", BandCSuite.ImpactFactor(), BandSenior.ImpactFactor())
	}
	if got := CareerBand("unknown").ImpactFactor(); got != 1.0 {
		t.Errorf("unknown band factor = %v, want 1.0", got)
	}
}
