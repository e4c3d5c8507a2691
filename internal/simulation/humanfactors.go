// Package simulation implements the time-stepped realization engine: it
// wraps a single-shot cascade (the theoretical maximum) and evolves
// adoption, workforce flows, financials and human factors month by month.
package simulation

import (
	"math"

	"orgtwin/internal/config"
)

// HumanFactors holds the four coupled stocks, each bounded to [0,1].
type HumanFactors struct {
	Resistance  float64 `json:"resistance"`
	Morale      float64 `json:"morale"`
	Proficiency float64 `json:"proficiency"`
	Culture     float64 `json:"culture_readiness"`
}

// InitialFactors seeds the stocks from the organization profile.
func InitialFactors(p config.OrganizationProfile) HumanFactors {
	return HumanFactors{
		Resistance:  clamp01(p.InitialResistance),
		Morale:      clamp01(p.InitialMorale),
		Proficiency: clamp01(p.InitialProficiency),
		Culture:     clamp01(p.InitialCulture),
	}
}

// FactorContext is the monthly environment the stocks respond to.
type FactorContext struct {
	AdoptionLevel       float64 // 0-1
	SeparationRate      float64 // monthly separations / total headcount
	ReskillingActive    bool
	TrainingInvestment  float64 // 0-1
	PaceOfChange        float64 // 0-1, monthly adoption delta
	LeadershipTarget    float64 // 0-1
	CultureTimeConstant float64 // months
}

// Step advances the stocks by one month (Euler, dt = 1). Pure: it returns
// the new state and has no side effects. All four stocks are clamped to
// [0,1] after the deltas apply.
func (h HumanFactors) Step(ctx FactorContext) HumanFactors {
	// Resistance: change shock minus natural adaptation minus communication.
	dR := ctx.PaceOfChange*(1-h.Proficiency)*0.08 - h.Resistance*0.05 - ctx.TrainingInvestment*0.03

	// Morale: mastery and momentum lift it, separations and a lagging
	// culture drag it.
	dM := h.Proficiency*0.02 + ctx.AdoptionLevel*0.015 - ctx.SeparationRate*0.30 - (1-h.Culture)*0.01
	if ctx.ReskillingActive {
		dM += 0.01
	}

	// Proficiency: saturating growth with a capped learning rate.
	rate := math.Min(ctx.TrainingInvestment*0.06+ctx.AdoptionLevel*0.03, 0.10)
	dP := rate * (1 - h.Proficiency)

	// Culture: exponential approach to the leadership-set target.
	tau := ctx.CultureTimeConstant
	if tau <= 0 {
		tau = 18
	}
	dC := -(h.Culture - ctx.LeadershipTarget) / tau

	return HumanFactors{
		Resistance:  clamp01(h.Resistance + dR),
		Morale:      clamp01(h.Morale + dM),
		Proficiency: clamp01(h.Proficiency + dP),
		Culture:     clamp01(h.Culture + dC),
	}
}

// Multiplier is the composite human factor multiplier in [0,1]; it scales
// adoption speed in the Bass step.
func (h HumanFactors) Multiplier() float64 {
	return clamp01(0.30*(1-h.Resistance) + 0.25*h.Proficiency + 0.20*h.Morale + 0.25*h.Culture)
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
