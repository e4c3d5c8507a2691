package simulation

import (
	"math"

	"github.com/rs/zerolog/log"

	"orgtwin/internal/cascade"
	"orgtwin/internal/config"
	"orgtwin/internal/org"
)

// Engine realizes a cascade's theoretical maximum over time. Construct one
// per run; it holds no state between runs.
type Engine struct {
	cfg   config.SimulationConfig
	speed string
}

func NewEngine(cfg config.SimulationConfig, adoptionSpeed string) *Engine {
	if adoptionSpeed == "" {
		adoptionSpeed = "moderate"
	}
	return &Engine{cfg: cfg, speed: adoptionSpeed}
}

// Run executes the theoretical-max cascade on its own deep copy of the
// scope, then simulates month-by-month realization for the configured
// timeline.
func (e *Engine) Run(scope *org.ScopeData, recls []cascade.Reclassification, opts cascade.RunOptions) (*Trajectory, error) {
	// The cascade mutates tasks in place; it gets a private clone so the
	// caller's bundle survives even a back-to-back v1+v2 run.
	working := scope.Clone()
	ce := cascade.NewEngine(e.cfg)
	theoretical, err := ce.Run(working, recls, opts)
	if err != nil {
		return nil, err
	}

	months := e.cfg.Timeline.Months
	traj := &Trajectory{
		TheoreticalMax: theoretical,
		Snapshots:      make([]MonthlySnapshot, 0, months),
		TimelineMonths: months,
		AdoptionSpeed:  e.speed,
	}

	totalHC := working.Summary.TotalHeadcount
	if totalHC <= 0 {
		totalHC = 1 // keep the diffusion arithmetic finite on empty scopes
	}

	theoreticalFreed := theoretical.Workforce.FreedHeadcount
	salary := blendedSalary(theoretical.TitleImpacts)

	preset := e.cfg.Preset(e.speed)
	fin := e.cfg.Financial
	tl := e.cfg.Timeline
	profile := e.cfg.Profile

	// Calibrated heuristic, not physically derived: how much of the
	// organization the J-curve disruption touches.
	disruption := math.Min(1, theoreticalFreed/totalHC*2.0)

	monthlyRate := math.Pow(1+fin.AnnualDiscountRate, 1.0/12) - 1

	factors := InitialFactors(profile)
	adopters := 0.0
	prevAdoption := 0.0
	var cumSavings, cumCosts, npv float64

	implCap := math.Min(float64(tl.ImplementationCapMonths), float64(months))
	cmCap := math.Min(float64(tl.ChangeMgmtCapMonths), float64(months))
	reskillCap := math.Min(float64(tl.ReskillingCapMonths), float64(months))
	dipMonths := math.Min(float64(fin.JCurveDipMonths), float64(months))

	implementationTotal := 0.0
	licensingTotal := 0.0
	if opts.Tech != nil {
		implementationTotal = opts.Tech.Implementation
		licensingTotal = opts.Tech.Licensing
	}
	severancePerHead := salary * fin.SeveranceMonths / 12
	redeployRate := e.cfg.Cascade.RedeployabilityPct / 100

	for m := 1; m <= months; m++ {
		hfm := factors.Multiplier()

		// Bass diffusion scaled by the human factor multiplier.
		dA := (preset.P + preset.Q*adopters/totalHC) * (totalHC - adopters) * hfm
		adopters = math.Min(adopters+dA, totalHC)
		adoption := adopters / totalHC

		// J-curve productivity multiplier, tracked for reporting only.
		jMult := 1.0
		if fin.JCurveEnabled && float64(m) <= dipMonths && dipMonths > 0 {
			depth := fin.JCurveDipPct / 100 * disruption
			jMult = 1 - depth*(1-float64(m-1)/dipMonths)
		}

		// Realized benefit: adoption gates how much of the ceiling is
		// reached; proficiency keeps a 50% floor.
		profEffect := 0.5 + 0.5*factors.Proficiency
		effectiveFreed := theoreticalFreed * adoption * profEffect
		savings := effectiveFreed * salary / 12

		// Workforce flows.
		separations := theoreticalFreed * (1 - redeployRate) / float64(months) * adoption
		redeployed := 0.0
		if m > tl.RedeploymentDelayMonths {
			redeployed = theoreticalFreed * redeployRate / float64(months) * adoption
		}
		attrition := totalHC * profile.MonthlyAttritionRate

		// Costs by temporal pattern.
		var costs MonthlyCosts
		if float64(m) <= implCap && implCap > 0 {
			costs.Implementation = implementationTotal / implCap
		}
		if float64(m) <= cmCap && cmCap > 0 {
			costs.ChangeManagement = theoretical.Financial.ChangeManagementCost / cmCap
		}
		if fin.JCurveEnabled && float64(m) <= dipMonths && dipMonths > 0 {
			// Linear taper: month m carries weight (dip-m+1) out of the
			// triangular sum, so the dip cost front-loads and fades out.
			triangle := dipMonths * (dipMonths + 1) / 2
			costs.JCurve = theoretical.Financial.JCurveCost * (dipMonths - float64(m) + 1) / triangle
		}
		costs.TechLicensing = licensingTotal / float64(months) * adoption
		if float64(m) <= reskillCap && reskillCap > 0 {
			costs.Reskilling = theoretical.Financial.ReskillingCost / reskillCap * adoption
		}
		costs.Severance = separations * severancePerHead
		costs.Total = costs.Implementation + costs.ChangeManagement + costs.JCurve +
			costs.TechLicensing + costs.Reskilling + costs.Severance

		cumSavings += savings
		cumCosts += costs.Total
		npv += (savings - costs.Total) / math.Pow(1+monthlyRate, float64(m))

		// Human factors respond to this month's events.
		separationRate := separations / totalHC
		factors = factors.Step(FactorContext{
			AdoptionLevel:       adoption,
			SeparationRate:      separationRate,
			ReskillingActive:    float64(m) <= reskillCap,
			TrainingInvestment:  profile.TrainingInvestment,
			PaceOfChange:        adoption - prevAdoption,
			LeadershipTarget:    profile.LeadershipTarget,
			CultureTimeConstant: profile.CultureTimeConstant,
		})

		loops := detectLoops(cumSavings, cumCosts, adoption, factors, separationRate)

		traj.Snapshots = append(traj.Snapshots, MonthlySnapshot{
			Month:              m,
			AdoptionLevel:      adoption,
			HFM:                hfm,
			JCurveMultiplier:   jMult,
			EffectiveFreedHC:   effectiveFreed,
			MonthlySavings:     savings,
			MonthlySeparations: separations,
			MonthlyRedeployed:  redeployed,
			NaturalAttrition:   attrition,
			Costs:              costs,
			CumulativeSavings:  cumSavings,
			CumulativeCosts:    cumCosts,
			CumulativeNet:      cumSavings - cumCosts,
			NPV:                npv,
			Factors:            factors,
			ActiveLoops:        loops,
		})

		prevAdoption = adoption
	}

	log.Debug().
		Int("months", months).
		Str("speed", e.speed).
		Float64("final_adoption", prevAdoption).
		Float64("npv", npv).
		Msg("Trajectory simulated")

	return traj, nil
}

// detectLoops applies the threshold rules for active feedback loops.
func detectLoops(cumSavings, cumCosts, adoption float64, f HumanFactors, separationRate float64) []FeedbackLoop {
	var loops []FeedbackLoop
	if cumSavings > cumCosts && adoption > 0.30 {
		loops = append(loops, ProductivityFlywheel)
	}
	if f.Proficiency > 0.4 {
		loops = append(loops, CapabilityCompounding)
	}
	if f.Resistance > 0.5 {
		loops = append(loops, ChangeResistance)
	}
	if f.Proficiency < 0.3 {
		loops = append(loops, SkillGapBrake)
	}
	if separationRate > 0.01 {
		loops = append(loops, KnowledgeDrain)
	}
	return loops
}

// blendedSalary is the headcount-weighted average salary of the affected
// titles.
func blendedSalary(titles []cascade.TitleImpact) float64 {
	var hc, mass float64
	for _, t := range titles {
		hc += t.Headcount
		mass += t.Headcount * t.AvgSalary
	}
	if hc == 0 {
		return 0
	}
	return mass / hc
}
