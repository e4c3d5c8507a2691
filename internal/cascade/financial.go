package cascade

import (
	"math"

	"orgtwin/internal/config"
)

// ROISentinel is reported when total cost is zero but savings are positive.
const ROISentinel = 9999.0

// FinancialProjection is the step 6 output. NetImpact is always exactly
// GrossSavings - TotalCost.
type FinancialProjection struct {
	TimelineMonths       int     `json:"timeline_months"`
	GrossSavings         float64 `json:"gross_savings"`
	TotalFreedHeadcount  float64 `json:"total_freed_headcount"`
	TechnologyCost       float64 `json:"technology_cost"`
	ReskillingCost       float64 `json:"reskilling_cost"`
	ChangeManagementCost float64 `json:"change_management_cost"`
	SeveranceCost        float64 `json:"severance_cost"`
	JCurveCost           float64 `json:"j_curve_cost"`
	TotalCost            float64 `json:"total_cost"`
	NetImpact            float64 `json:"net_impact"`
	ROIPct               float64 `json:"roi_pct"`
	PaybackMonths        int     `json:"payback_months"`
}

// TechCosts is the caller-supplied technology cost pair, passed through
// unchanged.
type TechCosts struct {
	Licensing      float64 `json:"licensing"`
	Implementation float64 `json:"implementation"`
}

// ProjectionOptions carries the optional inputs of a projection.
type ProjectionOptions struct {
	Tech            *TechCosts
	ReskillingCost  float64
	Redeployability *float64 // overrides CascadeConfig.RedeployabilityPct
}

// Financial computes savings, costs, ROI and payback from a flat title
// impact list.
type Financial struct {
	cfg config.SimulationConfig
}

func NewFinancial(cfg config.SimulationConfig) *Financial {
	return &Financial{cfg: cfg}
}

// Project runs the cost model in the documented order.
func (f *Financial) Project(titles []TitleImpact, timelineMonths int, opts ProjectionOptions) FinancialProjection {
	fin := f.cfg.Financial
	p := FinancialProjection{TimelineMonths: timelineMonths}

	// 1. Gross savings and freed headcount per title.
	var affectedHC, salaryMass float64
	for _, t := range titles {
		p.GrossSavings += t.AvgSalary * t.Headcount * (t.FreedCapacityPct / 100) * (float64(timelineMonths) / 12)
		p.TotalFreedHeadcount += t.Headcount * t.FreedCapacityPct / 100
		affectedHC += t.Headcount
		salaryMass += t.Headcount * t.AvgSalary
	}
	blendedSalary := 0.0
	if affectedHC > 0 {
		blendedSalary = salaryMass / affectedHC
	}

	// 2-3. Technology and reskilling costs pass through unchanged.
	if opts.Tech != nil {
		p.TechnologyCost = opts.Tech.Licensing + opts.Tech.Implementation
	}
	p.ReskillingCost = opts.ReskillingCost

	// 4. Change management as a share of gross savings.
	p.ChangeManagementCost = p.GrossSavings * fin.ChangeManagementPct / 100

	// 5. Severance on the non-redeployable share of freed headcount.
	redeployPct := f.cfg.Cascade.RedeployabilityPct
	if opts.Redeployability != nil {
		redeployPct = *opts.Redeployability
	}
	nonRedeployable := p.TotalFreedHeadcount * (1 - redeployPct/100)
	p.SeveranceCost = nonRedeployable * blendedSalary * fin.SeveranceMonths / 12

	// 6. J-curve dip over the affected population.
	if fin.JCurveEnabled {
		dipMonths := math.Min(float64(fin.JCurveDipMonths), float64(timelineMonths))
		p.JCurveCost = affectedHC * blendedSalary * (fin.JCurveDipPct / 100) * dipMonths / 12
	}

	// 7. Totals.
	p.TotalCost = p.TechnologyCost + p.ReskillingCost + p.ChangeManagementCost + p.SeveranceCost + p.JCurveCost
	p.NetImpact = p.GrossSavings - p.TotalCost

	switch {
	case p.TotalCost > 0:
		p.ROIPct = p.NetImpact / p.TotalCost * 100
	case p.GrossSavings > 0:
		p.ROIPct = ROISentinel
	default:
		p.ROIPct = 0
	}

	if p.GrossSavings > 0 {
		monthly := p.GrossSavings / float64(timelineMonths)
		p.PaybackMonths = int(math.Floor(p.TotalCost / monthly))
	}

	return p
}

// TechnologyCost computes raw licensing plus implementation costs for a
// technology rollout over a headcount.
func (f *Financial) TechnologyCost(headcount float64, months int, monthlyPerUser float64) TechCosts {
	if monthlyPerUser <= 0 {
		monthlyPerUser = f.cfg.Financial.TechMonthlyPerUser
	}
	licensing := monthlyPerUser * headcount * float64(months)
	return TechCosts{
		Licensing:      licensing,
		Implementation: licensing * f.cfg.Financial.ImplementationFraction,
	}
}

// ReskillingCost computes the cost of closing skill gaps across the share of
// the population that needs reskilling.
func (f *Financial) ReskillingCost(skillGaps int, totalHeadcount float64) float64 {
	needing := totalHeadcount * f.cfg.Cascade.ReskillingFraction
	return f.cfg.Financial.ReskillCostPerSkill * float64(skillGaps) * needing
}
