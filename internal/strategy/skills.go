package strategy

import (
	"math"
	"sort"

	"orgtwin/internal/cascade"
	"orgtwin/internal/config"
	"orgtwin/internal/org"
)

// SkillOutlook is the skills-strategy view over a completed cascade.
type SkillOutlook struct {
	Sunrise            []string            `json:"sunrise"`
	Sunset             []string            `json:"sunset"`
	Stable             []string            `json:"stable"`
	ConcentrationRisks []ConcentrationRisk `json:"concentration_risks,omitempty"`
	Reskilling         ReskillingPlan      `json:"reskilling_plan"`
}

// ConcentrationRisk flags a skill held by too few roles to survive churn.
type ConcentrationRisk struct {
	SkillID      string `json:"skill_id"`
	SkillName    string `json:"skill_name"`
	RolesHolding int    `json:"roles_holding"`
	Threshold    int    `json:"threshold"`
}

// BandPlan is the reskilling slice for one career band.
type BandPlan struct {
	Headcount      float64 `json:"headcount"`
	CostMultiplier float64 `json:"cost_multiplier"`
	Cost           float64 `json:"cost"`
}

// ReskillingPlan is the band-weighted cost and per-category timeline of
// closing the sunrise gap.
type ReskillingPlan struct {
	TotalCost      float64             `json:"total_cost"`
	ByBand         map[string]BandPlan `json:"by_band"`
	TimelineMonths map[string]int      `json:"timeline_months_by_category"`
	SkillGapCount  int                 `json:"skill_gap_count"`
}

// Reskilling effort scales with seniority: senior people cost more to pull
// off the line.
var bandCostMultipliers = map[org.CareerBand]float64{
	org.BandEntry:     0.8,
	org.BandAssociate: 0.9,
	org.BandSenior:    1.0,
	org.BandLead:      1.2,
	org.BandDirector:  1.4,
	org.BandCSuite:    1.6,
}

var categoryTimelines = map[string]int{
	"technical":   6,
	"analytical":  4,
	"operational": 3,
	"relational":  2,
}

// SkillsStrategy post-processes a completed cascade result against its
// scope. It does not run a cascade itself.
type SkillsStrategy struct {
	cfg config.SimulationConfig
}

func NewSkillsStrategy(cfg config.SimulationConfig) *SkillsStrategy {
	return &SkillsStrategy{cfg: cfg}
}

// Analyze classifies skills, flags concentration risk and builds the
// reskilling plan.
func (s *SkillsStrategy) Analyze(scope *org.ScopeData, res *cascade.Result) *SkillOutlook {
	out := &SkillOutlook{}

	shifted := make(map[string]bool)
	for _, sh := range res.SkillShifts.Sunrise {
		out.Sunrise = append(out.Sunrise, sh.SkillName)
		shifted[sh.SkillName] = true
	}
	for _, sh := range res.SkillShifts.Sunset {
		out.Sunset = append(out.Sunset, sh.SkillName)
		shifted[sh.SkillName] = true
	}
	for _, id := range sortedSkillIDs(scope) {
		sk := scope.Skills[id]
		if !shifted[sk.Name] {
			out.Stable = append(out.Stable, sk.Name)
		}
	}
	sort.Strings(out.Sunrise)
	sort.Strings(out.Sunset)
	sort.Strings(out.Stable)

	// Concentration risk: skills held by fewer roles than the threshold.
	threshold := int(math.Max(2, math.Ceil(0.15*float64(scope.Summary.RoleCount))))
	holders := make(map[string]int)
	for _, r := range scope.Roles {
		seen := make(map[string]bool)
		for _, sid := range r.SkillIDs {
			if !seen[sid] {
				holders[sid]++
				seen[sid] = true
			}
		}
	}
	for _, id := range sortedSkillIDs(scope) {
		n, held := holders[id]
		if !held || n >= threshold {
			continue
		}
		out.ConcentrationRisks = append(out.ConcentrationRisks, ConcentrationRisk{
			SkillID:      id,
			SkillName:    scope.Skills[id].Name,
			RolesHolding: n,
			Threshold:    threshold,
		})
	}

	out.Reskilling = s.buildReskillingPlan(scope, res)
	return out
}

func (s *SkillsStrategy) buildReskillingPlan(scope *org.ScopeData, res *cascade.Result) ReskillingPlan {
	plan := ReskillingPlan{
		ByBand:         make(map[string]BandPlan),
		TimelineMonths: make(map[string]int),
		SkillGapCount:  len(res.SkillShifts.Sunrise),
	}
	if plan.SkillGapCount == 0 {
		return plan
	}

	perSkill := s.cfg.Financial.ReskillCostPerSkill
	fraction := s.cfg.Cascade.ReskillingFraction

	for _, t := range res.TitleImpacts {
		mult, ok := bandCostMultipliers[t.Band]
		if !ok {
			mult = 1.0
		}
		needing := t.Headcount * fraction
		cost := perSkill * float64(plan.SkillGapCount) * needing * mult
		bp := plan.ByBand[string(t.Band)]
		bp.Headcount += needing
		bp.CostMultiplier = mult
		bp.Cost += cost
		plan.ByBand[string(t.Band)] = bp
		plan.TotalCost += cost
	}

	// Timeline per category covered by the sunrise skills; universal skills
	// without a catalog entry count as technical.
	categories := make(map[string]bool)
	byName := make(map[string]*org.Skill)
	for _, sk := range scope.Skills {
		byName[sk.Name] = sk
	}
	for _, sh := range res.SkillShifts.Sunrise {
		cat := "technical"
		if sk, ok := byName[sh.SkillName]; ok && sk.Category != "" {
			cat = sk.Category
		}
		categories[cat] = true
	}
	for cat := range categories {
		months, ok := categoryTimelines[cat]
		if !ok {
			months = 3
		}
		plan.TimelineMonths[cat] = months
	}

	return plan
}

func sortedSkillIDs(scope *org.ScopeData) []string {
	ids := make([]string, 0, len(scope.Skills))
	for id := range scope.Skills {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
