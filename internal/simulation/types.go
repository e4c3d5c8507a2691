package simulation

import "orgtwin/internal/cascade"

// FeedbackLoop names a loop active in a given month.
type FeedbackLoop string

const (
	ProductivityFlywheel  FeedbackLoop = "productivity_flywheel"
	CapabilityCompounding FeedbackLoop = "capability_compounding"
	ChangeResistance      FeedbackLoop = "change_resistance"
	SkillGapBrake         FeedbackLoop = "skill_gap_brake"
	KnowledgeDrain        FeedbackLoop = "knowledge_drain"
)

// MonthlyCosts decomposes the month's spend by temporal pattern. Committed
// costs run on the calendar, adoption-proportional costs scale with realized
// adoption, severance is paid only on actual separations.
type MonthlyCosts struct {
	Implementation   float64 `json:"implementation"`
	ChangeManagement float64 `json:"change_management"`
	JCurve           float64 `json:"j_curve"`
	TechLicensing    float64 `json:"tech_licensing"`
	Reskilling       float64 `json:"reskilling"`
	Severance        float64 `json:"severance"`
	Total            float64 `json:"total"`
}

// MonthlySnapshot is the immutable record of one simulated month.
type MonthlySnapshot struct {
	Month              int            `json:"month"`
	AdoptionLevel      float64        `json:"adoption_level"` // 0-1
	HFM                float64        `json:"human_factor_multiplier"`
	JCurveMultiplier   float64        `json:"j_curve_multiplier"`
	EffectiveFreedHC   float64        `json:"effective_freed_headcount"`
	MonthlySavings     float64        `json:"monthly_savings"`
	MonthlySeparations float64        `json:"monthly_separations"`
	MonthlyRedeployed  float64        `json:"monthly_redeployed"`
	NaturalAttrition   float64        `json:"natural_attrition"`
	Costs              MonthlyCosts   `json:"costs"`
	CumulativeSavings  float64        `json:"cumulative_savings"`
	CumulativeCosts    float64        `json:"cumulative_costs"`
	CumulativeNet      float64        `json:"cumulative_net"`
	NPV                float64        `json:"npv"`
	Factors            HumanFactors   `json:"human_factors"`
	ActiveLoops        []FeedbackLoop `json:"active_loops,omitempty"`
}

// Trajectory is the ordered monthly sequence plus the theoretical-max
// cascade it realizes.
type Trajectory struct {
	TheoreticalMax *cascade.Result   `json:"theoretical_max"`
	Snapshots      []MonthlySnapshot `json:"snapshots"`
	TimelineMonths int               `json:"timeline_months"`
	AdoptionSpeed  string            `json:"adoption_speed"`
}

// PaybackMonth is the first month where cumulative savings cover cumulative
// costs, or 0 if the timeline never pays back.
func (t *Trajectory) PaybackMonth() int {
	for _, s := range t.Snapshots {
		if s.CumulativeSavings >= s.CumulativeCosts && s.CumulativeCosts > 0 {
			return s.Month
		}
	}
	return 0
}

// BreakevenMonth is the first month with positive cumulative net, or 0.
func (t *Trajectory) BreakevenMonth() int {
	for _, s := range t.Snapshots {
		if s.CumulativeNet > 0 {
			return s.Month
		}
	}
	return 0
}

// FinalSnapshot returns the last month, or a zero snapshot for an empty
// trajectory.
func (t *Trajectory) FinalSnapshot() MonthlySnapshot {
	if len(t.Snapshots) == 0 {
		return MonthlySnapshot{}
	}
	return t.Snapshots[len(t.Snapshots)-1]
}
