package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CascadeConfig holds every numeric knob of the 8-step cascade. Thresholds
// live here, never inline in the engine.
type CascadeConfig struct {
	RedeployabilityPct    float64 `yaml:"redeployability_pct"`     // share of freed headcount assumed redeployable
	HighAutomationPct     float64 `yaml:"high_automation_pct"`     // role freed_pct above this raises a risk flag
	ReductionThresholdPct float64 `yaml:"reduction_threshold_pct"` // workforce reduction above this raises a risk flag
	NewSkillsThreshold    int     `yaml:"new_skills_threshold"`    // net new skills above this raises a risk flag
	BroadChangeTaskCount  int     `yaml:"broad_change_task_count"` // tasks affected above this raises a risk flag
	PrimarySunsetFraction float64 `yaml:"primary_sunset_fraction"` // skill PRIMARY to >= this share of affected tasks -> sunset candidate
	ReskillingFraction    float64 `yaml:"reskilling_fraction"`     // share of headcount needing reskilling per sunrise skill
}

// FinancialConfig holds cost rates and the J-curve parameters.
type FinancialConfig struct {
	ChangeManagementPct    float64 `yaml:"change_management_pct"` // % of gross savings
	SeveranceMonths        float64 `yaml:"severance_months"`      // months of salary per non-redeployable head
	JCurveEnabled          bool    `yaml:"j_curve_enabled"`
	JCurveDipPct           float64 `yaml:"j_curve_dip_pct"`         // productivity dip depth, % of salary
	JCurveDipMonths        int     `yaml:"j_curve_dip_months"`      // dip duration
	TechMonthlyPerUser     float64 `yaml:"tech_monthly_per_user"`   // licensing rate
	ImplementationFraction float64 `yaml:"implementation_fraction"` // one-off implementation as fraction of licensing
	ReskillCostPerSkill    float64 `yaml:"reskill_cost_per_skill"`  // per skill gap per person
	AnnualDiscountRate     float64 `yaml:"annual_discount_rate"`    // NPV discounting
}

// OrganizationProfile captures the human starting conditions of the
// organization under simulation.
type OrganizationProfile struct {
	InitialResistance    float64  `yaml:"initial_resistance"`
	InitialMorale        float64  `yaml:"initial_morale"`
	InitialProficiency   float64  `yaml:"initial_proficiency"`
	InitialCulture       float64  `yaml:"initial_culture"`
	CultureTimeConstant  float64  `yaml:"culture_time_constant"` // months, 12-36
	LeadershipTarget     float64  `yaml:"leadership_target"`
	TrainingInvestment   float64  `yaml:"training_investment"` // 0-1
	MonthlyAttritionRate float64  `yaml:"monthly_attrition_rate"`
	ProtectedRoles       []string `yaml:"protected_roles"`
}

// BassPreset is an innovation/imitation coefficient pair for the adoption
// model. The presets are calibrated constants, not empirically derived;
// treat them as tunable.
type BassPreset struct {
	P float64 `yaml:"p"`
	Q float64 `yaml:"q"`
}

// TimelineConfig holds the temporal shape of the v2 cost model.
type TimelineConfig struct {
	Months                  int `yaml:"months"`
	ImplementationCapMonths int `yaml:"implementation_cap_months"` // committed implementation spend window
	ChangeMgmtCapMonths     int `yaml:"change_mgmt_cap_months"`
	ReskillingCapMonths     int `yaml:"reskilling_cap_months"`
	RedeploymentDelayMonths int `yaml:"redeployment_delay_months"`
}

// SimulationConfig is the single immutable configuration object passed to
// the engines at construction time. Pass it by value; there is no global
// mutable configuration state.
type SimulationConfig struct {
	Cascade   CascadeConfig         `yaml:"cascade"`
	Financial FinancialConfig       `yaml:"financial"`
	Profile   OrganizationProfile   `yaml:"organization"`
	Timeline  TimelineConfig        `yaml:"timeline"`
	Adoption  map[string]BassPreset `yaml:"adoption_presets"`
}

// DefaultSimulation returns the compiled-in defaults.
func DefaultSimulation() SimulationConfig {
	return SimulationConfig{
		Cascade: CascadeConfig{
			RedeployabilityPct:    60,
			HighAutomationPct:     50,
			ReductionThresholdPct: 15,
			NewSkillsThreshold:    5,
			BroadChangeTaskCount:  50,
			PrimarySunsetFraction: 0.5,
			ReskillingFraction:    0.4,
		},
		Financial: FinancialConfig{
			ChangeManagementPct:    8,
			SeveranceMonths:        6,
			JCurveEnabled:          true,
			JCurveDipPct:           5,
			JCurveDipMonths:        6,
			TechMonthlyPerUser:     85,
			ImplementationFraction: 0.35,
			ReskillCostPerSkill:    1200,
			AnnualDiscountRate:     0.10,
		},
		Profile: OrganizationProfile{
			InitialResistance:    0.30,
			InitialMorale:        0.65,
			InitialProficiency:   0.20,
			InitialCulture:       0.50,
			CultureTimeConstant:  18,
			LeadershipTarget:     0.80,
			TrainingInvestment:   0.50,
			MonthlyAttritionRate: 0.01,
		},
		Timeline: TimelineConfig{
			Months:                  36,
			ImplementationCapMonths: 12,
			ChangeMgmtCapMonths:     24,
			ReskillingCapMonths:     18,
			RedeploymentDelayMonths: 3,
		},
		Adoption: map[string]BassPreset{
			"fast":     {P: 0.05, Q: 0.50},
			"moderate": {P: 0.03, Q: 0.38},
			"slow":     {P: 0.01, Q: 0.25},
		},
	}
}

// LoadSimulation returns the defaults overlaid with a YAML override file.
// An empty path returns the plain defaults.
func LoadSimulation(path string) (SimulationConfig, error) {
	cfg := DefaultSimulation()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read simulation config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse simulation config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations that would make the simulation degenerate.
func (c SimulationConfig) Validate() error {
	if c.Timeline.Months <= 0 {
		return fmt.Errorf("timeline months must be positive, got %d", c.Timeline.Months)
	}
	if c.Cascade.RedeployabilityPct < 0 || c.Cascade.RedeployabilityPct > 100 {
		return fmt.Errorf("redeployability_pct %.1f outside [0,100]", c.Cascade.RedeployabilityPct)
	}
	if c.Profile.CultureTimeConstant <= 0 {
		return fmt.Errorf("culture_time_constant must be positive, got %.1f", c.Profile.CultureTimeConstant)
	}
	for name, p := range c.Adoption {
		if p.P <= 0 || p.Q < 0 {
			return fmt.Errorf("adoption preset %q has non-positive coefficients", name)
		}
	}
	return nil
}

// Preset resolves an adoption speed name, falling back to moderate.
func (c SimulationConfig) Preset(speed string) BassPreset {
	if p, ok := c.Adoption[speed]; ok {
		return p
	}
	return c.Adoption["moderate"]
}
