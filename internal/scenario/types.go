// Package scenario orchestrates simulation runs: scope selection, strategy
// dispatch, constraint application, durable persistence and side-by-side
// comparison.
package scenario

import (
	"time"

	"orgtwin/internal/cascade"
	"orgtwin/internal/simulation"
	"orgtwin/internal/strategy"
)

// Simulation types accepted by the invocation contract.
const (
	TypeRoleRedesign     = "role_redesign"
	TypeTechAdoption     = "tech_adoption"
	TypeMultiTech        = "multi_tech_adoption"
	TypeTaskDistribution = "task_distribution"
)

// Engine versions.
const (
	EngineV1 = "v1" // single-shot theoretical maximum
	EngineV2 = "v2" // time-stepped trajectory
)

// Parameters carries the per-type knobs of a scenario.
type Parameters struct {
	AutomationFactor   float64            `json:"automation_factor,omitempty"`
	Classifications    []string           `json:"classifications,omitempty"`
	Technologies       []string           `json:"technologies,omitempty"`
	AdoptionSpeed      string             `json:"adoption_speed,omitempty"`
	DistributionTarget map[string]float64 `json:"distribution_target,omitempty"`
	MaxStepsPerTask    int                `json:"max_steps_per_task,omitempty"`
}

// Constraints are applied to a completed run, post-hoc.
type Constraints struct {
	MaxReductionPct float64  `json:"max_reduction_pct,omitempty"` // cap, 0 disables
	BudgetCap       float64  `json:"budget_cap,omitempty"`        // total cost ceiling, 0 disables
	ProtectedRoles  []string `json:"protected_roles,omitempty"`   // role names or ids
}

// Definition is a stored scenario configuration.
type Definition struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	SimulationType string       `json:"simulation_type"`
	ScopeType      string       `json:"scope_type"`
	ScopeName      string       `json:"scope_name"`
	EngineVersion  string       `json:"engine_version"`
	TimelineMonths int          `json:"timeline_months,omitempty"` // 0 uses the config default
	Parameters     Parameters   `json:"parameters"`
	Constraints    *Constraints `json:"constraints,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// RunResult is the full outcome of one scenario run. A failed run carries
// Error and nothing else, so batch runs stay resilient to one bad scenario.
// A successful run with a nil Cascade and TasksMatched 0 ran cleanly with no
// effect.
type RunResult struct {
	ScenarioID     string                     `json:"scenario_id,omitempty"`
	Name           string                     `json:"name,omitempty"`
	SimulationType string                     `json:"simulation_type"`
	EngineVersion  string                     `json:"engine_version"`
	ScopeType      string                     `json:"scope_type"`
	ScopeName      string                     `json:"scope_name"`
	Error          string                     `json:"error,omitempty"`
	Plan           *strategy.Plan             `json:"plan,omitempty"`
	Distribution   *strategy.DistributionPlan `json:"distribution,omitempty"`
	Cascade        *cascade.Result            `json:"cascade,omitempty"`
	Skills         *strategy.SkillOutlook     `json:"skills,omitempty"`
	Trajectory     *simulation.Trajectory     `json:"trajectory,omitempty"`
	ConstraintLog  []string                   `json:"constraint_log,omitempty"`
	CompletedAt    time.Time                  `json:"completed_at"`
}

// Failed reports whether the run produced an error instead of a result.
func (r *RunResult) Failed() bool { return r.Error != "" }

// ROI returns the run's ROI, or 0 when no cascade ran.
func (r *RunResult) ROI() float64 {
	if r.Cascade == nil {
		return 0
	}
	return r.Cascade.Financial.ROIPct
}

// HighRiskCount counts high-severity risk flags.
func (r *RunResult) HighRiskCount() int {
	if r.Cascade == nil {
		return 0
	}
	n := 0
	for _, f := range r.Cascade.Risks {
		if f.Severity == "high" {
			n++
		}
	}
	return n
}
