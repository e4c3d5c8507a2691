// Package cascade implements the single-shot 8-step propagation of task
// automation changes up through workload, role, workforce, financial and
// risk layers. One Engine.Run call is one cascade; the run mutates the task
// arena of the ScopeData it is given.
package cascade

import "orgtwin/internal/org"

// Reclassification is one requested task-level automation change.
type Reclassification struct {
	TaskID   string              `json:"task_id"`
	NewLevel org.AutomationLevel `json:"new_level"`
}

// TaskChange records one applied reclassification (step 1).
type TaskChange struct {
	TaskID     string              `json:"task_id"`
	TaskName   string              `json:"task_name"`
	WorkloadID string              `json:"workload_id"`
	OldLevel   org.AutomationLevel `json:"old_level"`
	NewLevel   org.AutomationLevel `json:"new_level"`
	Delta      float64             `json:"automation_delta"` // 0-1 fraction gained
}

// WorkloadChange records the recomposition of one touched workload (step 2).
// Both continuous scores are retained; quantizing before step 3 would lose
// precision.
type WorkloadChange struct {
	WorkloadID string              `json:"workload_id"`
	RoleID     string              `json:"role_id"`
	OldScore   float64             `json:"old_score"` // 0-100
	NewScore   float64             `json:"new_score"` // 0-100
	OldLevel   org.AutomationLevel `json:"old_level"`
	NewLevel   org.AutomationLevel `json:"new_level"`
}

// RoleImpact is the per-role freed capacity (step 3).
type RoleImpact struct {
	RoleID           string  `json:"role_id"`
	RoleName         string  `json:"role_name"`
	Headcount        float64 `json:"headcount"`
	FreedCapacityPct float64 `json:"freed_capacity_pct"`
	WorkloadsChanged int     `json:"workloads_changed"`
}

// TitleImpact is the band-weighted per-title impact (step 3).
type TitleImpact struct {
	TitleID             string         `json:"title_id"`
	TitleName           string         `json:"title_name"`
	RoleID              string         `json:"role_id"`
	Band                org.CareerBand `json:"career_band"`
	Headcount           float64        `json:"headcount"`
	AvgSalary           float64        `json:"avg_salary"`
	FreedCapacityPct    float64        `json:"freed_capacity_pct"`
	TransformationIndex float64        `json:"transformation_index"`
}

// SkillShift is one skill entering or leaving relevance (step 4).
type SkillShift struct {
	SkillID   string `json:"skill_id,omitempty"`
	SkillName string `json:"skill_name"`
	Source    string `json:"source"` // lifecycle, task_mapping, universal
}

// SkillShiftResult aggregates step 4.
type SkillShiftResult struct {
	Sunset  []SkillShift `json:"sunset"`
	Sunrise []SkillShift `json:"sunrise"`
}

// WorkforceImpact aggregates step 5.
type WorkforceImpact struct {
	CurrentHeadcount      float64 `json:"current_headcount"`
	FreedHeadcount        float64 `json:"freed_headcount"`
	RedeployableHeadcount float64 `json:"redeployable_headcount"`
	ReductionPct          float64 `json:"reduction_pct"`
}

// RiskFlag is one triggered risk rule (step 7).
type RiskFlag struct {
	Code     string `json:"code"`
	Severity string `json:"severity"` // high, medium
	Detail   string `json:"detail"`
}

// ValidationReport is the step 8 boundary check. Violations are reported,
// never silently swallowed, and never raised as errors: the cascade still
// returns inspectable data with Valid set false.
type ValidationReport struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations,omitempty"`
}

// Summary is the caller-facing roll-up.
type Summary struct {
	TasksAffected  int     `json:"tasks_affected"`
	RolesAffected  int     `json:"roles_affected"`
	FreedHeadcount float64 `json:"freed_headcount"`
	ReductionPct   float64 `json:"reduction_pct"`
	GrossSavings   float64 `json:"gross_savings"`
	NetImpact      float64 `json:"net_impact"`
	ROIPct         float64 `json:"roi_pct"`
}

// Result is the full cascade output, keyed by step.
type Result struct {
	TaskChanges     []TaskChange        `json:"task_reclassification"`
	WorkloadChanges []WorkloadChange    `json:"workload_recomposition"`
	RoleImpacts     []RoleImpact        `json:"role_impacts"`
	TitleImpacts    []TitleImpact       `json:"title_impacts"`
	SkillShifts     SkillShiftResult    `json:"skill_shifts"`
	Workforce       WorkforceImpact     `json:"workforce"`
	Financial       FinancialProjection `json:"financial"`
	Risks           []RiskFlag          `json:"risks"`
	Validation      ValidationReport    `json:"validation"`
	Summary         Summary             `json:"summary"`
}
