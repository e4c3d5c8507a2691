package org

// Role is the anchor entity of the hierarchy: it owns workloads (and through
// them tasks) and is the unit at which freed capacity aggregates.
type Role struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	JobFamilyID     string   `json:"job_family_id,omitempty"`
	Headcount       float64  `json:"headcount"`
	AvgSalary       float64  `json:"avg_salary"`
	AutomationScore float64  `json:"automation_score"` // 0-100
	SkillIDs        []string `json:"skill_ids,omitempty"`
	TechnologyIDs   []string `json:"technology_ids,omitempty"`
}

// JobTitle is a banded slice of a role's population.
type JobTitle struct {
	ID        string     `json:"id"`
	RoleID    string     `json:"role_id"`
	Name      string     `json:"name"`
	Band      CareerBand `json:"career_band"`
	Headcount float64    `json:"headcount"`
	AvgSalary float64    `json:"avg_salary"`
}

// Workload is a share of a role's time. It references its tasks by id only;
// the ScopeData arena owns the task values.
type Workload struct {
	ID        string          `json:"id"`
	RoleID    string          `json:"role_id"`
	Name      string          `json:"name"`
	EffortPct float64         `json:"effort_pct"` // share of the role's time, 0-100
	Level     AutomationLevel `json:"automation_level"`
	TaskIDs   []string        `json:"task_ids"`
}

// Task is the unit the cascade reclassifies. AutomationLevel is the only
// field mutated during a cascade run.
type Task struct {
	ID                  string          `json:"id"`
	WorkloadID          string          `json:"workload_id"`
	Name                string          `json:"name"`
	Description         string          `json:"description,omitempty"`
	Classification      Classification  `json:"classification"`
	TimePct             float64         `json:"time_allocation_pct"` // share of the workload, 0-100
	AutomationPotential float64         `json:"automation_potential"`
	Level               AutomationLevel `json:"automation_level"`
}

// Skill is a catalog entry referenced by roles and task-skill mappings.
type Skill struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Lifecycle Lifecycle `json:"lifecycle_status"`
}

// Technology is a catalog entry describing an automation capability.
type Technology struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category,omitempty"`
	AdoptionStage string   `json:"adoption_stage,omitempty"`
	Capabilities  []string `json:"capabilities,omitempty"`
}

// TaskSkill links a task to a skill with a relevance tag. Keyed by task id in
// ScopeData.TaskSkills.
type TaskSkill struct {
	SkillID   string    `json:"skill_id"`
	SkillName string    `json:"skill_name"`
	Relevance Relevance `json:"relevance"`
}
