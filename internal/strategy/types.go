// Package strategy translates business questions (redesign a role, adopt a
// technology, rebalance task distribution) into the task reclassifications
// the cascade engine consumes.
package strategy

import "orgtwin/internal/cascade"

// Plan is what a strategy hands to the engines. A plan with TasksMatched 0
// and no reclassifications is a legitimate zero-impact outcome, not an
// error: the caller can tell "ran with no effect" from "failed to run".
type Plan struct {
	Reclassifications   []cascade.Reclassification `json:"reclassifications"`
	TasksMatched        int                        `json:"tasks_matched"`
	TechnologiesApplied []string                   `json:"technologies_applied,omitempty"`
	AdoptionSpeed       string                     `json:"adoption_speed,omitempty"`
	SavingsDiscount     float64                    `json:"savings_discount,omitempty"` // 0-1 multiplier on cascade savings
	Tech                *cascade.TechCosts         `json:"tech_costs,omitempty"`
}
