package strategy

import (
	"fmt"
	"math"

	"orgtwin/internal/cascade"
	"orgtwin/internal/org"
)

// defaultRedesignClassifications are the task types eligible for redesign
// when the caller does not narrow the set.
var defaultRedesignClassifications = []org.Classification{org.Directive, org.FeedbackLoop}

// RoleRedesign selects automatable tasks by classification and potential and
// advances their automation level in proportion to the automation factor.
type RoleRedesign struct {
	Classifications  []org.Classification
	AutomationFactor float64 // 0-1; higher means more aggressive
}

// potentialThreshold derives the eligibility bar from the automation factor:
// a higher factor lowers the bar.
func (r RoleRedesign) potentialThreshold() float64 {
	return 90 - 50*r.AutomationFactor
}

// Plan selects eligible tasks and computes their new levels. Tasks already
// at ai_only are never touched.
func (r RoleRedesign) Plan(scope *org.ScopeData) (*Plan, error) {
	if r.AutomationFactor < 0 || r.AutomationFactor > 1 {
		return nil, fmt.Errorf("role redesign: automation factor %.2f outside [0,1]", r.AutomationFactor)
	}
	eligible := r.Classifications
	if len(eligible) == 0 {
		eligible = defaultRedesignClassifications
	}
	eligibleSet := make(map[org.Classification]bool, len(eligible))
	for _, c := range eligible {
		if _, err := org.ParseClassification(string(c)); err != nil {
			return nil, fmt.Errorf("role redesign: %w", err)
		}
		eligibleSet[c] = true
	}

	threshold := r.potentialThreshold()
	plan := &Plan{}

	for _, id := range scope.SortedTaskIDs() {
		t := scope.Tasks[id]
		if !eligibleSet[t.Classification] {
			continue
		}
		if t.AutomationPotential <= threshold {
			continue
		}
		if t.Level == org.AIOnly {
			continue
		}

		// Advance a share of the remaining ladder. The last rung before
		// ai_only is excluded from the proportional count so a moderate
		// factor lands on partial automation, but every eligible task moves
		// at least one step.
		remaining := t.Level.StepsRemaining() - 1
		if remaining < 0 {
			remaining = 0
		}
		steps := int(math.Round(float64(remaining) * r.AutomationFactor))
		if steps < 1 {
			steps = 1
		}
		plan.Reclassifications = append(plan.Reclassifications, cascade.Reclassification{
			TaskID:   t.ID,
			NewLevel: t.Level.Advance(steps),
		})
		plan.TasksMatched++
	}

	return plan, nil
}
