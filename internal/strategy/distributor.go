package strategy

import (
	"fmt"
	"math"
	"sort"

	"orgtwin/internal/cascade"
	"orgtwin/internal/org"
)

// DistributionTarget is a desired share of effort per automation level, in
// percent. Shares must sum to 100 within half a point.
type DistributionTarget map[org.AutomationLevel]float64

// Validate rejects malformed targets before any computation runs.
func (d DistributionTarget) Validate() error {
	var sum float64
	for level, pct := range d {
		if _, err := org.ParseAutomationLevel(string(level)); err != nil {
			return fmt.Errorf("distribution target: %w", err)
		}
		if pct < 0 {
			return fmt.Errorf("distribution target: negative share %.1f%% for %s", pct, level)
		}
		sum += pct
	}
	if math.Abs(sum-100) > 0.5 {
		return fmt.Errorf("distribution target percentages sum to %.1f, want 100±0.5", sum)
	}
	return nil
}

// DistributionPlan reports the moves and how close they get to the target.
type DistributionPlan struct {
	Plan
	Current      map[org.AutomationLevel]float64 `json:"current_distribution"`
	Achieved     map[org.AutomationLevel]float64 `json:"achieved_distribution"`
	Target       map[org.AutomationLevel]float64 `json:"target_distribution"`
	MeanAbsError float64                         `json:"mean_abs_error"`
}

// Distributor computes the minimum set of forward task reclassifications
// moving the current effort distribution toward a target.
type Distributor struct {
	Target          DistributionTarget
	MaxStepsPerTask int // 0 means unlimited
}

type weightedTask struct {
	id     string
	level  org.AutomationLevel
	weight float64 // task time share times workload effort share
}

// Plan runs the greedy assignment: deficit levels are filled highest level
// first, drawing from the donor level with the largest surplus, largest
// task first, never moving a task backwards and never moving one task more
// than MaxStepsPerTask rungs.
func (d Distributor) Plan(scope *org.ScopeData) (*DistributionPlan, error) {
	if err := d.Target.Validate(); err != nil {
		return nil, err
	}

	var tasks []weightedTask
	var total float64
	for _, id := range scope.SortedTaskIDs() {
		t := scope.Tasks[id]
		effort := 100.0
		if w, ok := scope.Workloads[t.WorkloadID]; ok {
			effort = w.EffortPct
		}
		wt := weightedTask{id: id, level: t.Level, weight: t.TimePct * effort / 100}
		if wt.weight > 0 {
			tasks = append(tasks, wt)
			total += wt.weight
		}
	}

	plan := &DistributionPlan{
		Plan:     Plan{},
		Current:  map[org.AutomationLevel]float64{},
		Achieved: map[org.AutomationLevel]float64{},
		Target:   map[org.AutomationLevel]float64{},
	}
	for _, lvl := range org.AllAutomationLevels() {
		plan.Target[lvl] = d.Target[lvl]
	}
	if total == 0 {
		plan.MeanAbsError = meanAbsError(plan.Achieved, plan.Target)
		return plan, nil
	}

	share := func(ts []weightedTask) map[org.AutomationLevel]float64 {
		m := map[org.AutomationLevel]float64{}
		for _, t := range ts {
			m[t.level] += t.weight / total * 100
		}
		return m
	}
	plan.Current = share(tasks)

	// Largest weight first, id for determinism.
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].weight != tasks[j].weight {
			return tasks[i].weight > tasks[j].weight
		}
		return tasks[i].id < tasks[j].id
	})

	surplus := func(lvl org.AutomationLevel) float64 {
		return share(tasks)[lvl] - plan.Target[lvl]
	}

	moved := make(map[string]bool)
	levels := org.AllAutomationLevels()

	// Fill deficits from the top of the ladder down; tasks only ever move
	// forward, so donors must sit below the deficit level.
	for i := len(levels) - 1; i >= 0; i-- {
		targetLvl := levels[i]
		for surplus(targetLvl) < -1e-9 {
			// Donor: the level below targetLvl with the largest surplus.
			donorIdx := -1
			best := 1e-9
			for j := 0; j < i; j++ {
				if s := surplus(levels[j]); s > best {
					best = s
					donorIdx = j
				}
			}
			if donorIdx < 0 {
				break
			}
			donor := levels[donorIdx]

			// Largest eligible task on the donor level.
			moveIdx := -1
			for k := range tasks {
				t := &tasks[k]
				if t.level != donor || moved[t.id] {
					continue
				}
				steps := t.level.StepsTo(targetLvl)
				if d.MaxStepsPerTask > 0 && steps > d.MaxStepsPerTask {
					continue
				}
				// Skip moves that overshoot: a task bigger than deficit plus
				// donor surplus would make things worse.
				deficit := -surplus(targetLvl)
				if t.weight/total*100 > deficit+best {
					continue
				}
				moveIdx = k
				break
			}
			if moveIdx < 0 {
				break
			}

			t := &tasks[moveIdx]
			plan.Reclassifications = append(plan.Reclassifications, cascade.Reclassification{
				TaskID:   t.id,
				NewLevel: targetLvl,
			})
			t.level = targetLvl
			moved[t.id] = true
			plan.TasksMatched++
		}
	}

	plan.Achieved = share(tasks)
	plan.MeanAbsError = meanAbsError(plan.Achieved, plan.Target)
	return plan, nil
}

func meanAbsError(achieved, target map[org.AutomationLevel]float64) float64 {
	levels := org.AllAutomationLevels()
	var sum float64
	for _, lvl := range levels {
		sum += math.Abs(achieved[lvl] - target[lvl])
	}
	return sum / float64(len(levels))
}
