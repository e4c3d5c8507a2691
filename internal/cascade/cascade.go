package cascade

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"orgtwin/internal/config"
	"orgtwin/internal/org"
)

// Engine executes one cascade over one ScopeData bundle. Construct it per
// run; it holds no state between runs. The run mutates task automation
// levels in place through the scope's arena, so callers that need the scope
// again must clone it first.
type Engine struct {
	cfg config.SimulationConfig
	fin *Financial
}

func NewEngine(cfg config.SimulationConfig) *Engine {
	return &Engine{cfg: cfg, fin: NewFinancial(cfg)}
}

// RunOptions carries the optional per-run inputs.
type RunOptions struct {
	Tech            *TechCosts
	Redeployability *float64
}

// Run executes steps 1-8 strictly in order. Unknown task ids are input
// errors and fail immediately. A failing boundary validation does not; the
// result is returned with Validation.Valid false.
func (e *Engine) Run(scope *org.ScopeData, recls []Reclassification, opts RunOptions) (*Result, error) {
	res := &Result{}

	changes, err := e.reclassifyTasks(scope, recls)
	if err != nil {
		return nil, err
	}
	res.TaskChanges = changes

	res.WorkloadChanges = e.recomposeWorkloads(scope, changes)
	res.RoleImpacts, res.TitleImpacts = e.assessRoleImpact(scope, res.WorkloadChanges)
	res.SkillShifts = e.shiftSkills(scope, changes)
	res.Workforce = e.recalculateWorkforce(scope, res.TitleImpacts)

	reskill := e.fin.ReskillingCost(len(res.SkillShifts.Sunrise), res.Workforce.CurrentHeadcount)
	res.Financial = e.fin.Project(res.TitleImpacts, e.cfg.Timeline.Months, ProjectionOptions{
		Tech:            opts.Tech,
		ReskillingCost:  reskill,
		Redeployability: opts.Redeployability,
	})

	res.Risks = e.assessRisks(res)
	res.Validation = e.validateBoundaries(res)

	res.Summary = Summary{
		TasksAffected:  len(res.TaskChanges),
		RolesAffected:  len(res.RoleImpacts),
		FreedHeadcount: res.Workforce.FreedHeadcount,
		ReductionPct:   res.Workforce.ReductionPct,
		GrossSavings:   res.Financial.GrossSavings,
		NetImpact:      res.Financial.NetImpact,
		ROIPct:         res.Financial.ROIPct,
	}

	log.Debug().
		Int("tasks_affected", res.Summary.TasksAffected).
		Int("roles_affected", res.Summary.RolesAffected).
		Float64("freed_headcount", res.Summary.FreedHeadcount).
		Bool("valid", res.Validation.Valid).
		Msg("Cascade completed")

	return res, nil
}

// reclassifyTasks is step 1. It mutates the task values owned by the arena,
// so the change is observed by every later step that resolves tasks through
// the scope; there is exactly one copy of each task.
func (e *Engine) reclassifyTasks(scope *org.ScopeData, recls []Reclassification) ([]TaskChange, error) {
	changes := make([]TaskChange, 0, len(recls))
	for _, r := range recls {
		task, ok := scope.Tasks[r.TaskID]
		if !ok {
			return nil, fmt.Errorf("cascade: reclassification targets unknown task %q", r.TaskID)
		}
		if _, err := org.ParseAutomationLevel(string(r.NewLevel)); err != nil {
			return nil, fmt.Errorf("cascade: task %s: %w", r.TaskID, err)
		}
		if r.NewLevel.Rank() <= task.Level.Rank() {
			continue // no backwards or no-op moves
		}
		old := task.Level
		task.Level = r.NewLevel
		changes = append(changes, TaskChange{
			TaskID:     task.ID,
			TaskName:   task.Name,
			WorkloadID: task.WorkloadID,
			OldLevel:   old,
			NewLevel:   r.NewLevel,
			Delta:      old.DeltaTo(r.NewLevel),
		})
	}
	return changes, nil
}

// recomposeWorkloads is step 2. For every touched workload it recomputes the
// continuous automation score twice: once with pre-change task levels, once
// with the mutated arena state. Both scores are retained for step 3.
func (e *Engine) recomposeWorkloads(scope *org.ScopeData, changes []TaskChange) []WorkloadChange {
	oldLevels := make(map[string]org.AutomationLevel, len(changes))
	touched := make(map[string]bool)
	for _, c := range changes {
		oldLevels[c.TaskID] = c.OldLevel
		touched[c.WorkloadID] = true
	}

	ids := make([]string, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]WorkloadChange, 0, len(ids))
	for _, wid := range ids {
		w, ok := scope.Workloads[wid]
		if !ok {
			continue
		}
		tasks := scope.TasksForWorkload(wid)
		var oldSum, newSum, weight float64
		for _, t := range tasks {
			lvl := t.Level
			oldLvl := lvl
			if prev, ok := oldLevels[t.ID]; ok {
				oldLvl = prev
			}
			oldSum += oldLvl.Fraction() * t.TimePct
			newSum += lvl.Fraction() * t.TimePct
			weight += t.TimePct
		}
		if weight == 0 {
			continue
		}
		// Fractions are already 0-100, so this is a plain weighted mean.
		oldScore := oldSum / weight
		newScore := newSum / weight

		wc := WorkloadChange{
			WorkloadID: wid,
			RoleID:     w.RoleID,
			OldScore:   oldScore,
			NewScore:   newScore,
			OldLevel:   w.Level,
			NewLevel:   org.BucketLevel(newScore),
		}
		w.Level = wc.NewLevel
		out = append(out, wc)
	}
	return out
}

// assessRoleImpact is step 3. Freed capacity comes only from workloads that
// actually changed, using the continuous score delta, never inferred from
// the quantized level.
func (e *Engine) assessRoleImpact(scope *org.ScopeData, wcs []WorkloadChange) ([]RoleImpact, []TitleImpact) {
	byRole := make(map[string][]WorkloadChange)
	for _, wc := range wcs {
		byRole[wc.RoleID] = append(byRole[wc.RoleID], wc)
	}

	roleIDs := make([]string, 0, len(byRole))
	for id := range byRole {
		roleIDs = append(roleIDs, id)
	}
	sort.Strings(roleIDs)

	var roleImpacts []RoleImpact
	var titleImpacts []TitleImpact
	for _, rid := range roleIDs {
		role, ok := scope.Roles[rid]
		if !ok {
			continue
		}
		changed := make(map[string]float64) // workload id -> score delta
		for _, wc := range byRole[rid] {
			changed[wc.WorkloadID] = math.Max(wc.NewScore-wc.OldScore, 0)
		}

		freed := 0.0
		for _, w := range scope.WorkloadsForRole(rid) {
			delta, ok := changed[w.ID]
			if !ok {
				continue // untouched workloads contribute zero
			}
			freed += (w.EffortPct / 100) * delta
		}
		freed = clampPct(freed)

		if freed == 0 {
			continue
		}

		roleImpacts = append(roleImpacts, RoleImpact{
			RoleID:           rid,
			RoleName:         role.Name,
			Headcount:        role.Headcount,
			FreedCapacityPct: round2(freed),
			WorkloadsChanged: len(byRole[rid]),
		})

		for _, jt := range scope.TitlesForRole(rid) {
			factor := jt.Band.ImpactFactor()
			titleFreed := clampPct(freed * factor)
			titleImpacts = append(titleImpacts, TitleImpact{
				TitleID:             jt.ID,
				TitleName:           jt.Name,
				RoleID:              rid,
				Band:                jt.Band,
				Headcount:           jt.Headcount,
				AvgSalary:           jt.AvgSalary,
				FreedCapacityPct:    round2(titleFreed),
				TransformationIndex: round2(math.Min(freed*factor, 100)),
			})
		}

		// A role with no banded titles still carries its impact: synthesize a
		// whole-role title at neutral weighting so workforce and financial
		// steps see the full population.
		if len(scope.TitlesForRole(rid)) == 0 {
			titleImpacts = append(titleImpacts, TitleImpact{
				TitleID:             rid + "-all",
				TitleName:           role.Name,
				RoleID:              rid,
				Band:                org.BandSenior,
				Headcount:           role.Headcount,
				AvgSalary:           role.AvgSalary,
				FreedCapacityPct:    round2(freed),
				TransformationIndex: round2(freed),
			})
		}
	}
	return roleImpacts, titleImpacts
}

// recalculateWorkforce is step 5.
func (e *Engine) recalculateWorkforce(scope *org.ScopeData, titles []TitleImpact) WorkforceImpact {
	var freed float64
	for _, t := range titles {
		freed += t.Headcount * t.FreedCapacityPct / 100
	}
	current := scope.Summary.TotalHeadcount
	w := WorkforceImpact{
		CurrentHeadcount:      current,
		FreedHeadcount:        round2(freed),
		RedeployableHeadcount: round2(freed * e.cfg.Cascade.RedeployabilityPct / 100),
	}
	if current > 0 {
		w.ReductionPct = round2(freed / current * 100)
	}
	return w
}

func clampPct(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
