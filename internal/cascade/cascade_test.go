package cascade

import (
	"math"
	"testing"

	"orgtwin/internal/config"
	"orgtwin/internal/org"
)

// singleRoleScope builds the canonical one-role fixture: 100 heads, one
// workload carrying one directive task at human_led.
func singleRoleScope() *org.ScopeData {
	s := org.NewScopeData("role", "AP Clerk")
	s.Roles["r1"] = &org.Role{ID: "r1", Name: "AP Clerk", Headcount: 100, AvgSalary: 60000}
	s.Workloads["w1"] = &org.Workload{ID: "w1", RoleID: "r1", Name: "Invoice processing", EffortPct: 100, Level: org.HumanLed, TaskIDs: []string{"t1"}}
	s.Tasks["t1"] = &org.Task{ID: "t1", WorkloadID: "w1", Name: "Enter invoice data", Classification: org.Directive, TimePct: 100, AutomationPotential: 80, Level: org.HumanLed}
	s.Recount()
	return s
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestRunSingleRole(t *testing.T) {
	scope := singleRoleScope()
	engine := NewEngine(config.DefaultSimulation())

	res, err := engine.Run(scope, []Reclassification{{TaskID: "t1", NewLevel: org.Shared}}, RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(res.TaskChanges) != 1 {
		t.Fatalf("got %d task changes, want 1", len(res.TaskChanges))
	}
	if got := res.TaskChanges[0].Delta; !almostEqual(got, 0.25) {
		t.Errorf("task delta = %v, want 0.25", got)
	}
	if scope.Tasks["t1"].Level != org.Shared {
		t.Errorf("arena task level = %v, want shared", scope.Tasks["t1"].Level)
	}

	if len(res.WorkloadChanges) != 1 {
		t.Fatalf("got %d workload changes, want 1", len(res.WorkloadChanges))
	}
	wc := res.WorkloadChanges[0]
	if !almostEqual(wc.OldScore, 15) || !almostEqual(wc.NewScore, 40) {
		t.Errorf("workload scores = %v -> %v, want 15 -> 40", wc.OldScore, wc.NewScore)
	}
	if wc.NewLevel != org.HumanLed {
		t.Errorf("workload bucket = %v, want human_led for score 40", wc.NewLevel)
	}

	if len(res.RoleImpacts) != 1 {
		t.Fatalf("got %d role impacts, want 1", len(res.RoleImpacts))
	}
	if got := res.RoleImpacts[0].FreedCapacityPct; got != 25.0 {
		t.Errorf("freed capacity = %v, want 25.0", got)
	}

	// No banded titles: the whole role carries the impact at neutral weight.
	if len(res.TitleImpacts) != 1 {
		t.Fatalf("got %d title impacts, want 1", len(res.TitleImpacts))
	}
	if got := res.TitleImpacts[0].FreedCapacityPct; got != 25.0 {
		t.Errorf("title freed capacity = %v, want 25.0", got)
	}

	if got := res.Workforce.FreedHeadcount; got != 25.0 {
		t.Errorf("freed headcount = %v, want 25.0", got)
	}
	if got := res.Workforce.ReductionPct; got != 25.0 {
		t.Errorf("reduction = %v, want 25.0", got)
	}
	if got := res.Workforce.RedeployableHeadcount; got != 15.0 {
		t.Errorf("redeployable = %v, want 15.0 at 60%%", got)
	}

	if !res.Validation.Valid {
		t.Errorf("validation failed: %v", res.Validation.Violations)
	}
}

func TestRunBandWeighting(t *testing.T) {
	scope := singleRoleScope()
	scope.JobTitles["jt1"] = &org.JobTitle{ID: "jt1", RoleID: "r1", Name: "AP Clerk I", Band: org.BandEntry, Headcount: 60, AvgSalary: 48000}
	scope.JobTitles["jt2"] = &org.JobTitle{ID: "jt2", RoleID: "r1", Name: "AP Lead", Band: org.BandLead, Headcount: 40, AvgSalary: 78000}
	scope.Recount()

	engine := NewEngine(config.DefaultSimulation())
	res, err := engine.Run(scope, []Reclassification{{TaskID: "t1", NewLevel: org.Shared}}, RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(res.TitleImpacts) != 2 {
		t.Fatalf("got %d title impacts, want 2", len(res.TitleImpacts))
	}
	// entry 25 * 1.4 = 35, lead 25 * 0.7 = 17.5
	if got := res.TitleImpacts[0].FreedCapacityPct; got != 35.0 {
		t.Errorf("entry title freed = %v, want 35.0", got)
	}
	if got := res.TitleImpacts[1].FreedCapacityPct; got != 17.5 {
		t.Errorf("lead title freed = %v, want 17.5", got)
	}
	// 60*0.35 + 40*0.175 = 21 + 7 = 28
	if got := res.Workforce.FreedHeadcount; got != 28.0 {
		t.Errorf("freed headcount = %v, want 28.0", got)
	}
}

func TestRunInputErrors(t *testing.T) {
	engine := NewEngine(config.DefaultSimulation())

	if _, err := engine.Run(singleRoleScope(), []Reclassification{{TaskID: "ghost", NewLevel: org.Shared}}, RunOptions{}); err == nil {
		t.Error("expected error for unknown task id")
	}
	if _, err := engine.Run(singleRoleScope(), []Reclassification{{TaskID: "t1", NewLevel: "autonomous"}}, RunOptions{}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestRunSkipsBackwardsMoves(t *testing.T) {
	scope := singleRoleScope()
	engine := NewEngine(config.DefaultSimulation())

	res, err := engine.Run(scope, []Reclassification{{TaskID: "t1", NewLevel: org.HumanOnly}}, RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(res.TaskChanges) != 0 {
		t.Errorf("backwards move produced %d changes, want 0", len(res.TaskChanges))
	}
	if scope.Tasks["t1"].Level != org.HumanLed {
		t.Errorf("task level moved backwards to %v", scope.Tasks["t1"].Level)
	}
	if res.Summary.FreedHeadcount != 0 || res.Summary.GrossSavings != 0 {
		t.Errorf("no-op run produced impact: %+v", res.Summary)
	}
	if !res.Validation.Valid {
		t.Errorf("no-op run failed validation: %v", res.Validation.Violations)
	}
}

func TestRunEmptyReclassifications(t *testing.T) {
	engine := NewEngine(config.DefaultSimulation())
	res, err := engine.Run(singleRoleScope(), nil, RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Summary.TasksAffected != 0 || res.Summary.ROIPct != 0 {
		t.Errorf("empty run not zero-impact: %+v", res.Summary)
	}
}

func TestRunMutationVisibleAcrossWorkloads(t *testing.T) {
	// Two workloads share nothing, but both resolve tasks through the same
	// arena. Reclassifying one task must not disturb the other workload's
	// score, and the untouched workload must contribute no freed capacity.
	scope := singleRoleScope()
	scope.Workloads["w1"].EffortPct = 50
	scope.Workloads["w2"] = &org.Workload{ID: "w2", RoleID: "r1", Name: "Reporting", EffortPct: 50, Level: org.HumanOnly, TaskIDs: []string{"t2"}}
	scope.Tasks["t2"] = &org.Task{ID: "t2", WorkloadID: "w2", Name: "Compile reports", Classification: org.Learning, TimePct: 100, AutomationPotential: 30, Level: org.HumanOnly}
	scope.Recount()

	engine := NewEngine(config.DefaultSimulation())
	res, err := engine.Run(scope, []Reclassification{{TaskID: "t1", NewLevel: org.Shared}}, RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(res.WorkloadChanges) != 1 {
		t.Fatalf("got %d workload changes, want 1", len(res.WorkloadChanges))
	}
	// 50% effort * 25 point delta = 12.5% freed.
	if got := res.RoleImpacts[0].FreedCapacityPct; got != 12.5 {
		t.Errorf("freed capacity = %v, want 12.5", got)
	}
	if scope.Tasks["t2"].Level != org.HumanOnly {
		t.Errorf("untouched task mutated to %v", scope.Tasks["t2"].Level)
	}
}

func TestRiskFlags(t *testing.T) {
	scope := singleRoleScope()
	engine := NewEngine(config.DefaultSimulation())
	res, err := engine.Run(scope, []Reclassification{{TaskID: "t1", NewLevel: org.AIOnly}}, RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// human_led -> ai_only frees 80% of capacity: both the per-role and the
	// workforce thresholds trip.
	codes := make(map[string]bool)
	for _, f := range res.Risks {
		codes[f.Code] = true
	}
	if !codes["high_role_automation"] {
		t.Error("missing high_role_automation flag")
	}
	if !codes["workforce_reduction"] {
		t.Error("missing workforce_reduction flag")
	}
	if codes["broad_change"] {
		t.Error("unexpected broad_change flag for a single task")
	}
}
