package simulation

import (
	"testing"

	"orgtwin/internal/cascade"
	"orgtwin/internal/config"
	"orgtwin/internal/org"
)

func trajectoryScope() *org.ScopeData {
	s := org.NewScopeData("role", "AP Clerk")
	s.Roles["r1"] = &org.Role{ID: "r1", Name: "AP Clerk", Headcount: 100, AvgSalary: 60000}
	s.Workloads["w1"] = &org.Workload{ID: "w1", RoleID: "r1", Name: "Invoice processing", EffortPct: 100, Level: org.HumanLed, TaskIDs: []string{"t1"}}
	s.Tasks["t1"] = &org.Task{ID: "t1", WorkloadID: "w1", Name: "Enter invoice data", Classification: org.Directive, TimePct: 100, AutomationPotential: 80, Level: org.HumanLed}
	s.Recount()
	return s
}

func TestRunTrajectoryShape(t *testing.T) {
	scope := trajectoryScope()
	engine := NewEngine(config.DefaultSimulation(), "moderate")

	traj, err := engine.Run(scope, []cascade.Reclassification{{TaskID: "t1", NewLevel: org.Shared}}, cascade.RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(traj.Snapshots) != 36 {
		t.Fatalf("got %d snapshots, want 36", len(traj.Snapshots))
	}
	for i, s := range traj.Snapshots {
		if s.Month != i+1 {
			t.Fatalf("snapshot %d has month %d, want contiguous months from 1", i, s.Month)
		}
		if s.AdoptionLevel < 0 || s.AdoptionLevel > 1 {
			t.Errorf("month %d: adoption %v outside [0,1]", s.Month, s.AdoptionLevel)
		}
		if i > 0 {
			prev := traj.Snapshots[i-1]
			if s.AdoptionLevel < prev.AdoptionLevel {
				t.Errorf("month %d: adoption decreased %v -> %v", s.Month, prev.AdoptionLevel, s.AdoptionLevel)
			}
			if s.CumulativeSavings < prev.CumulativeSavings {
				t.Errorf("month %d: cumulative savings decreased", s.Month)
			}
			if s.CumulativeCosts < prev.CumulativeCosts {
				t.Errorf("month %d: cumulative costs decreased", s.Month)
			}
		}
	}

	final := traj.FinalSnapshot()
	if final.EffectiveFreedHC > traj.TheoreticalMax.Workforce.FreedHeadcount {
		t.Errorf("realized freed headcount %v exceeds theoretical max %v",
			final.EffectiveFreedHC, traj.TheoreticalMax.Workforce.FreedHeadcount)
	}
}

func TestRunLeavesCallerScopeIntact(t *testing.T) {
	scope := trajectoryScope()
	engine := NewEngine(config.DefaultSimulation(), "fast")

	if _, err := engine.Run(scope, []cascade.Reclassification{{TaskID: "t1", NewLevel: org.AILed}}, cascade.RunOptions{}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if scope.Tasks["t1"].Level != org.HumanLed {
		t.Errorf("caller's task mutated to %v; the engine must run on a clone", scope.Tasks["t1"].Level)
	}
}

func TestAdoptionSpeedOrdering(t *testing.T) {
	run := func(speed string) float64 {
		engine := NewEngine(config.DefaultSimulation(), speed)
		traj, err := engine.Run(trajectoryScope(),
			[]cascade.Reclassification{{TaskID: "t1", NewLevel: org.Shared}}, cascade.RunOptions{})
		if err != nil {
			t.Fatalf("Run(%s) error: %v", speed, err)
		}
		return traj.Snapshots[11].AdoptionLevel // one year in
	}

	fast, moderate, slow := run("fast"), run("moderate"), run("slow")
	if !(fast > moderate && moderate > slow) {
		t.Errorf("adoption at month 12 not ordered: fast=%v moderate=%v slow=%v", fast, moderate, slow)
	}
}

func TestJCurveMultiplierRecovers(t *testing.T) {
	engine := NewEngine(config.DefaultSimulation(), "moderate")
	traj, err := engine.Run(trajectoryScope(),
		[]cascade.Reclassification{{TaskID: "t1", NewLevel: org.AIOnly}}, cascade.RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	first := traj.Snapshots[0]
	if first.JCurveMultiplier >= 1 {
		t.Errorf("month 1 multiplier = %v, want a dip below 1", first.JCurveMultiplier)
	}
	// Past the dip window the multiplier is back to 1.
	after := traj.Snapshots[6]
	if after.JCurveMultiplier != 1 {
		t.Errorf("month 7 multiplier = %v, want full recovery", after.JCurveMultiplier)
	}
	// The dip itself shrinks month over month.
	for m := 1; m < 6; m++ {
		if traj.Snapshots[m].JCurveMultiplier < traj.Snapshots[m-1].JCurveMultiplier {
			t.Errorf("month %d: J-curve multiplier fell %v -> %v", m+1,
				traj.Snapshots[m-1].JCurveMultiplier, traj.Snapshots[m].JCurveMultiplier)
		}
	}
}

func TestTrajectoryEmptyRun(t *testing.T) {
	engine := NewEngine(config.DefaultSimulation(), "moderate")
	traj, err := engine.Run(trajectoryScope(), nil, cascade.RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	final := traj.FinalSnapshot()
	if final.CumulativeSavings != 0 {
		t.Errorf("no-op trajectory accumulated savings %v", final.CumulativeSavings)
	}
	if traj.PaybackMonth() != 0 {
		t.Errorf("no-op trajectory reported payback month %d", traj.PaybackMonth())
	}
}

func TestBreakevenAndPayback(t *testing.T) {
	engine := NewEngine(config.DefaultSimulation(), "fast")
	traj, err := engine.Run(trajectoryScope(),
		[]cascade.Reclassification{{TaskID: "t1", NewLevel: org.AILed}}, cascade.RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	payback := traj.PaybackMonth()
	if payback == 0 {
		t.Fatal("expected payback inside a 36 month fast-adoption run")
	}
	breakeven := traj.BreakevenMonth()
	if breakeven == 0 || breakeven < payback-1 {
		t.Errorf("breakeven month %d inconsistent with payback %d", breakeven, payback)
	}
	// After breakeven the cumulative net must stay positive in this fixture:
	// costs taper while savings compound.
	for _, s := range traj.Snapshots[breakeven-1:] {
		if s.CumulativeNet <= 0 {
			t.Errorf("month %d: net dipped back to %v after breakeven", s.Month, s.CumulativeNet)
		}
	}
}
