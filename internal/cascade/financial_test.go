package cascade

import (
	"math"
	"testing"

	"orgtwin/internal/config"
	"orgtwin/internal/org"
)

func TestProjectIdentities(t *testing.T) {
	fin := NewFinancial(config.DefaultSimulation())
	titles := []TitleImpact{
		{TitleID: "jt1", Band: org.BandEntry, Headcount: 60, AvgSalary: 48000, FreedCapacityPct: 35},
		{TitleID: "jt2", Band: org.BandLead, Headcount: 40, AvgSalary: 78000, FreedCapacityPct: 17.5},
	}

	p := fin.Project(titles, 36, ProjectionOptions{
		Tech:           &TechCosts{Licensing: 100000, Implementation: 35000},
		ReskillingCost: 96000,
	})

	sum := p.TechnologyCost + p.ReskillingCost + p.ChangeManagementCost + p.SeveranceCost + p.JCurveCost
	if math.Abs(p.TotalCost-sum) > 1e-6 {
		t.Errorf("total cost %v != component sum %v", p.TotalCost, sum)
	}
	if math.Abs(p.NetImpact-(p.GrossSavings-p.TotalCost)) > 1e-6 {
		t.Errorf("net impact %v != gross %v - cost %v", p.NetImpact, p.GrossSavings, p.TotalCost)
	}
	wantROI := p.NetImpact / p.TotalCost * 100
	if math.Abs(p.ROIPct-wantROI) > 1e-6 {
		t.Errorf("ROI = %v, want %v", p.ROIPct, wantROI)
	}
	if p.TechnologyCost != 135000 {
		t.Errorf("technology cost = %v, want pass-through 135000", p.TechnologyCost)
	}
}

func TestProjectSingleTitle(t *testing.T) {
	fin := NewFinancial(config.DefaultSimulation())
	titles := []TitleImpact{
		{TitleID: "r1-all", Band: org.BandSenior, Headcount: 100, AvgSalary: 60000, FreedCapacityPct: 25},
	}

	p := fin.Project(titles, 36, ProjectionOptions{ReskillingCost: 96000})

	// 60000 * 100 * 0.25 * 3y
	if p.GrossSavings != 4500000 {
		t.Errorf("gross savings = %v, want 4500000", p.GrossSavings)
	}
	if p.TotalFreedHeadcount != 25 {
		t.Errorf("freed headcount = %v, want 25", p.TotalFreedHeadcount)
	}
	// 8% of gross
	if p.ChangeManagementCost != 360000 {
		t.Errorf("change management = %v, want 360000", p.ChangeManagementCost)
	}
	// 40% of 25 freed heads * 60000 * 6/12
	if p.SeveranceCost != 300000 {
		t.Errorf("severance = %v, want 300000", p.SeveranceCost)
	}
	// 100 heads * 60000 * 5% dip * 6/12
	if p.JCurveCost != 150000 {
		t.Errorf("J-curve cost = %v, want 150000", p.JCurveCost)
	}
	// floor(906000 / 125000)
	if p.PaybackMonths != 7 {
		t.Errorf("payback = %v months, want 7", p.PaybackMonths)
	}
}

func TestProjectROISentinel(t *testing.T) {
	cfg := config.DefaultSimulation()
	cfg.Financial.ChangeManagementPct = 0
	cfg.Financial.JCurveEnabled = false
	cfg.Cascade.RedeployabilityPct = 100
	fin := NewFinancial(cfg)

	titles := []TitleImpact{
		{TitleID: "jt1", Headcount: 10, AvgSalary: 50000, FreedCapacityPct: 20},
	}
	p := fin.Project(titles, 12, ProjectionOptions{})

	if p.TotalCost != 0 {
		t.Fatalf("expected zero cost, got %v", p.TotalCost)
	}
	if p.ROIPct != ROISentinel {
		t.Errorf("ROI = %v, want sentinel %v", p.ROIPct, ROISentinel)
	}
	if p.PaybackMonths != 0 {
		t.Errorf("payback = %v, want 0 with zero cost", p.PaybackMonths)
	}
}

func TestProjectEmpty(t *testing.T) {
	fin := NewFinancial(config.DefaultSimulation())
	p := fin.Project(nil, 36, ProjectionOptions{})
	if p.GrossSavings != 0 || p.TotalCost != 0 || p.ROIPct != 0 {
		t.Errorf("empty projection not zero: %+v", p)
	}
}

func TestProjectRedeployabilityOverride(t *testing.T) {
	fin := NewFinancial(config.DefaultSimulation())
	titles := []TitleImpact{
		{TitleID: "jt1", Headcount: 100, AvgSalary: 60000, FreedCapacityPct: 25},
	}

	full := 100.0
	p := fin.Project(titles, 36, ProjectionOptions{Redeployability: &full})
	if p.SeveranceCost != 0 {
		t.Errorf("severance = %v, want 0 at full redeployability", p.SeveranceCost)
	}

	none := 0.0
	p = fin.Project(titles, 36, ProjectionOptions{Redeployability: &none})
	// all 25 freed heads * 60000 * 6/12
	if p.SeveranceCost != 750000 {
		t.Errorf("severance = %v, want 750000 at zero redeployability", p.SeveranceCost)
	}
}

func TestTechnologyCost(t *testing.T) {
	fin := NewFinancial(config.DefaultSimulation())
	tc := fin.TechnologyCost(50, 12, 100)
	if tc.Licensing != 60000 {
		t.Errorf("licensing = %v, want 60000", tc.Licensing)
	}
	if tc.Implementation != 21000 {
		t.Errorf("implementation = %v, want 21000 at 35%%", tc.Implementation)
	}

	// Zero rate falls back to the configured default.
	tc = fin.TechnologyCost(10, 12, 0)
	if tc.Licensing != 85*10*12 {
		t.Errorf("licensing = %v, want default rate", tc.Licensing)
	}
}

func TestReskillingCost(t *testing.T) {
	fin := NewFinancial(config.DefaultSimulation())
	// 1200 per skill * 2 skills * 40% of 100 heads
	if got := fin.ReskillingCost(2, 100); got != 96000 {
		t.Errorf("reskilling = %v, want 96000", got)
	}
	if got := fin.ReskillingCost(0, 100); got != 0 {
		t.Errorf("reskilling = %v, want 0 for no gaps", got)
	}
}
