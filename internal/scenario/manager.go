package scenario

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"orgtwin/internal/cascade"
	"orgtwin/internal/config"
	"orgtwin/internal/org"
	"orgtwin/internal/scope"
	"orgtwin/internal/simulation"
	"orgtwin/internal/strategy"
)

// Manager runs scenarios against a graph reader and persists outcomes.
// Construction wires every dependency explicitly; there is no process-wide
// engine or config state.
type Manager struct {
	reader scope.Reader
	store  *Store // optional; nil disables persistence
	cfg    config.SimulationConfig
}

func NewManager(reader scope.Reader, store *Store, cfg config.SimulationConfig) *Manager {
	return &Manager{reader: reader, store: store, cfg: cfg}
}

// Create validates and persists a new scenario definition, assigning its id.
func (m *Manager) Create(def Definition) (Definition, error) {
	if def.Name == "" {
		return def, fmt.Errorf("scenario name is required")
	}
	if err := validateType(def.SimulationType); err != nil {
		return def, err
	}
	if _, err := scope.ParseType(def.ScopeType); err != nil {
		return def, err
	}
	if def.EngineVersion == "" {
		def.EngineVersion = EngineV1
	}
	if def.EngineVersion != EngineV1 && def.EngineVersion != EngineV2 {
		return def, fmt.Errorf("unknown engine version %q", def.EngineVersion)
	}
	def.ID = uuid.NewString()
	def.CreatedAt = time.Now().UTC()
	if m.store != nil {
		if err := m.store.SaveDefinition(def); err != nil {
			return def, err
		}
	}
	return def, nil
}

// Run executes a stored scenario and persists its result.
func (m *Manager) Run(id string) (*RunResult, error) {
	if m.store == nil {
		return nil, fmt.Errorf("no scenario store configured")
	}
	def, err := m.store.GetDefinition(id)
	if err != nil {
		return nil, err
	}
	res := m.Execute(def)
	if err := m.store.SaveResult(id, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Execute runs a definition without persistence. Failures come back as a
// structured error result, never as a Go error, so one bad scenario cannot
// break a batch.
func (m *Manager) Execute(def Definition) *RunResult {
	res := &RunResult{
		ScenarioID:     def.ID,
		Name:           def.Name,
		SimulationType: def.SimulationType,
		EngineVersion:  def.EngineVersion,
		ScopeType:      def.ScopeType,
		ScopeName:      def.ScopeName,
		CompletedAt:    time.Now().UTC(),
	}

	if err := m.execute(def, res); err != nil {
		res.Error = err.Error()
		log.Warn().Err(err).Str("scenario", def.Name).Msg("Scenario run failed")
	}
	return res
}

func (m *Manager) execute(def Definition, res *RunResult) error {
	if err := validateType(def.SimulationType); err != nil {
		return err
	}

	cfg := m.cfg
	if def.TimelineMonths > 0 {
		cfg.Timeline.Months = def.TimelineMonths
	}

	scopeType, err := scope.ParseType(def.ScopeType)
	if err != nil {
		return err
	}
	selected, err := m.reader.Select(scopeType, def.ScopeName)
	if err != nil {
		return err
	}
	if selected.Summary.RoleCount == 0 {
		// A legitimate outcome, not a failure: zero impact, no cascade.
		res.Plan = &strategy.Plan{}
		return nil
	}

	// Each run works on its own deep copy; the reader's bundle stays clean
	// for the next scenario.
	working := selected.Clone()

	plan, distribution, err := m.plan(working, def, cfg)
	if err != nil {
		return err
	}
	res.Plan = plan
	res.Distribution = distribution

	if plan.TasksMatched == 0 {
		return nil // ran successfully with no effect; cascade stays nil
	}

	opts := cascade.RunOptions{Tech: plan.Tech}

	switch def.EngineVersion {
	case EngineV2:
		speed := def.Parameters.AdoptionSpeed
		if speed == "" {
			speed = plan.AdoptionSpeed
		}
		engine := simulation.NewEngine(cfg, speed)
		traj, err := engine.Run(working, plan.Reclassifications, opts)
		if err != nil {
			return err
		}
		res.Trajectory = traj
		res.Cascade = traj.TheoreticalMax
	default:
		engine := cascade.NewEngine(cfg)
		out, err := engine.Run(working, plan.Reclassifications, opts)
		if err != nil {
			return err
		}
		res.Cascade = out
	}

	if plan.SavingsDiscount > 0 && plan.SavingsDiscount < 1 {
		discountSavings(res.Cascade, plan.SavingsDiscount)
	}

	// The skills view always runs on the finished cascade.
	res.Skills = strategy.NewSkillsStrategy(cfg).Analyze(working, res.Cascade)

	res.ConstraintLog = applyConstraints(res, mergeProtectedRoles(def.Constraints, cfg.Profile.ProtectedRoles))
	return nil
}

// mergeProtectedRoles folds the config-level protected roles into the
// scenario's constraints. Either source alone shields a role.
func mergeProtectedRoles(c *Constraints, profileRoles []string) *Constraints {
	if len(profileRoles) == 0 {
		return c
	}
	merged := Constraints{}
	if c != nil {
		merged = *c
	}
	merged.ProtectedRoles = append(append([]string(nil), merged.ProtectedRoles...), profileRoles...)
	return &merged
}

// plan dispatches to the strategy for the scenario's simulation type.
func (m *Manager) plan(working *org.ScopeData, def Definition, cfg config.SimulationConfig) (*strategy.Plan, *strategy.DistributionPlan, error) {
	p := def.Parameters
	switch def.SimulationType {
	case TypeRoleRedesign:
		var classes []org.Classification
		for _, c := range p.Classifications {
			parsed, err := org.ParseClassification(c)
			if err != nil {
				return nil, nil, err
			}
			classes = append(classes, parsed)
		}
		plan, err := strategy.RoleRedesign{
			Classifications:  classes,
			AutomationFactor: p.AutomationFactor,
		}.Plan(working)
		return plan, nil, err

	case TypeTechAdoption, TypeMultiTech:
		if def.SimulationType == TypeTechAdoption && len(p.Technologies) != 1 {
			return nil, nil, fmt.Errorf("tech_adoption takes exactly one technology, got %d", len(p.Technologies))
		}
		if len(p.Technologies) == 0 {
			return nil, nil, fmt.Errorf("no technologies named")
		}
		fin := cascade.NewFinancial(cfg)
		plan, err := strategy.TechAdoption{Technologies: p.Technologies}.
			Plan(working, fin, cfg.Timeline.Months)
		return plan, nil, err

	case TypeTaskDistribution:
		target := make(strategy.DistributionTarget, len(p.DistributionTarget))
		for lvl, pct := range p.DistributionTarget {
			parsed, err := org.ParseAutomationLevel(lvl)
			if err != nil {
				return nil, nil, err
			}
			target[parsed] = pct
		}
		dist, err := strategy.Distributor{
			Target:          target,
			MaxStepsPerTask: p.MaxStepsPerTask,
		}.Plan(working)
		if err != nil {
			return nil, nil, err
		}
		return &dist.Plan, dist, nil
	}
	return nil, nil, fmt.Errorf("unknown simulation type %q", def.SimulationType)
}

// RunBatch executes several stored scenarios in parallel. Each run selects
// and clones its own scope, so the only shared resource is the read-only
// graph. Individual failures surface inside their results.
func (m *Manager) RunBatch(ids []string) ([]*RunResult, error) {
	results := make([]*RunResult, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			res, err := m.Run(id)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					results[i] = &RunResult{ScenarioID: id, Error: err.Error()}
					return nil
				}
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SimulationRequest is the language-neutral invocation contract.
type SimulationRequest struct {
	SimulationType  string     `json:"simulation_type"`
	ScopeType       string     `json:"scope_type"`
	ScopeName       string     `json:"scope_name"`
	Parameters      Parameters `json:"parameters"`
	EngineVersion   string     `json:"engine_version"`
	TimelineMonths  int        `json:"timeline_months"`
	ConfigOverrides string     `json:"config_overrides,omitempty"` // YAML overlay path, scoped to this run
}

// RunSimulation executes a one-shot, unpersisted simulation per the
// invocation contract. Config overrides apply to this run only; the
// manager's own config is untouched.
func (m *Manager) RunSimulation(req SimulationRequest) *RunResult {
	engine := req.EngineVersion
	if engine == "" {
		engine = EngineV1
	}
	run := m
	if req.ConfigOverrides != "" {
		cfg, err := config.LoadSimulation(req.ConfigOverrides)
		if err != nil {
			return &RunResult{
				Name:           "adhoc",
				SimulationType: req.SimulationType,
				EngineVersion:  engine,
				ScopeType:      req.ScopeType,
				ScopeName:      req.ScopeName,
				CompletedAt:    time.Now().UTC(),
				Error:          err.Error(),
			}
		}
		clone := *m
		clone.cfg = cfg
		run = &clone
	}
	return run.Execute(Definition{
		Name:           "adhoc",
		SimulationType: req.SimulationType,
		ScopeType:      req.ScopeType,
		ScopeName:      req.ScopeName,
		EngineVersion:  engine,
		TimelineMonths: req.TimelineMonths,
		Parameters:     req.Parameters,
	})
}

func validateType(t string) error {
	switch t {
	case TypeRoleRedesign, TypeTechAdoption, TypeMultiTech, TypeTaskDistribution:
		return nil
	}
	return fmt.Errorf("unknown simulation type %q", t)
}

// discountSavings applies the adoption-curve discount to a cascade's
// financials, preserving the net/ROI/payback identities.
func discountSavings(res *cascade.Result, discount float64) {
	f := &res.Financial
	f.GrossSavings *= discount
	f.ChangeManagementCost *= discount
	f.TotalCost = f.TechnologyCost + f.ReskillingCost + f.ChangeManagementCost + f.SeveranceCost + f.JCurveCost
	recomputeDerived(f)
	res.Summary.GrossSavings = f.GrossSavings
	res.Summary.NetImpact = f.NetImpact
	res.Summary.ROIPct = f.ROIPct
}

// recomputeDerived refreshes net impact, ROI and payback after any scaling
// of a projection's components.
func recomputeDerived(f *cascade.FinancialProjection) {
	f.NetImpact = f.GrossSavings - f.TotalCost
	switch {
	case f.TotalCost > 0:
		f.ROIPct = f.NetImpact / f.TotalCost * 100
	case f.GrossSavings > 0:
		f.ROIPct = cascade.ROISentinel
	default:
		f.ROIPct = 0
	}
	f.PaybackMonths = 0
	if f.GrossSavings > 0 && f.TimelineMonths > 0 {
		monthly := f.GrossSavings / float64(f.TimelineMonths)
		f.PaybackMonths = int(math.Floor(f.TotalCost / monthly))
	}
}
