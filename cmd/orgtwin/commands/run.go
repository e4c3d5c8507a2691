package commands

import (
	"fmt"
	"strconv"
	"strings"

	"orgtwin/internal/scenario"

	"github.com/spf13/cobra"
)

var runFlags struct {
	simType         string
	scopeType       string
	scopeName       string
	engine          string
	months          int
	factor          float64
	classifications []string
	technologies    []string
	speed           string
	target          []string // level=pct pairs
	maxSteps        int
	overrides       string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a one-shot simulation without persisting it",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := parseTarget(runFlags.target)
		if err != nil {
			return err
		}

		mgr, store, err := newManager()
		if err != nil {
			return err
		}
		defer store.Close()

		res := mgr.RunSimulation(scenario.SimulationRequest{
			SimulationType:  runFlags.simType,
			ScopeType:       runFlags.scopeType,
			ScopeName:       runFlags.scopeName,
			EngineVersion:   runFlags.engine,
			TimelineMonths:  runFlags.months,
			ConfigOverrides: runFlags.overrides,
			Parameters:      scenario.Parameters{
				AutomationFactor:   runFlags.factor,
				Classifications:    runFlags.classifications,
				Technologies:       runFlags.technologies,
				AdoptionSpeed:      runFlags.speed,
				DistributionTarget: target,
				MaxStepsPerTask:    runFlags.maxSteps,
			},
		})
		return printJSON(res)
	},
}

func parseTarget(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	target := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		level, pct, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid target %q, want level=pct", p)
		}
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid target percentage %q: %w", pct, err)
		}
		target[level] = v
	}
	return target, nil
}

func init() {
	runCmd.Flags().StringVar(&runFlags.simType, "type", "", "simulation type (role_redesign, tech_adoption, multi_tech_adoption, task_distribution)")
	runCmd.Flags().StringVar(&runFlags.scopeType, "scope-type", "organization", "scope type (organization, function, sub_function, job_family_group, job_family, role)")
	runCmd.Flags().StringVar(&runFlags.scopeName, "scope", "", "scope name")
	runCmd.Flags().StringVar(&runFlags.engine, "engine", "v1", "engine version (v1 single-shot, v2 trajectory)")
	runCmd.Flags().IntVar(&runFlags.months, "months", 0, "timeline months (0 uses config default)")
	runCmd.Flags().Float64Var(&runFlags.factor, "factor", 0.5, "automation aggressiveness for role_redesign, 0 to 1")
	runCmd.Flags().StringSliceVar(&runFlags.classifications, "classification", nil, "task classifications eligible for role_redesign")
	runCmd.Flags().StringSliceVar(&runFlags.technologies, "tech", nil, "technology name, repeatable")
	runCmd.Flags().StringVar(&runFlags.speed, "speed", "", "adoption speed override (fast, moderate, slow)")
	runCmd.Flags().StringSliceVar(&runFlags.target, "target", nil, "distribution target as level=pct, repeatable")
	runCmd.Flags().IntVar(&runFlags.maxSteps, "max-steps", 0, "max automation steps per task for task_distribution")
	runCmd.Flags().StringVar(&runFlags.overrides, "config-overrides", "", "simulation config YAML overlay applied to this run only")
	_ = runCmd.MarkFlagRequired("type")

	rootCmd.AddCommand(runCmd)
}
