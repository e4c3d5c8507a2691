package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"orgtwin/internal/config"
	"orgtwin/internal/graph"
	"orgtwin/internal/logging"
	"orgtwin/internal/scenario"
	"orgtwin/internal/scope"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose    bool
	simCfgPath string

	cfg    *config.AppConfig
	simCfg config.SimulationConfig
)

var rootCmd = &cobra.Command{
	Use:   "orgtwin",
	Short: "Orgtwin is an organizational digital-twin simulator",
	Long: `A workforce simulation engine that models how task automation cascades through
an organization's roles, skills, finances and people over time.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := logging.Init(verbose); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		simCfg = config.DefaultSimulation()
		if simCfgPath != "" {
			simCfg, err = config.LoadSimulation(simCfgPath)
			if err != nil {
				log.Fatal().Err(err).Str("path", simCfgPath).Msg("Failed to load simulation config")
			}
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Orgtwin starting")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&simCfgPath, "sim-config", "", "path to a simulation config YAML overlay")
}

// newManager wires the graph snapshot, scenario store and simulation config
// into a manager. Callers must close the returned store.
func newManager() (*scenario.Manager, *scenario.Store, error) {
	snap, err := graph.Load(cfg.SnapshotPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading org snapshot: %w", err)
	}
	store, err := scenario.OpenStore(cfg.ScenarioDB)
	if err != nil {
		return nil, nil, fmt.Errorf("opening scenario store: %w", err)
	}
	return scenario.NewManager(scope.NewSelector(snap), store, simCfg), store, nil
}

func unmarshalStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
