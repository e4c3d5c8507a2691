package commands

import (
	"fmt"

	"orgtwin/internal/graph"

	"github.com/spf13/cobra"
)

var seedFlags struct {
	org   string
	roles int
	seed  int64
	out   string
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a deterministic demo org snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := graph.Seed(graph.SeedConfig{
			Organization:   seedFlags.org,
			RolesPerFamily: seedFlags.roles,
			Seed:           seedFlags.seed,
		})
		out := seedFlags.out
		if out == "" {
			out = cfg.SnapshotPath
		}
		if err := snap.Save(out); err != nil {
			return err
		}
		fmt.Printf("wrote %d roles, %d tasks to %s\n", len(snap.Roles), len(snap.Tasks), out)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFlags.org, "org", "Acme Corp", "organization name")
	seedCmd.Flags().IntVar(&seedFlags.roles, "roles", 2, "roles per job family")
	seedCmd.Flags().Int64Var(&seedFlags.seed, "seed", 42, "random seed")
	seedCmd.Flags().StringVar(&seedFlags.out, "out", "", "output path (defaults to the configured snapshot path)")

	rootCmd.AddCommand(seedCmd)
}
