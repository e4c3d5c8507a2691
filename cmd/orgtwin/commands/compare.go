package commands

import (
	"fmt"
	"os"

	"orgtwin/internal/scenario"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var compareJSON bool

var compareCmd = &cobra.Command{
	Use:   "compare <id>...",
	Short: "Compare the results of two or more scenarios",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := newManager()
		if err != nil {
			return err
		}
		defer store.Close()

		results := make([]*scenario.RunResult, 0, len(args))
		for _, id := range args {
			res, err := store.LoadResult(id)
			if err != nil {
				return fmt.Errorf("loading result for %s: %w", id, err)
			}
			results = append(results, res)
		}

		cmp := scenario.Compare(results)
		if compareJSON {
			return printJSON(cmp)
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"Scenario", "Type", "Freed HC", "Net Impact", "ROI %", "High Risks", "Status"})
		for _, r := range cmp.Results {
			if r.Failed() {
				tw.AppendRow(table.Row{r.Name, r.SimulationType, "-", "-", "-", "-", "failed"})
				continue
			}
			if r.Cascade == nil {
				tw.AppendRow(table.Row{r.Name, r.SimulationType, 0.0, 0.0, 0.0, 0, "no impact"})
				continue
			}
			s := r.Cascade.Summary
			tw.AppendRow(table.Row{r.Name, r.SimulationType,
				fmt.Sprintf("%.1f", s.FreedHeadcount),
				fmt.Sprintf("%.0f", s.NetImpact),
				fmt.Sprintf("%.1f", s.ROIPct),
				r.HighRiskCount(), "ok"})
		}
		tw.Render()
		fmt.Println(cmp.Summary)
		return nil
	},
}

func init() {
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "emit the comparison as JSON")
	rootCmd.AddCommand(compareCmd)
}
