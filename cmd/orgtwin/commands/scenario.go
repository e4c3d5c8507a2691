package commands

import (
	"fmt"
	"os"

	"orgtwin/internal/scenario"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Create, run and inspect saved scenarios",
}

var createFlags struct {
	file string
	name string
}

var scenarioCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a scenario from a JSON definition file",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(createFlags.file)
		if err != nil {
			return err
		}
		var def scenario.Definition
		if err := unmarshalStrict(raw, &def); err != nil {
			return fmt.Errorf("parsing %s: %w", createFlags.file, err)
		}
		if createFlags.name != "" {
			def.Name = createFlags.name
		}

		mgr, store, err := newManager()
		if err != nil {
			return err
		}
		defer store.Close()

		created, err := mgr.Create(def)
		if err != nil {
			return err
		}
		return printJSON(created)
	},
}

var scenarioRunCmd = &cobra.Command{
	Use:   "run <id>...",
	Short: "Run one or more saved scenarios",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, store, err := newManager()
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 1 {
			res, err := mgr.Run(args[0])
			if err != nil {
				return err
			}
			return printJSON(res)
		}
		results, err := mgr.RunBatch(args)
		if err != nil {
			return err
		}
		return printJSON(results)
	},
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := newManager()
		if err != nil {
			return err
		}
		defer store.Close()

		summaries, err := store.List()
		if err != nil {
			return err
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"ID", "Name", "Type", "Scope", "Created", "Result"})
		for _, s := range summaries {
			result := "-"
			if s.HasResult {
				result = "yes"
			}
			tw.AppendRow(table.Row{s.ID, s.Name, s.SimulationType, s.ScopeName,
				s.CreatedAt.Format("2006-01-02 15:04"), result})
		}
		tw.Render()
		return nil
	},
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a scenario's latest result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := newManager()
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := store.LoadResult(args[0])
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var scenarioDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a scenario and its results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := newManager()
		if err != nil {
			return err
		}
		defer store.Close()

		deleted, err := store.Delete(args[0])
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Printf("scenario %s not found\n", args[0])
			return nil
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

func init() {
	scenarioCreateCmd.Flags().StringVarP(&createFlags.file, "file", "f", "", "path to the scenario definition JSON")
	scenarioCreateCmd.Flags().StringVar(&createFlags.name, "name", "", "override the scenario name")
	_ = scenarioCreateCmd.MarkFlagRequired("file")

	scenarioCmd.AddCommand(scenarioCreateCmd, scenarioRunCmd, scenarioListCmd, scenarioShowCmd, scenarioDeleteCmd)
	rootCmd.AddCommand(scenarioCmd)
}
