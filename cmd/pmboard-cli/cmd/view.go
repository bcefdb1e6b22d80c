package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"pmboard/internal/adapters/report"
	"pmboard/internal/application/commands"
)

var (
	expandAll     bool
	jsonOutput    bool
	projectFilter string
)

var timelineCmd = &cobra.Command{
	Use:     "timeline",
	Aliases: []string{"gantt"},
	Short:   "Show the project timeline",
	Long: `Show every project's date span and average progress. With --expand, each
task is listed under its project with its status.

Records missing a project, task name or a parseable start or due date are
left out and counted at the bottom.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadBoard(cmd.Context()); err != nil {
			return err
		}
		tl := GetApp().Board.Timeline()
		tl.ExpandAll(expandAll)

		if jsonOutput {
			return writeJSON(struct {
				Groups any `json:"groups"`
				Items  any `json:"items"`
			}{tl.Groups(), tl.Items()})
		}
		report.Timeline(os.Stdout, tl)
		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "List the project and member nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadBoard(cmd.Context()); err != nil {
			return err
		}
		g := GetApp().Board.Graph()
		if jsonOutput {
			return writeJSON(g)
		}
		report.Graph(os.Stdout, g)
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <project|member> <id>",
	Short: "Show the tasks of one graph node",
	Long: `Show the tasks linked to one node of the graph.

Examples:
  pmboard-cli select project P001
  pmboard-cli select member Ann`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadBoard(cmd.Context()); err != nil {
			return err
		}
		result, err := commands.NewSelectCommand(GetApp().Board, args[0], args[1]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(result.Selection)
		}
		report.Selection(os.Stdout, result.Selection)
		return nil
	},
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Dump the raw task records",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadBoard(cmd.Context()); err != nil {
			return err
		}
		records := GetApp().Board.Records()
		if projectFilter != "" {
			records = GetApp().Board.ProjectRecords(projectFilter)
		}
		if jsonOutput {
			return writeJSON(records)
		}
		report.Records(os.Stdout, records)
		return nil
	},
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	timelineCmd.Flags().BoolVarP(&expandAll, "expand", "e", false, "list tasks under each project")
	tableCmd.Flags().StringVarP(&projectFilter, "project", "p", "", "only show this project's records")

	for _, c := range []*cobra.Command{timelineCmd, graphCmd, selectCmd, tableCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
		rootCmd.AddCommand(c)
	}
}
