package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pmboard/internal/application/commands"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Summarise the portfolio",
	Long: `Refresh the records and fetch the assistant's summary at the same time,
then print the totals and every overdue task.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		result, err := commands.NewOverviewCommand(a.Board, a.Client).Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		if result.Dropped > 0 {
			fmt.Printf("%d records could not be charted\n", result.Dropped)
		}
		if len(result.Overdue) > 0 {
			fmt.Println("\nOverdue:")
			for _, o := range result.Overdue {
				fmt.Printf("  %s\n", o)
			}
		}
		if result.Summary != "" {
			fmt.Printf("\n%s\n", result.Summary)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}
