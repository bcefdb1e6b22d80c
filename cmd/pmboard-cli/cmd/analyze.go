package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"pmboard/internal/application/commands"
)

var copyAnalysis bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <project-name>",
	Short: "Request the analysis of one project",
	Long: `Ask the backend for an advisory analysis of a project. The text is
printed as returned and nothing is changed.

Example:
  pmboard-cli analyze "Website redesign" --copy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewAnalyzeCommand(GetApp().Board, args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		fmt.Println()
		fmt.Println(result.Text)

		if copyAnalysis {
			if err := clipboard.WriteAll(result.Text); err != nil {
				return fmt.Errorf("failed to copy analysis: %w", err)
			}
			fmt.Println("\nCopied to clipboard")
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&copyAnalysis, "copy", false, "copy the analysis to the clipboard")
	rootCmd.AddCommand(analyzeCmd)
}
