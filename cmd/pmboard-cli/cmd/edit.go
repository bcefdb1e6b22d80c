package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pmboard/internal/adapters/prompt"
)

var editCmd = &cobra.Command{
	Use:   "edit <project-name>",
	Short: "Edit a project's tasks and submit them",
	Long: `Open a draft of every task of a project in an interactive shell. Rows can
be changed, added and deleted; nothing reaches the backend until "submit"
is confirmed, which replaces all of the project's tasks with the draft.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadBoard(cmd.Context()); err != nil {
			return err
		}

		p := prompt.New(os.Stdin, os.Stdout)
		p.AssumeYes = assumeYes

		session := GetApp().NewEditSession(p)
		if err := session.Open(args[0]); err != nil {
			return err
		}
		if len(session.Draft()) == 0 {
			fmt.Printf("Project %q has no tasks yet; use \"add\" to create one.\n", args[0])
		}

		return prompt.NewShell(session, p, os.Stdout).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
