package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pmboard/internal/adapters/prompt"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to the project assistant",
	Long: `Start a conversation with the backend assistant. With a message argument
a single question is asked and answered; otherwise an interactive session
starts with the assistant's project summary. Type "exit" to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		chat := GetApp().NewChatSession()

		if len(args) > 0 {
			reply, err := chat.Send(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(reply)
			return nil
		}

		fmt.Printf("assistant: %s\n\n", chat.Greeting(ctx))

		p := prompt.New(os.Stdin, os.Stdout)
		for {
			line, err := p.ReadLine("you: ")
			if errors.Is(err, prompt.ErrNoInput) {
				return nil
			}
			if err != nil {
				return err
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				return nil
			}

			reply, err := chat.Send(ctx, line)
			if err != nil {
				fmt.Printf("Error: %v\n\n", err)
				continue
			}
			fmt.Printf("assistant: %s\n\n", reply)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
