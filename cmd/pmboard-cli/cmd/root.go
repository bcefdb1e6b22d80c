package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pmboard/internal/app"
	"pmboard/internal/config"
	"pmboard/internal/logging"
)

var (
	configPath string
	baseURL    string
	offline    bool
	noCache    bool
	assumeYes  bool
	debug      bool

	cfg   *config.Config
	board *app.App
)

var rootCmd = &cobra.Command{
	Use:   "pmboard-cli",
	Short: "CLI for the project-management board",
	Long: `pmboard-cli reads task records from the automation backend and shows
them as a project timeline, a project/member graph or a raw table.

It can also request project analyses, chat with the assistant and edit a
project's task list before submitting it back.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		if debug {
			cfg.Debug = true
		}
		logging.InitWriter(os.Stderr, cfg.Debug)

		board, err = app.New(cfg, app.Options{Offline: offline, NoCache: noCache})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if board != nil {
			return board.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (default "+config.FilePath()+")")
	flags.StringVar(&baseURL, "base-url", "", "automation backend address")
	flags.BoolVar(&offline, "offline", false, "use the cached snapshot without fetching")
	flags.BoolVar(&noCache, "no-cache", false, "do not read or write the snapshot cache")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every confirmation")
	flags.BoolVar(&debug, "debug", false, "write debug logs to stderr")
}

// GetApp returns the wired application
func GetApp() *app.App {
	return board
}

// loadBoard fetches records (or reads the cache offline) before a command
// that displays them
func loadBoard(ctx context.Context) error {
	return GetApp().Prime(ctx)
}
