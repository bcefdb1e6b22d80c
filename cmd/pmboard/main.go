package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pmboard/internal/adapters/tui"
	"pmboard/internal/adapters/tui/views"
	"pmboard/internal/app"
	"pmboard/internal/config"
	"pmboard/internal/logging"
)

func main() {
	configFlag := flag.String("config", "", "path to the config file")
	baseURLFlag := flag.String("base-url", "", "automation backend address")
	offlineFlag := flag.Bool("offline", false, "show the cached snapshot without fetching")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *baseURLFlag != "" {
		cfg.BaseURL = *baseURLFlag
	}

	// The TUI owns the terminal, so logs go to a file or nowhere
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "pmboard")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logging.InitWriter(f, cfg.Debug)
	} else {
		logging.InitWriter(io.Discard, false)
	}

	a, err := app.New(cfg, app.Options{Offline: *offlineFlag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if _, err := a.Board.LoadCached(context.Background()); err != nil {
		logging.LogError(err, "load cached snapshot")
	}

	gate := views.NewGate()
	model := tui.NewApp(tui.Deps{
		Board:   a.Board,
		Session: a.NewEditSession(gate),
		Chat:    a.NewChatSession(),
		Gate:    gate,
		Forms:   views.Forms(cfg.Forms),
		Backend: a.Client.BaseURL(),
		Cache:   a.CachePath(),
		Fetch:   !*offlineFlag,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
