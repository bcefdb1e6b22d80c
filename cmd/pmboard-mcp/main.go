package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "pmboard/internal/adapters/mcp"
	"pmboard/internal/app"
	"pmboard/internal/config"
	"pmboard/internal/logging"
)

func main() {
	configFlag := flag.String("config", "", "path to the config file")
	baseURLFlag := flag.String("base-url", "", "automation backend address")
	offlineFlag := flag.Bool("offline", false, "serve the cached snapshot without fetching")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("pmboard-mcp: %v", err)
	}
	if *baseURLFlag != "" {
		cfg.BaseURL = *baseURLFlag
	}

	// stdout carries the protocol
	logging.InitWriter(os.Stderr, cfg.Debug)

	a, err := app.New(cfg, app.Options{Offline: *offlineFlag})
	if err != nil {
		log.Fatalf("pmboard-mcp: %v", err)
	}
	defer a.Close()

	if err := a.Prime(context.Background()); err != nil {
		logging.LogError(err, "initial fetch")
	}

	mcpServer := server.NewMCPServer(
		"pmboard-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, a.Board)
	mcpadapter.RegisterOpsTools(mcpServer, a.Board)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("pmboard-mcp: %v", err)
	}
}
