package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pmboard/internal/application/commands"
)

// RegisterOpsTools adds the tools that call the backend. Draft editing is
// not exposed: submitting and deleting need a human at the confirmation prompt.
func RegisterOpsTools(s *server.MCPServer, board Board) {
	s.AddTool(analyzeTool(), analyzeHandler(board))
	s.AddTool(refreshTool(), refreshHandler(board))
}

// --- analyze ---

func analyzeTool() mcp.Tool {
	return mcp.NewTool("analyze",
		mcp.WithDescription("Request the advisory analysis of one project from the backend. The text is informational and changes nothing."),
		mcp.WithString("project",
			mcp.Description("Project name as shown in the timeline"),
			mcp.Required(),
		),
	)
}

func analyzeHandler(board Board) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project := req.GetString("project", "")

		result, err := commands.NewAnalyzeCommand(board, project).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if result.Text == "" {
			return mcp.NewToolResultText(fmt.Sprintf("%s: no analysis returned.", result.Message)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", result.Message, result.Text)), nil
	}
}

// --- refresh ---

func refreshTool() mcp.Tool {
	return mcp.NewTool("refresh",
		mcp.WithDescription("Re-fetch every task record from the backend. On failure the previous records stay in place."),
	)
}

func refreshHandler(board Board) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := board.Refresh(ctx); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Fetched %d records.", len(board.Records()))), nil
	}
}
