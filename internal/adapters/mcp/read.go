package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pmboard/internal/adapters/report"
	"pmboard/internal/application/commands"
	"pmboard/internal/domain"
)

// Board is what the MCP tools read from and act on
type Board interface {
	Records() []domain.TaskRecord
	Timeline() *domain.Timeline
	Graph() *domain.Graph
	Refresh(ctx context.Context) error
	Analyze(ctx context.Context, projectName string) (string, error)
}

// RegisterReadTools adds all read-only board tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, board Board) {
	s.AddTool(timelineTool(), timelineHandler(board))
	s.AddTool(graphTool(), graphHandler(board))
	s.AddTool(selectTool(), selectHandler(board))
	s.AddTool(recordsTool(), recordsHandler(board))
}

// --- timeline ---

func timelineTool() mcp.Tool {
	return mcp.NewTool("timeline",
		mcp.WithDescription("Show the project timeline: each project's date span and average progress. With expand, also list every task with its status (on-track, complete, overdue)."),
		mcp.WithBoolean("expand",
			mcp.Description("List the tasks under each project"),
		),
	)
}

func timelineHandler(board Board) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tl := board.Timeline()
		tl.ExpandAll(req.GetBool("expand", false))

		var sb strings.Builder
		report.Timeline(&sb, tl)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- graph ---

func graphTool() mcp.Tool {
	return mcp.NewTool("graph",
		mcp.WithDescription("List the project and member nodes of the relationship graph with the number of tasks linking them."),
	)
}

func graphHandler(board Board) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var sb strings.Builder
		report.Graph(&sb, board.Graph())
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- select ---

func selectTool() mcp.Tool {
	return mcp.NewTool("select",
		mcp.WithDescription("Show the tasks of one graph node. A project lists its tasks grouped by member; a member lists their tasks grouped by project."),
		mcp.WithString("kind",
			mcp.Description("Node kind: project or member"),
			mcp.Required(),
		),
		mcp.WithString("id",
			mcp.Description("Project ID (e.g. P001) or member name"),
			mcp.Required(),
		),
	)
}

func selectHandler(board Board) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind := req.GetString("kind", "")
		id := req.GetString("id", "")

		cmd := commands.NewSelectCommand(board, kind, id)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		report.Selection(&sb, result.Selection)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- records ---

func recordsTool() mcp.Tool {
	return mcp.NewTool("records",
		mcp.WithDescription("Dump the raw task records as a table, optionally limited to one project name."),
		mcp.WithString("project",
			mcp.Description("Project name to filter by. Omit to list every record."),
		),
	)
}

func recordsHandler(board Board) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project := req.GetString("project", "")

		records := board.Records()
		if project != "" {
			records = filterProject(records, project)
		}
		if len(records) == 0 {
			return mcp.NewToolResultText("No records found."), nil
		}

		var sb strings.Builder
		report.Records(&sb, records)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func filterProject(records []domain.TaskRecord, project string) []domain.TaskRecord {
	var out []domain.TaskRecord
	for _, rec := range records {
		if rec.ProjectName == project {
			out = append(out, rec)
		}
	}
	return out
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
