package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"pmboard/internal/domain"
	"pmboard/internal/ports"
)

type staticGraph struct {
	records []domain.TaskRecord
}

func (s staticGraph) Graph() *domain.Graph {
	return domain.BuildGraph(s.records)
}

func (s staticGraph) Timeline() *domain.Timeline {
	return domain.BuildTimeline(s.records, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
}

type refreshingBoard struct {
	staticGraph
	err       error
	refreshed bool
}

func (b *refreshingBoard) Refresh(ctx context.Context) error {
	b.refreshed = true
	return b.err
}

type stubRelay struct {
	summary string
	err     error
}

func (s stubRelay) Send(ctx context.Context, req ports.ChatRequest) (string, error) {
	return "", nil
}

func (s stubRelay) Summary(ctx context.Context) (string, error) {
	return s.summary, s.err
}

type stubAnalyst struct {
	err error
}

func (s stubAnalyst) Analyze(ctx context.Context, projectName string) (string, error) {
	return "looks fine: " + projectName, s.err
}

var records = []domain.TaskRecord{
	{ProjectID: "P1", ProjectName: "Alpha", Member: "M1", TaskName: "T1", StartDate: "2024-06-01", DueDate: "2024-06-10", Progress: "10"},
	{ProjectID: "P1", ProjectName: "Alpha", Member: "M1", TaskName: "T2", StartDate: "2024-06-01", DueDate: "2024-07-10", Progress: "10"},
	{ProjectID: "P1", ProjectName: "Alpha", Member: "M2", TaskName: "T3", StartDate: "2024-06-01", DueDate: "2024-06-01", Progress: "100"},
}

func TestSelectCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		wantErr bool
		errMsg  string
	}{
		{name: "project", kind: "project"},
		{name: "member uppercase", kind: "Member"},
		{name: "empty kind", kind: "", wantErr: true, errMsg: "node kind is required"},
		{name: "unknown kind", kind: "team", wantErr: true, errMsg: "expected project or member"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSelectCommand(staticGraph{}, tt.kind, "x").Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSelectCommand_Execute(t *testing.T) {
	result, err := NewSelectCommand(staticGraph{records}, "project", "P1").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := result.Selection.TaskMap()
	if len(m["M1"]) != 2 || len(m["M2"]) != 1 {
		t.Errorf("unexpected aggregation %v", m)
	}
	if len(result.Star.Nodes) != 3 {
		t.Errorf("expected star of P1 with two members, got %d nodes", len(result.Star.Nodes))
	}
	if !contains(result.Message, "3 tasks across 2 groups") {
		t.Errorf("unexpected message %q", result.Message)
	}

	empty, err := NewSelectCommand(staticGraph{records}, "member", "nobody").Execute(context.Background())
	if err != nil {
		t.Fatalf("expected unknown node to succeed, got %v", err)
	}
	if !empty.Selection.Empty() || !contains(empty.Message, "No tasks found") {
		t.Errorf("expected empty selection, got %+v", empty)
	}
}

func TestAnalyzeCommand(t *testing.T) {
	result, err := NewAnalyzeCommand(stubAnalyst{}, "Alpha").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "looks fine: Alpha" {
		t.Errorf("unexpected text %q", result.Text)
	}

	if _, err := NewAnalyzeCommand(stubAnalyst{}, " ").Execute(context.Background()); err == nil {
		t.Error("expected validation error")
	}

	boom := errors.New("boom")
	if _, err := NewAnalyzeCommand(stubAnalyst{err: boom}, "Alpha").Execute(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected analyst error, got %v", err)
	}
}

func TestOverviewCommand(t *testing.T) {
	board := &refreshingBoard{staticGraph: staticGraph{records}}
	result, err := NewOverviewCommand(board, stubRelay{summary: "all good"}).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !board.refreshed {
		t.Error("expected board refreshed")
	}
	if result.Projects != 1 || result.Tasks != 3 || result.Members != 2 {
		t.Errorf("unexpected counts %+v", result)
	}
	// T1 is past due and unfinished; T3 is past due but complete
	if len(result.Overdue) != 1 || !contains(result.Overdue[0], "T1") {
		t.Errorf("expected only T1 overdue, got %v", result.Overdue)
	}
	if result.Summary != "all good" {
		t.Errorf("unexpected summary %q", result.Summary)
	}
}

func TestOverviewCommand_Failures(t *testing.T) {
	boom := errors.New("boom")

	noSummary, err := NewOverviewCommand(&refreshingBoard{staticGraph: staticGraph{records}}, stubRelay{err: boom}).Execute(context.Background())
	if err != nil {
		t.Fatalf("expected summary failure to be tolerated, got %v", err)
	}
	if noSummary.Summary != "" {
		t.Errorf("expected empty summary, got %q", noSummary.Summary)
	}

	if _, err := NewOverviewCommand(&refreshingBoard{err: boom}, nil).Execute(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected refresh error, got %v", err)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && len(substr) > 0 && findSubstring(s, substr)))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
