package domain

import (
	"testing"
	"time"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func task(projectID, project, name, progress, start, due string) TaskRecord {
	return TaskRecord{
		ProjectID:   projectID,
		ProjectName: project,
		TaskName:    name,
		Progress:    Progress(progress),
		StartDate:   start,
		DueDate:     due,
	}
}

func TestBuildTimeline_Counts(t *testing.T) {
	records := []TaskRecord{
		task("P1", "Alpha", "T1", "0.5", "2024-06-01", "2024-06-30"),
		task("P2", "Beta", "T2", "20", "2024-05-01", "2024-07-01"),
		task("P1", "Alpha", "T3", "100%", "2024-05-20", "2024-06-10"),
		task("P1", "Alpha", "", "10", "2024-06-01", "2024-06-30"),
		task("P3", "Gamma", "T4", "10", "", "2024-06-30"),
		task("P3", "Gamma", "T5", "10", "2024-06-01", "not a date"),
	}

	tl := BuildTimeline(records, testNow)

	if len(tl.Projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(tl.Projects))
	}
	if tl.Dropped != 3 {
		t.Errorf("expected 3 dropped records, got %d", tl.Dropped)
	}
	if tl.Projects[0].Name != "Alpha" || tl.Projects[1].Name != "Beta" {
		t.Errorf("expected first-seen order Alpha, Beta; got %s, %s", tl.Projects[0].Name, tl.Projects[1].Name)
	}

	groups := tl.Groups()
	if len(groups) != 2+3 {
		t.Errorf("expected K+N = 5 groups, got %d", len(groups))
	}
	items := tl.Items()
	if len(items) != 2+3 {
		t.Errorf("expected K+N = 5 items, got %d", len(items))
	}
	if tl.TaskCount() != 3 {
		t.Errorf("expected 3 tasks, got %d", tl.TaskCount())
	}
}

func TestBuildTimeline_Aggregate(t *testing.T) {
	records := []TaskRecord{
		task("P1", "Alpha", "T1", "0.5", "2024-06-01", "2024-06-30"),
		task("P1", "Alpha", "T2", "25", "2024-05-01", "2024-06-20"),
		task("P1", "Alpha", "T3", "100%", "2024-06-05", "2024-07-10"),
	}

	tl := BuildTimeline(records, testNow)
	p, ok := tl.Project("Alpha")
	if !ok {
		t.Fatal("expected project Alpha")
	}

	// (50 + 25 + 100) / 3 = 58.33
	if p.Progress != 58 {
		t.Errorf("expected aggregate 58, got %d", p.Progress)
	}
	if got := FormatDate(p.Start); got != "2024-05-01" {
		t.Errorf("expected earliest start 2024-05-01, got %s", got)
	}
	if got := FormatDate(p.End); got != "2024-07-10" {
		t.Errorf("expected latest due 2024-07-10, got %s", got)
	}
	if p.Label() != "Alpha (58%)" {
		t.Errorf("unexpected summary label %q", p.Label())
	}

	reversed := []TaskRecord{records[2], records[1], records[0]}
	rp, _ := BuildTimeline(reversed, testNow).Project("Alpha")
	if rp.Progress != p.Progress {
		t.Errorf("expected aggregate invariant to order, got %d vs %d", rp.Progress, p.Progress)
	}
}

func TestBuildTimeline_GroupsByName(t *testing.T) {
	records := []TaskRecord{
		task("P1", "Shared", "T1", "10", "2024-06-01", "2024-06-30"),
		task("P9", "Shared", "T2", "30", "2024-06-01", "2024-06-30"),
	}

	tl := BuildTimeline(records, testNow)
	if len(tl.Projects) != 1 {
		t.Fatalf("expected ids sharing a name to collapse, got %d projects", len(tl.Projects))
	}
	if tl.Projects[0].Progress != 20 {
		t.Errorf("expected aggregate 20, got %d", tl.Projects[0].Progress)
	}
}

func TestClassify(t *testing.T) {
	past := testNow.AddDate(0, 0, -1)
	future := testNow.AddDate(0, 0, 1)

	tests := []struct {
		name    string
		percent int
		due     time.Time
		want    BarStatus
	}{
		{"complete beats overdue", 100, past, BarComplete},
		{"over 100 is complete", 120, future, BarComplete},
		{"overdue", 99, past, BarOverdue},
		{"on track", 10, future, BarOnTrack},
		{"due now is on track", 10, testNow, BarOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.percent, tt.due, testNow); got != tt.want {
				t.Errorf("Classify(%d) = %s, want %s", tt.percent, got, tt.want)
			}
		})
	}
}

func TestBuildTimeline_DueDateIsMidnight(t *testing.T) {
	records := []TaskRecord{
		task("P1", "Alpha", "Today", "10", "2024-06-01", "2024-06-20"),
		task("P1", "Alpha", "Tomorrow", "10", "2024-06-01", "2024-06-21"),
	}

	tests := []struct {
		name  string
		now   time.Time
		today BarStatus
	}{
		{"start of the due day", time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), BarOnTrack},
		{"later on the due day", time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC), BarOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars := BuildTimeline(records, tt.now).Projects[0].Tasks
			if bars[0].Status != tt.today {
				t.Errorf("task due today = %s, want %s", bars[0].Status, tt.today)
			}
			if bars[1].Status != BarOnTrack {
				t.Errorf("task due tomorrow = %s, want on-track", bars[1].Status)
			}
		})
	}
}

func TestTimeline_ExpandAndActions(t *testing.T) {
	tl := BuildTimeline([]TaskRecord{
		task("P1", "Alpha", "T1", "10", "2024-06-01", "2024-06-30"),
	}, testNow)

	if tl.Expanded() {
		t.Error("expected timeline collapsed by default")
	}
	if tl.Groups()[0].ShowNested {
		t.Error("expected parent group to hide nested groups")
	}

	tl.ExpandAll(true)
	if !tl.Groups()[0].ShowNested {
		t.Error("expected parent group to show nested groups after expand")
	}

	parent := tl.Groups()[0]
	if len(parent.Nested) != 1 || parent.Nested[0] != "Alpha-taskgroup-0" {
		t.Errorf("unexpected nested groups %v", parent.Nested)
	}
	if len(parent.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(parent.Actions))
	}
	if parent.Actions[0] != (Action{Kind: ActionAnalyze, Project: "Alpha"}) {
		t.Errorf("unexpected analyze action %+v", parent.Actions[0])
	}
	if parent.Actions[1] != (Action{Kind: ActionEdit, Project: "Alpha"}) {
		t.Errorf("unexpected edit action %+v", parent.Actions[1])
	}

	items := tl.Items()
	if items[0].ID != "Alpha-summary" || !items[0].Summary {
		t.Errorf("expected summary item first, got %+v", items[0])
	}
	if items[1].ID != "Alpha-task-0" || items[1].GroupID != "Alpha-taskgroup-0" {
		t.Errorf("unexpected task item %+v", items[1])
	}
	if items[1].Label != "T1 (10%)" {
		t.Errorf("unexpected task label %q", items[1].Label)
	}
}

func TestTimeline_Empty(t *testing.T) {
	tl := BuildTimeline(nil, testNow)
	if len(tl.Groups()) != 0 || len(tl.Items()) != 0 {
		t.Error("expected empty timeline")
	}
	start, end := tl.Span()
	if !start.IsZero() || !end.IsZero() {
		t.Error("expected zero span for empty timeline")
	}
}
