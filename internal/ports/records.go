package ports

import (
	"context"

	"pmboard/internal/domain"
)

// RecordSource fetches the full project table
type RecordSource interface {
	FetchRecords(ctx context.Context) ([]domain.TaskRecord, error)
}

// TaskSink replaces every task of one project with the submitted rows.
// The backend applies last-write-wins.
type TaskSink interface {
	ReplaceProjectTasks(ctx context.Context, projectName string, tasks []domain.TaskRecord) error
}

// ProjectAnalyzer returns a free-form analysis of one project
type ProjectAnalyzer interface {
	AnalyzeProject(ctx context.Context, projectName string) (string, error)
}

// SnapshotCache persists the last fetched snapshot for offline starts
type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, snap domain.Snapshot) error
	// LoadSnapshot returns nil, nil when nothing has been cached yet
	LoadSnapshot(ctx context.Context) (*domain.Snapshot, error)
}
