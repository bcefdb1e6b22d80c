package application

import (
	"context"
	"errors"
	"sync"

	"pmboard/internal/domain"
	"pmboard/internal/ports"
)

var errUnavailable = errors.New("backend unavailable")

type fakeSource struct {
	mu      sync.Mutex
	records []domain.TaskRecord
	err     error
	calls   int
	entered chan struct{}
	block   chan struct{}
}

func (f *fakeSource) FetchRecords(ctx context.Context) ([]domain.TaskRecord, error) {
	if f.block != nil {
		f.entered <- struct{}{}
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return domain.CloneRecords(f.records), nil
}

type fakeSink struct {
	project string
	tasks   []domain.TaskRecord
	err     error
	calls   int
}

func (f *fakeSink) ReplaceProjectTasks(ctx context.Context, projectName string, tasks []domain.TaskRecord) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.project = projectName
	f.tasks = tasks
	return nil
}

type fakeAnalyzer struct {
	text string
	err  error
}

func (f *fakeAnalyzer) AnalyzeProject(ctx context.Context, projectName string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text + projectName, nil
}

type memoryCache struct {
	snap *domain.Snapshot
	err  error
}

func (m *memoryCache) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	if m.err != nil {
		return m.err
	}
	m.snap = &snap
	return nil
}

func (m *memoryCache) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	return m.snap, m.err
}

type fakeRelay struct {
	summary  string
	reply    string
	err      error
	requests []ports.ChatRequest
}

func (f *fakeRelay) Send(ctx context.Context, req ports.ChatRequest) (string, error) {
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func (f *fakeRelay) Summary(ctx context.Context) (string, error) {
	return f.summary, f.err
}

// answer returns a confirmer that always gives the same answer and records prompts
func answer(ok bool, prompts *[]string) ports.Confirmer {
	return ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		if prompts != nil {
			*prompts = append(*prompts, prompt)
		}
		return ok, nil
	})
}

func sampleRecords() []domain.TaskRecord {
	return []domain.TaskRecord{
		{RowKey: "1", ProjectID: "P1", ProjectName: "Alpha", TaskName: "Design", Member: "Ann", Department: "R&D", Progress: "0.4", StartDate: "2024-06-01", DueDate: "2024-06-30", Status: domain.StatusInProgress},
		{RowKey: "2", ProjectID: "P1", ProjectName: "Alpha", TaskName: "Build", Member: "Bob", Department: "R&D", Progress: "100%", StartDate: "2024-06-10", DueDate: "2024-07-15", Status: domain.StatusDone},
		{RowKey: "3", ProjectID: "P2", ProjectName: "Beta", TaskName: "Plan", Member: "Ann", Department: "R&D", Progress: "20", StartDate: "2024-05-01", DueDate: "2024-05-31"},
	}
}
