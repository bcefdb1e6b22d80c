package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pmboard/internal/domain"
	"pmboard/internal/logging"
	"pmboard/internal/ports"
)

// SessionState is the lifecycle state of an edit session
type SessionState int

const (
	SessionClosed SessionState = iota
	SessionOpenClean
	SessionOpenDirty
	SessionSubmitting
)

func (s SessionState) String() string {
	switch s {
	case SessionOpenClean:
		return "open"
	case SessionOpenDirty:
		return "open (modified)"
	case SessionSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

// Open reports whether a draft exists
func (s SessionState) Open() bool {
	return s != SessionClosed
}

// PlaceholderTaskName is the task name given to added rows
const PlaceholderTaskName = "新任務"

// RecordBoard is the part of Board an edit session needs
type RecordBoard interface {
	ProjectRecords(projectName string) []domain.TaskRecord
	Reload(ctx context.Context) error
}

// ConfirmFunc adapts a plain function to ports.Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// SessionOption configures an EditSession
type SessionOption func(*EditSession)

// WithSessionGuard shares the in-flight guard used for submits
func WithSessionGuard(g *Guard) SessionOption {
	return func(s *EditSession) { s.guard = g }
}

// WithSessionClock overrides the clock used for new-row dates
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *EditSession) { s.now = now }
}

// EditSession manages a private draft of one project's tasks. The draft is
// never aliased with the board's records; the board only changes through a
// full re-fetch after a confirmed, successful submit.
type EditSession struct {
	board   RecordBoard
	sink    ports.TaskSink
	confirm ports.Confirmer
	guard   *Guard
	now     func() time.Time

	mu      sync.Mutex
	state   SessionState
	project string
	draft   []domain.TaskRecord
}

// NewEditSession creates a closed session
func NewEditSession(board RecordBoard, sink ports.TaskSink, confirm ports.Confirmer, opts ...SessionOption) *EditSession {
	s := &EditSession{
		board:   board,
		sink:    sink,
		confirm: confirm,
		guard:   NewGuard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state
func (s *EditSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Project returns the name of the project being edited
func (s *EditSession) Project() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project
}

// Draft returns a copy of the current draft rows
func (s *EditSession) Draft() []domain.TaskRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneRecords(s.draft)
}

// Open copies every record of projectName into a fresh draft. Progress is
// rewritten as an editable percent string; all other fields pass through.
func (s *EditSession) Open(projectName string) error {
	if err := ValidateRequired("projectName", projectName); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionClosed {
		return ErrSessionOpen
	}

	records := s.board.ProjectRecords(projectName)
	draft := make([]domain.TaskRecord, len(records))
	for i, rec := range records {
		rec.Progress = domain.Progress(domain.FormatPercent(rec.Progress.Percent()))
		draft[i] = rec
	}

	s.project = projectName
	s.draft = draft
	s.state = SessionOpenClean
	logging.LogDebug("opened edit session for %s with %d rows", projectName, len(draft))
	return nil
}

// editable must be called with mu held
func (s *EditSession) editable() error {
	switch s.state {
	case SessionClosed:
		return ErrSessionClosed
	case SessionSubmitting:
		return &BusyError{Action: ActionSubmit}
	}
	return nil
}

// SetField replaces one field on one draft row without validating the value
func (s *EditSession) SetField(row int, field domain.Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	if err := ValidateRow(row, len(s.draft)); err != nil {
		return err
	}
	s.draft[row].Set(field, value)
	s.state = SessionOpenDirty
	return nil
}

// AddRow appends a placeholder row and returns its index. Project id and
// department are inherited from the first row.
func (s *EditSession) AddRow() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return 0, err
	}

	today := domain.FormatDate(s.now())
	row := domain.TaskRecord{
		ProjectName:   s.project,
		TaskName:      PlaceholderTaskName,
		Status:        domain.StatusInProgress,
		Progress:      domain.Progress(domain.FormatPercent(0)),
		StartDate:     today,
		DueDate:       today,
		CompletedDate: today,
		UpdatedDate:   today,
	}
	if len(s.draft) > 0 {
		row.ProjectID = s.draft[0].ProjectID
		row.Department = s.draft[0].Department
	}

	s.draft = append(s.draft, row)
	s.state = SessionOpenDirty
	return len(s.draft) - 1, nil
}

// DeleteRow removes a row after the user confirms. It reports whether the
// row was removed; a declined confirmation leaves the draft untouched.
func (s *EditSession) DeleteRow(ctx context.Context, row int) (bool, error) {
	s.mu.Lock()
	if err := s.editable(); err != nil {
		s.mu.Unlock()
		return false, err
	}
	if err := ValidateRow(row, len(s.draft)); err != nil {
		s.mu.Unlock()
		return false, err
	}
	prompt := fmt.Sprintf("Delete row %d (%s)? This cannot be undone.", row+1, s.draft[row].TaskName)
	target := s.draft[row]
	s.mu.Unlock()

	ok, err := s.confirm.Confirm(ctx, prompt)
	if err != nil || !ok {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return false, err
	}
	// the draft may have shifted while the prompt was open
	if row >= len(s.draft) || s.draft[row] != target {
		return false, &ValidationError{Field: "row", Message: "draft changed while confirming"}
	}
	s.draft = append(s.draft[:row], s.draft[row+1:]...)
	s.state = SessionOpenDirty
	return true, nil
}

// SubmitResult contains the result of submitting a draft
type SubmitResult struct {
	Project   string
	Rows      int
	Confirmed bool
	// RefreshErr is set when the submit succeeded but the re-fetch did not
	RefreshErr error
	Message    string
}

// Submit sends the whole draft to the sink after a second confirmation.
// On success the session closes and the board re-fetches. On failure the
// session returns to OPEN(dirty) with the draft unchanged; there is no retry.
func (s *EditSession) Submit(ctx context.Context) (*SubmitResult, error) {
	s.mu.Lock()
	if err := s.editable(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.state != SessionOpenDirty {
		s.mu.Unlock()
		return nil, ErrDraftClean
	}
	project := s.project
	rows := len(s.draft)
	s.mu.Unlock()

	prompt := fmt.Sprintf("Replace all tasks of %q with %d draft rows?", project, rows)
	ok, err := s.confirm.Confirm(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &SubmitResult{Project: project, Rows: rows, Message: "Submit cancelled"}, nil
	}

	release, err := s.guard.Begin(ActionSubmit)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.Lock()
	if s.state != SessionOpenDirty {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.state = SessionSubmitting
	tasks := domain.CloneRecords(s.draft)
	s.mu.Unlock()

	if err := s.sink.ReplaceProjectTasks(ctx, project, tasks); err != nil {
		s.mu.Lock()
		s.state = SessionOpenDirty
		s.mu.Unlock()
		logging.LogError(err, "submit "+project)
		return nil, fmt.Errorf("failed to submit %s: %w", project, err)
	}

	s.mu.Lock()
	s.state = SessionClosed
	s.project = ""
	s.draft = nil
	s.mu.Unlock()

	result := &SubmitResult{
		Project:   project,
		Rows:      len(tasks),
		Confirmed: true,
		Message:   fmt.Sprintf("Submitted %d tasks for %s", len(tasks), project),
	}
	if err := s.board.Reload(ctx); err != nil {
		result.RefreshErr = err
		result.Message += " (refresh failed)"
	}
	return result, nil
}

// Cancel discards the draft. The board is untouched.
func (s *EditSession) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case SessionClosed:
		return ErrSessionClosed
	case SessionSubmitting:
		return &BusyError{Action: ActionSubmit}
	}
	s.state = SessionClosed
	s.project = ""
	s.draft = nil
	return nil
}
