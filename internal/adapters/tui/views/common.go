package views

import (
	"context"
	"time"

	"pmboard/internal/domain"
)

// Board is the shared record snapshot the views read from
type Board interface {
	Snapshot() domain.Snapshot
	Records() []domain.TaskRecord
	Timeline() *domain.Timeline
	Graph() *domain.Graph
	Refresh(ctx context.Context) error
	Analyze(ctx context.Context, projectName string) (string, error)
	Now() time.Time
}

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// SetError shows err, or clears the message when err is nil
func (s *ViewState) SetError(err error) {
	if err == nil {
		s.ClearMessage()
		return
	}
	s.SetMessage(err.Error(), true)
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// fetchedLabel describes when the snapshot was taken
func fetchedLabel(snap domain.Snapshot) string {
	if snap.FetchedAt.IsZero() {
		return "not fetched yet"
	}
	return "fetched " + snap.FetchedAt.Format(time.DateTime)
}
