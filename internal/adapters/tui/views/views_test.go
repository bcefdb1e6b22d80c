package views

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pmboard/internal/application"
	"pmboard/internal/domain"
)

type stubSource struct {
	records []domain.TaskRecord
}

func (s *stubSource) FetchRecords(context.Context) ([]domain.TaskRecord, error) {
	return domain.CloneRecords(s.records), nil
}

type stubSink struct {
	project string
	tasks   []domain.TaskRecord
}

func (s *stubSink) ReplaceProjectTasks(_ context.Context, project string, tasks []domain.TaskRecord) error {
	s.project = project
	s.tasks = tasks
	return nil
}

var testNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func newTestBoard(t *testing.T) *application.Board {
	t.Helper()
	src := &stubSource{records: []domain.TaskRecord{
		{ProjectID: "P1", ProjectName: "Alpha", TaskName: "Design", Member: "Ann", Department: "R&D", Progress: "50", StartDate: "2024-06-01", DueDate: "2024-06-10"},
		{ProjectID: "P1", ProjectName: "Alpha", TaskName: "Build", Member: "Bob", Progress: "100", StartDate: "2024-06-05", DueDate: "2024-07-01"},
		{ProjectID: "P2", ProjectName: "Beta", TaskName: "Plan", Member: "Ann", Progress: "0", StartDate: "2024-06-01", DueDate: "2024-06-30"},
	}}
	b := application.NewBoard(src, application.WithClock(func() time.Time { return testNow }))
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	return b
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBarCells(t *testing.T) {
	spanStart := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	spanEnd := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	date := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name                  string
		start, end            time.Time
		width, percent        int
		offset, filled, empty int
	}{
		{"full span half done", date(1), date(10), 10, 50, 0, 5, 5},
		{"second half", date(6), date(10), 10, 0, 5, 0, 5},
		{"single day", date(3), date(3), 10, 100, 2, 1, 0},
		{"over 100 fills", date(1), date(5), 10, 150, 0, 5, 0},
		{"negative progress", date(1), date(5), 10, -20, 0, 0, 5},
		{"zero width", date(1), date(5), 0, 50, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, filled, empty := barCells(tt.start, tt.end, spanStart, spanEnd, tt.width, tt.percent)
			if offset != tt.offset || filled != tt.filled || empty != tt.empty {
				t.Errorf("barCells = (%d, %d, %d), want (%d, %d, %d)",
					offset, filled, empty, tt.offset, tt.filled, tt.empty)
			}
		})
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 4, "abc…"},
		{"新任務", 6, "新任務"},
		{"新任務", 5, "新任…"},
		{"a\nb", 3, "a b"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := fit(tt.in, tt.width); got != tt.want {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestPager(t *testing.T) {
	p := newPager(3)
	p.setTotal(7)

	p.moveTo(4)
	if start, end := p.visible(); start != 3 || end != 6 {
		t.Errorf("visible = [%d, %d), want [3, 6)", start, end)
	}
	p.nextPage()
	if p.cursor != 6 || p.page() != 3 || p.pages() != 3 {
		t.Errorf("after nextPage cursor=%d page=%d/%d", p.cursor, p.page(), p.pages())
	}
	p.down()
	if p.cursor != 6 {
		t.Errorf("expected cursor clamped at 6, got %d", p.cursor)
	}
	p.setTotal(2)
	if p.cursor != 1 || p.offset != 0 {
		t.Errorf("expected cursor 1 offset 0 after shrink, got %d/%d", p.cursor, p.offset)
	}
}

func TestGate_RoundTrip(t *testing.T) {
	gate := NewGate()
	answers := make(chan bool, 1)

	go func() {
		ok, _ := gate.Confirm(context.Background(), "Delete row 1?")
		answers <- ok
	}()

	req, ok := gate.Wait()().(ConfirmRequestMsg)
	if !ok {
		t.Fatal("expected ConfirmRequestMsg")
	}
	if req.Prompt != "Delete row 1?" {
		t.Errorf("unexpected prompt %q", req.Prompt)
	}
	req.Answer(true)
	req.Answer(false) // ignored

	if got := <-answers; !got {
		t.Error("expected confirmation to be true")
	}
}

func TestGate_ContextCancelled(t *testing.T) {
	gate := NewGate()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := gate.Confirm(ctx, "Submit?")
	if ok || !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancelled confirmation, got %v, %v", ok, err)
	}
}

func TestConfirmationModel_Local(t *testing.T) {
	m := NewConfirmationModel()
	called := false
	m.AskLocal("Discard?", func() tea.Cmd {
		called = true
		return nil
	})
	if !m.Active() {
		t.Fatal("expected active prompt")
	}

	// unrelated keys are swallowed
	if handled, _ := m.HandleKeyMsg(keyPress("x")); !handled || !m.Active() {
		t.Error("expected other keys swallowed while prompting")
	}

	m.HandleKeyMsg(keyPress("y"))
	if !called || m.Active() {
		t.Errorf("expected onYes to run and prompt to close (called=%v)", called)
	}

	called = false
	m.AskLocal("Discard?", func() tea.Cmd { called = true; return nil })
	m.HandleKeyMsg(keyPress("n"))
	if called {
		t.Error("expected onYes not to run after n")
	}
}
