package prompt

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"pmboard/internal/application"
	"pmboard/internal/domain"
)

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    bool
		wantErr error
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "yes word", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty defaults to no", input: "\n", want: false},
		{name: "no trailing newline", input: "y", want: true},
		{name: "end of input", input: "", wantErr: ErrNoInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)

			got, err := p.Confirm(context.Background(), "Proceed?")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if !strings.Contains(out.String(), "Proceed? [y/N]: ") {
				t.Errorf("expected prompt written, got %q", out.String())
			}
		})
	}
}

func TestPrompter_AssumeYes(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader(""), &out)
	p.AssumeYes = true

	ok, err := p.Confirm(context.Background(), "Submit?")
	if err != nil || !ok {
		t.Errorf("expected automatic yes, got %v, %v", ok, err)
	}
}

type stubBoard struct {
	records   []domain.TaskRecord
	refreshed int
}

func (b *stubBoard) ProjectRecords(name string) []domain.TaskRecord {
	var out []domain.TaskRecord
	for _, r := range b.records {
		if r.ProjectName == name {
			out = append(out, r)
		}
	}
	return out
}

func (b *stubBoard) Reload(ctx context.Context) error {
	b.refreshed++
	return nil
}

type recordingSink struct {
	tasks []domain.TaskRecord
}

func (s *recordingSink) ReplaceProjectTasks(ctx context.Context, projectName string, tasks []domain.TaskRecord) error {
	s.tasks = tasks
	return nil
}

func TestShell_Run(t *testing.T) {
	board := &stubBoard{records: []domain.TaskRecord{
		{ProjectID: "P1", ProjectName: "Alpha", TaskName: "Design", Member: "Ann", Progress: "0.5"},
		{ProjectID: "P1", ProjectName: "Alpha", TaskName: "Build", Member: "Bob", Progress: "10"},
	}}
	sink := &recordingSink{}

	script := strings.Join([]string{
		"set 1 progress 80%",
		"set 2 status done",
		"add",
		"delete 3",
		"y",
		"delete 1",
		"n",
		"bogus",
		"submit",
		"y",
	}, "\n") + "\n"

	var out bytes.Buffer
	p := New(strings.NewReader(script), &out)
	session := application.NewEditSession(board, sink, p)
	if err := session.Open("Alpha"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := NewShell(session, p, &out).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.tasks) != 2 {
		t.Fatalf("expected 2 rows submitted, got %d", len(sink.tasks))
	}
	if sink.tasks[0].Progress != "80%" {
		t.Errorf("expected edited progress, got %q", sink.tasks[0].Progress)
	}
	if sink.tasks[1].Status != domain.StatusDone {
		t.Errorf("expected status parsed to wire value, got %q", sink.tasks[1].Status)
	}
	if board.refreshed != 1 {
		t.Errorf("expected one refresh after submit, got %d", board.refreshed)
	}

	log := out.String()
	for _, want := range []string{"Added row 3", "Deleted row 3", "Delete cancelled", `unknown command "bogus"`, "Submitted 2 tasks for Alpha"} {
		if !strings.Contains(log, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestShell_EOFCancels(t *testing.T) {
	board := &stubBoard{records: []domain.TaskRecord{{ProjectName: "Alpha", TaskName: "Design"}}}
	var out bytes.Buffer
	p := New(strings.NewReader("set 1 task Redesign\n"), &out)
	session := application.NewEditSession(board, &recordingSink{}, p)
	_ = session.Open("Alpha")

	if err := NewShell(session, p, &out).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.State() != application.SessionClosed {
		t.Errorf("expected session closed at end of input, got %s", session.State())
	}
	if !strings.Contains(out.String(), "draft discarded") {
		t.Errorf("expected discard notice, got %q", out.String())
	}
}

func TestShell_Errors(t *testing.T) {
	board := &stubBoard{records: []domain.TaskRecord{{ProjectName: "Alpha", TaskName: "Design"}}}
	var out bytes.Buffer
	p := New(strings.NewReader(""), &out)
	session := application.NewEditSession(board, &recordingSink{}, p)
	_ = session.Open("Alpha")
	shell := NewShell(session, p, &out)

	tests := []struct {
		line   string
		errMsg string
	}{
		{"set 1", "usage"},
		{"set x task a", "not a number"},
		{"set 9 task a", "out of range"},
		{"set 1 color red", "unknown field"},
		{"show", "row number required"},
		{"submit", "no changes"},
	}
	for _, tt := range tests {
		err := shell.Exec(context.Background(), tt.line)
		if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
			t.Errorf("%q: expected error containing %q, got %v", tt.line, tt.errMsg, err)
		}
	}
}

func TestShell_SetKeepsSpacing(t *testing.T) {
	board := &stubBoard{records: []domain.TaskRecord{{ProjectName: "Alpha", TaskName: "Design"}}}
	var out bytes.Buffer
	p := New(strings.NewReader(""), &out)
	session := application.NewEditSession(board, &recordingSink{}, p)
	_ = session.Open("Alpha")
	shell := NewShell(session, p, &out)

	tests := []struct {
		line string
		want string
	}{
		{"set 1 description step one  then\tstep two", "step one  then\tstep two"},
		{"set   1   risks  indented", " indented"},
		{"set 1 next-steps", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if err := shell.Exec(context.Background(), tt.line); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			field, _ := application.ParseField(strings.Fields(tt.line)[2])
			if got := session.Draft()[0].Get(field); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestShell_Statuses(t *testing.T) {
	board := &stubBoard{records: []domain.TaskRecord{{ProjectName: "Alpha", TaskName: "Design"}}}
	var out bytes.Buffer
	p := New(strings.NewReader(""), &out)
	session := application.NewEditSession(board, &recordingSink{}, p)
	_ = session.Open("Alpha")

	if err := NewShell(session, p, &out).Exec(context.Background(), "statuses"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, st := range domain.Statuses {
		if !strings.Contains(out.String(), st.String()) || !strings.Contains(out.String(), string(st)) {
			t.Errorf("expected %s (%s) listed", st.String(), string(st))
		}
	}
}
