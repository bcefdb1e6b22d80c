package views

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pmboard/internal/adapters/editor"
	"pmboard/internal/application"
	"pmboard/internal/domain"
)

var errTest = errors.New("backend down")

func newTestEditor(t *testing.T) (*EditModel, *Gate, *stubSink) {
	t.Helper()
	gate := NewGate()
	sink := &stubSink{}
	session := application.NewEditSession(newTestBoard(t), sink, gate)
	m := NewEditModel(session)
	if err := m.Open("Alpha"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	return m, gate, sink
}

func TestEditModel_EditCell(t *testing.T) {
	m, _, _ := newTestEditor(t)

	// move to the task column
	m.Update(keyPress("l"))
	m.Update(keyPress("l"))
	if _, field := m.Cursor(); field != domain.FieldTaskName {
		t.Fatalf("expected task column, got %s", field)
	}

	m.Update(keyPress("enter"))
	if !m.editing {
		t.Fatal("expected cell editor open")
	}
	m.input.SetValue("Design v2")
	m.Update(keyPress("enter"))

	if m.editing {
		t.Error("expected editor closed after save")
	}
	if got := m.Draft()[0].TaskName; got != "Design v2" {
		t.Errorf("expected task renamed, got %q", got)
	}
	if m.session.State() != application.SessionOpenDirty {
		t.Errorf("expected dirty draft, got %s", m.session.State())
	}
}

func TestEditModel_StatusIsParsed(t *testing.T) {
	m, _, _ := newTestEditor(t)
	for m.cols[m.col].field != domain.FieldStatus {
		m.Update(keyPress("l"))
	}

	m.Update(keyPress("enter"))
	m.input.SetValue("done")
	m.Update(keyPress("enter"))

	if got := m.Draft()[0].Status; got != domain.StatusDone {
		t.Errorf("expected %q, got %q", domain.StatusDone, got)
	}
}

func TestEditModel_AddRow(t *testing.T) {
	m, _, _ := newTestEditor(t)

	m.Update(keyPress("n"))
	draft := m.Draft()
	if len(draft) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(draft))
	}
	if row, _ := m.Cursor(); row != 2 {
		t.Errorf("expected cursor on new row, got %d", row)
	}
	if draft[2].ProjectID != "P1" || draft[2].TaskName != application.PlaceholderTaskName {
		t.Errorf("unexpected new row %+v", draft[2])
	}
}

func TestEditModel_SubmitThroughGate(t *testing.T) {
	m, gate, sink := newTestEditor(t)
	m.Update(keyPress("n"))

	done := make(chan *application.SubmitResult, 1)
	go func() {
		result, err := m.session.Submit(context.Background())
		if err != nil {
			t.Errorf("submit failed: %v", err)
		}
		done <- result
	}()

	req := gate.Wait()().(ConfirmRequestMsg)
	m.Ask(req)
	if !m.confirm.Active() {
		t.Fatal("expected confirmation prompt")
	}

	// keys other than y/n do not reach the editor while asking
	m.Update(keyPress("n"))
	result := <-done
	if result.Confirmed {
		t.Fatal("expected declined submit")
	}
	if sink.project != "" {
		t.Error("expected nothing sent after decline")
	}

	go func() {
		result, _ := m.session.Submit(context.Background())
		done <- result
	}()
	m.Ask(gate.Wait()().(ConfirmRequestMsg))
	m.Update(keyPress("y"))

	result = <-done
	if !result.Confirmed || sink.project != "Alpha" || len(sink.tasks) != 3 {
		t.Errorf("expected 3 tasks submitted for Alpha, got %+v / %d", result, len(sink.tasks))
	}

	_, cmd := m.Update(submitDoneMsg{result: result})
	if cmd == nil {
		t.Fatal("expected SubmittedMsg command")
	}
	if _, ok := cmd().(SubmittedMsg); !ok {
		t.Error("expected SubmittedMsg")
	}
}

func TestEditModel_CancelDirtyAsks(t *testing.T) {
	m, _, _ := newTestEditor(t)
	m.Update(keyPress("n"))

	m.Update(keyPress("esc"))
	if !m.confirm.Active() {
		t.Fatal("expected discard confirmation for a dirty draft")
	}

	_, cmd := m.Update(keyPress("y"))
	if cmd == nil {
		t.Fatal("expected switch command")
	}
	if _, ok := cmd().(SwitchToTimelineMsg); !ok {
		t.Error("expected SwitchToTimelineMsg")
	}
	if m.session.State().Open() {
		t.Error("expected session closed")
	}
}

func TestEditModel_OpenOtherProjectRejected(t *testing.T) {
	m, _, _ := newTestEditor(t)

	if err := m.Open("Alpha"); err != nil {
		t.Errorf("expected resume of same project, got %v", err)
	}
	if err := m.Open("Beta"); err == nil {
		t.Error("expected error opening a second project")
	}
}

func TestEditModel_ExternalEditResult(t *testing.T) {
	m, _, _ := newTestEditor(t)

	path := filepath.Join(t.TempDir(), "risks.txt")
	if err := os.WriteFile(path, []byte("vendor late\nbudget cut\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	m.Update(externalEditMsg{row: 1, field: domain.FieldRisks, session: &editor.Session{Path: path}})

	if got := m.Draft()[1].Risks; got != "vendor late\nbudget cut" {
		t.Errorf("expected risks from the editor, got %q", got)
	}
	if m.MessageErr {
		t.Errorf("unexpected error %q", m.Message)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected the temp file to be removed")
	}
}

func TestEditModel_ExternalEditFailed(t *testing.T) {
	m, _, _ := newTestEditor(t)

	path := filepath.Join(t.TempDir(), "risks.txt")
	if err := os.WriteFile(path, []byte("ignored"), 0o600); err != nil {
		t.Fatal(err)
	}

	m.Update(externalEditMsg{row: 0, field: domain.FieldRisks, session: &editor.Session{Path: path}, err: errTest})

	if !m.MessageErr {
		t.Error("expected an error message")
	}
	if m.Draft()[0].Risks != "" {
		t.Errorf("draft should be unchanged, got %q", m.Draft()[0].Risks)
	}
}
