package application

import (
	"errors"
	"testing"
)

func TestGuard_RejectsOverlap(t *testing.T) {
	g := NewGuard()

	release, err := g.Begin(ActionFetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.Busy(ActionFetch) {
		t.Error("expected fetch to be busy")
	}

	if _, err := g.Begin(ActionFetch); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy for overlapping fetch, got %v", err)
	}

	// other actions are independent
	otherRelease, err := g.Begin(ActionSubmit)
	if err != nil {
		t.Fatalf("expected submit to proceed while fetching, got %v", err)
	}
	otherRelease()

	release()
	release()

	if g.Busy(ActionFetch) {
		t.Error("expected fetch to be free after release")
	}
	if _, err := g.Begin(ActionFetch); err != nil {
		t.Errorf("expected fetch to be available again, got %v", err)
	}
}

func TestGuard_Do(t *testing.T) {
	g := NewGuard()
	sentinel := errors.New("boom")

	err := g.Do(ActionAnalyze, func() error {
		if inner := g.Do(ActionAnalyze, func() error { return nil }); !errors.Is(inner, ErrBusy) {
			t.Errorf("expected nested call to be rejected, got %v", inner)
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected fn error to propagate, got %v", err)
	}
	if g.Busy(ActionAnalyze) {
		t.Error("expected token released after Do")
	}
}
