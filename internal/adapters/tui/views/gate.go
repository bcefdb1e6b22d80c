package views

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"pmboard/internal/ports"
)

// ConfirmRequestMsg asks the user a yes/no question on behalf of a blocked
// operation. Exactly one of Answer's calls takes effect.
type ConfirmRequestMsg struct {
	Prompt string
	reply  chan bool
}

// Answer unblocks the waiting operation
func (m ConfirmRequestMsg) Answer(ok bool) {
	select {
	case m.reply <- ok:
	default:
	}
}

// Gate is a ports.Confirmer that routes questions into the TUI. Confirm
// blocks in the operation's goroutine until the user answers in the event
// loop, so edit operations must run as tea.Cmds, never inside Update.
type Gate struct {
	requests chan ConfirmRequestMsg
}

var _ ports.Confirmer = (*Gate)(nil)

// NewGate creates an idle Gate
func NewGate() *Gate {
	return &Gate{requests: make(chan ConfirmRequestMsg)}
}

// Confirm implements ports.Confirmer
func (g *Gate) Confirm(ctx context.Context, prompt string) (bool, error) {
	req := ConfirmRequestMsg{Prompt: prompt, reply: make(chan bool, 1)}
	select {
	case g.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-req.reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Wait returns a command that delivers the next question. Re-issue it after
// every ConfirmRequestMsg.
func (g *Gate) Wait() tea.Cmd {
	return func() tea.Msg {
		return <-g.requests
	}
}
