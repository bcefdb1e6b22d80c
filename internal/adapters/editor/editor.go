package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Editor hands long text fields to the user's preferred editor
type Editor struct {
	lookup func(string) string
	find   func(string) (string, error)
}

// New creates an Editor that honours $EDITOR and $VISUAL
func New() *Editor {
	return &Editor{lookup: os.Getenv, find: exec.LookPath}
}

// Program returns the editor binary, or "" when none is available
func (e *Editor) Program() string {
	if editor := e.lookup("EDITOR"); editor != "" {
		return editor
	}
	if visual := e.lookup("VISUAL"); visual != "" {
		return visual
	}

	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := e.find(editor); err == nil {
			return path
		}
	}
	return ""
}

// Session is one value being edited in a temporary file
type Session struct {
	Path string
	Cmd  *exec.Cmd
}

// Begin writes value to a temporary file and prepares the editor command.
// The caller runs Cmd (directly or through tea.ExecProcess) and then
// calls Finish.
func (e *Editor) Begin(name, value string) (*Session, error) {
	program := e.Program()
	if program == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	f, err := os.CreateTemp("", "pmboard-"+name+"-*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.WriteString(value); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	// $EDITOR may carry flags, e.g. "code --wait"
	parts := strings.Fields(program)
	cmd := exec.Command(parts[0], append(parts[1:], f.Name())...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return &Session{Path: f.Name(), Cmd: cmd}, nil
}

// Finish reads the edited value back and removes the temporary file.
// A single trailing newline, which most editors append, is dropped.
func (s *Session) Finish() (string, error) {
	defer os.Remove(s.Path)

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited text: %w", err)
	}
	value := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(value, "\r"), nil
}
