package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"pmboard/internal/ports"
)

// ErrNoInput is returned when the input stream ends before an answer
var ErrNoInput = errors.New("no input")

// Prompter reads answers from a line-oriented stream such as stdin
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// AssumeYes answers every confirmation with yes without reading input
	AssumeYes bool
}

// Ensure Prompter implements Confirmer
var _ ports.Confirmer = (*Prompter)(nil)

// New creates a Prompter
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// ReadLine prints label and returns the next line without its newline
func (p *Prompter) ReadLine(label string) (string, error) {
	if label != "" {
		fmt.Fprint(p.out, label)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if err == io.EOF {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks a y/N question. Anything but y or yes declines.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if p.AssumeYes {
		fmt.Fprintf(p.out, "%s [y/N]: y\n", prompt)
		return true, nil
	}
	answer, err := p.ReadLine(prompt + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
