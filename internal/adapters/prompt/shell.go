package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"pmboard/internal/application"
	"pmboard/internal/domain"
)

const shellHelp = `Commands:
  list                       show the draft
  show <row>                 show every field of a row
  set <row> <field> <value>  change one field (fields: see "fields")
  add                        append a new row
  delete <row>               remove a row (asks for confirmation)
  submit                     replace the project's tasks with the draft (asks for confirmation)
  cancel                     discard the draft and exit
  fields                     list editable fields
  statuses                   list status values
  help                       show this help`

// Shell is a line-oriented editor for one edit session
type Shell struct {
	session  *application.EditSession
	prompter *Prompter
	out      io.Writer
}

// NewShell creates a Shell. The session's confirmer should read from the
// same Prompter so answers and commands share one input stream.
func NewShell(session *application.EditSession, prompter *Prompter, out io.Writer) *Shell {
	return &Shell{session: session, prompter: prompter, out: out}
}

// Run reads commands until the session closes or input ends. Input ending
// with an open draft cancels it.
func (s *Shell) Run(ctx context.Context) error {
	s.printDraft()
	fmt.Fprintln(s.out, `Type "help" for commands.`)

	for s.session.State().Open() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.prompter.ReadLine(fmt.Sprintf("%s> ", s.session.Project()))
		if errors.Is(err, ErrNoInput) {
			if s.session.State().Open() {
				_ = s.session.Cancel()
				fmt.Fprintln(s.out, "\nInput closed, draft discarded")
			}
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.Exec(ctx, line); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
	return nil
}

// Exec runs a single shell command
func (s *Shell) Exec(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "list", "ls":
		s.printDraft()
	case "show":
		row, err := s.rowArg(args)
		if err != nil {
			return err
		}
		return s.printRow(row)
	case "set":
		if len(args) < 3 {
			return fmt.Errorf("usage: set <row> <field> <value>")
		}
		row, err := s.rowArg(args)
		if err != nil {
			return err
		}
		field, err := application.ParseField(args[2])
		if err != nil {
			return err
		}
		value := afterWords(line, 3)
		if field == domain.FieldStatus {
			value = string(domain.ParseStatus(value))
		}
		if err := s.session.SetField(row, field, value); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Row %d: %s = %q\n", row+1, field.Title(), value)
	case "add", "new":
		row, err := s.session.AddRow()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Added row %d\n", row+1)
	case "delete", "rm":
		row, err := s.rowArg(args)
		if err != nil {
			return err
		}
		removed, err := s.session.DeleteRow(ctx, row)
		if err != nil {
			return err
		}
		if removed {
			fmt.Fprintf(s.out, "Deleted row %d\n", row+1)
		} else {
			fmt.Fprintln(s.out, "Delete cancelled")
		}
	case "submit":
		result, err := s.session.Submit(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, result.Message)
		if result.RefreshErr != nil {
			fmt.Fprintf(s.out, "Warning: %v\n", result.RefreshErr)
		}
	case "cancel", "quit", "exit":
		if err := s.session.Cancel(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Draft discarded")
	case "fields":
		for _, f := range domain.Fields() {
			fmt.Fprintf(s.out, "  %-12s %s\n", f.String(), f.Title())
		}
	case "statuses":
		for _, st := range domain.Statuses {
			fmt.Fprintf(s.out, "  %-12s %s\n", st.String(), string(st))
		}
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	default:
		return fmt.Errorf("unknown command %q (try help)", args[0])
	}
	return nil
}

// rowArg parses the 1-based row number in args[1]
func (s *Shell) rowArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("row number required")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, &application.ValidationError{Field: "row", Message: fmt.Sprintf("not a number: %s", args[1])}
	}
	return n - 1, nil
}

func (s *Shell) printDraft() {
	draft := s.session.Draft()
	fmt.Fprintf(s.out, "%s [%s] %d rows\n", s.session.Project(), s.session.State(), len(draft))

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTASK\tMEMBER\tSTATUS\tPROGRESS\tSTART\tDUE")
	for i, rec := range draft {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, rec.TaskName, rec.Member, rec.Status.Normalized().String(), rec.Progress, rec.StartDate, rec.DueDate)
	}
	tw.Flush()
}

func (s *Shell) printRow(row int) error {
	draft := s.session.Draft()
	if err := application.ValidateRow(row, len(draft)); err != nil {
		return err
	}
	rec := draft[row]
	for _, f := range domain.Fields() {
		fmt.Fprintf(s.out, "  %-12s %s\n", f.Title()+":", rec.Get(f))
	}
	return nil
}

// afterWords returns line past its first n words and the single separator
// that follows them, so the value keeps its inner spacing
func afterWords(line string, n int) string {
	rest := line
	for i := 0; i < n; i++ {
		rest = strings.TrimLeft(rest, " \t")
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			return ""
		}
		rest = rest[end+1:]
	}
	return rest
}
