package commands

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"pmboard/internal/domain"
	"pmboard/internal/logging"
	"pmboard/internal/ports"
)

// OverviewBoard is the part of the board an overview needs
type OverviewBoard interface {
	Refresh(ctx context.Context) error
	Timeline() *domain.Timeline
	Graph() *domain.Graph
}

// OverviewResult summarises the whole portfolio
type OverviewResult struct {
	Projects int
	Tasks    int
	Dropped  int
	Members  int
	Overdue  []string
	Summary  string
	Message  string
}

// OverviewCommand refreshes the board and fetches the assistant's project
// summary concurrently
type OverviewCommand struct {
	board OverviewBoard
	relay ports.ChatRelay
}

// NewOverviewCommand creates a new OverviewCommand. relay may be nil.
func NewOverviewCommand(board OverviewBoard, relay ports.ChatRelay) *OverviewCommand {
	return &OverviewCommand{
		board: board,
		relay: relay,
	}
}

// Execute runs the refresh and the summary request side by side. A failed
// summary is logged and left empty; a failed refresh fails the command.
func (c *OverviewCommand) Execute(ctx context.Context) (*OverviewResult, error) {
	var summary string
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.board.Refresh(gctx)
	})
	if c.relay != nil {
		g.Go(func() error {
			text, err := c.relay.Summary(gctx)
			if err != nil {
				logging.LogError(err, "fetch summary")
				return nil
			}
			summary = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tl := c.board.Timeline()
	result := &OverviewResult{
		Projects: len(tl.Projects),
		Tasks:    tl.TaskCount(),
		Dropped:  tl.Dropped,
		Members:  len(c.board.Graph().Members()),
		Summary:  summary,
	}
	for _, p := range tl.Projects {
		for _, bar := range p.Tasks {
			if bar.Status == domain.BarOverdue {
				result.Overdue = append(result.Overdue, fmt.Sprintf("%s / %s (due %s)", p.Name, bar.Task.TaskName, bar.End.Format(time.DateOnly)))
			}
		}
	}
	result.Message = fmt.Sprintf("%d projects, %d tasks, %d members, %d overdue",
		result.Projects, result.Tasks, result.Members, len(result.Overdue))
	return result, nil
}
