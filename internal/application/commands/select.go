package commands

import (
	"context"
	"fmt"
	"strings"

	"pmboard/internal/application"
	"pmboard/internal/domain"
)

// GraphProvider builds the relationship graph from current records
type GraphProvider interface {
	Graph() *domain.Graph
}

// SelectResult contains the detail aggregation for a selected node
type SelectResult struct {
	Selection domain.Selection
	Star      *domain.Graph
	Message   string
}

// SelectCommand resolves a graph node click into its detail view
type SelectCommand struct {
	graphs GraphProvider
	Kind   string
	ID     string
}

// NewSelectCommand creates a new SelectCommand
func NewSelectCommand(graphs GraphProvider, kind, id string) *SelectCommand {
	return &SelectCommand{
		graphs: graphs,
		Kind:   kind,
		ID:     id,
	}
}

// Validate checks the node reference
func (c *SelectCommand) Validate() error {
	if err := application.ValidateRequired("nodeKind", c.Kind); err != nil {
		return err
	}
	if _, err := domain.ParseNodeKind(strings.ToLower(c.Kind)); err != nil {
		return &application.ValidationError{
			Field:   "nodeKind",
			Message: fmt.Sprintf("expected project or member, got: %s", c.Kind),
		}
	}
	return nil
}

// Execute builds the selection and its one-hop star. An unknown id yields an
// empty selection rather than an error.
func (c *SelectCommand) Execute(ctx context.Context) (*SelectResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	kind, _ := domain.ParseNodeKind(strings.ToLower(c.Kind))

	g := c.graphs.Graph()
	sel := g.Select(kind, c.ID)
	result := &SelectResult{
		Selection: sel,
		Star:      g.Star(kind, c.ID),
	}

	if sel.Empty() {
		result.Message = fmt.Sprintf("No tasks found for %s %q", kind, c.ID)
		return result, nil
	}
	tasks := 0
	for _, grp := range sel.Groups {
		tasks += len(grp.Tasks)
	}
	result.Message = fmt.Sprintf("%s %q: %d tasks across %d groups", kind, c.ID, tasks, len(sel.Groups))
	return result, nil
}
