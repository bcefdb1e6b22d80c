package commands

import (
	"context"
	"fmt"

	"pmboard/internal/application"
)

// ProjectAnalyst returns the analysis text for one project
type ProjectAnalyst interface {
	Analyze(ctx context.Context, projectName string) (string, error)
}

// AnalyzeResult contains the analysis of a project
type AnalyzeResult struct {
	Project string
	Text    string
	Message string
}

// AnalyzeCommand requests the advisory analysis of one project
type AnalyzeCommand struct {
	analyst ProjectAnalyst
	Project string
}

// NewAnalyzeCommand creates a new AnalyzeCommand
func NewAnalyzeCommand(analyst ProjectAnalyst, project string) *AnalyzeCommand {
	return &AnalyzeCommand{
		analyst: analyst,
		Project: project,
	}
}

// Validate checks that a project was named
func (c *AnalyzeCommand) Validate() error {
	return application.ValidateRequired("projectName", c.Project)
}

// Execute runs the analysis
func (c *AnalyzeCommand) Execute(ctx context.Context) (*AnalyzeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	text, err := c.analyst.Analyze(ctx, c.Project)
	if err != nil {
		return nil, err
	}

	return &AnalyzeResult{
		Project: c.Project,
		Text:    text,
		Message: fmt.Sprintf("Analysis of %s", c.Project),
	}, nil
}
