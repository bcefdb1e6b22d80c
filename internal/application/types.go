package application

import "pmboard/internal/domain"

// Re-export domain types for use by adapters
type (
	TaskRecord = domain.TaskRecord
	Timeline   = domain.Timeline
	Graph      = domain.Graph
	Selection  = domain.Selection
	Field      = domain.Field
)

// ParseField resolves an editable field by name, title or wire key
func ParseField(name string) (Field, error) {
	f, err := domain.ParseField(name)
	if err != nil {
		return 0, &ValidationError{Field: "field", Message: err.Error()}
	}
	return f, nil
}
