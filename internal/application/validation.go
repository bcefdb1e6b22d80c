package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "projectName" -> "project name")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"projectName": "project name",
		"projectID":   "project ID",
		"nodeID":      "node ID",
		"nodeKind":    "node kind",
		"message":     "message",
		"row":         "row",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateRow checks that row indexes an existing draft row
func ValidateRow(row, count int) error {
	if row < 0 || row >= count {
		return &ValidationError{
			Field:   "row",
			Message: fmt.Sprintf("row %d out of range (draft has %d rows)", row, count),
		}
	}
	return nil
}
