package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrBusy          = errors.New("operation already in progress")
	ErrSessionClosed = errors.New("no project is open for editing")
	ErrSessionOpen   = errors.New("an edit session is already open")
	ErrDraftClean    = errors.New("draft has no changes")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// BusyError names the action that is still outstanding
type BusyError struct {
	Action Action
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action, ErrBusy)
}

func (e *BusyError) Is(target error) bool {
	return target == ErrBusy
}
