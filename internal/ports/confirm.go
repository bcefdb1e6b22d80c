package ports

import "context"

// Confirmer asks the user to approve a destructive or outward action.
// A false result with a nil error means the user declined.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}
