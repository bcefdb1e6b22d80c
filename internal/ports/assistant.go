package ports

import "context"

// ChatTurn is one message of the conversation history
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is one user message plus the recent history
type ChatRequest struct {
	Message   string
	SessionID string
	History   []ChatTurn
}

// ChatRelay forwards conversation turns to the external assistant
type ChatRelay interface {
	Send(ctx context.Context, req ChatRequest) (string, error)

	// Summary returns the opening summary of all projects
	Summary(ctx context.Context) (string, error)
}
