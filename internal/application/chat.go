package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"pmboard/internal/logging"
	"pmboard/internal/ports"
)

// ChatHistoryWindow is how many past turns accompany each message
const ChatHistoryWindow = 6

const (
	greetingSuffix   = "\n\nAsk me anything about the projects."
	greetingFallback = "Hello! Ask me anything about the current projects."
	replyFallback    = "Sorry, I did not catch that. Could you ask again?"
)

// ChatSession is one conversation with the external assistant. Each session
// gets a random id so the relay can keep its own memory per conversation.
type ChatSession struct {
	relay ports.ChatRelay
	guard *Guard
	id    string

	mu      sync.Mutex
	history []ports.ChatTurn
}

// NewChatSession starts a conversation with a fresh session id
func NewChatSession(relay ports.ChatRelay) *ChatSession {
	return &ChatSession{
		relay: relay,
		guard: NewGuard(),
		id:    uuid.New().String(),
	}
}

// ID returns the session id sent with every message
func (c *ChatSession) ID() string {
	return c.id
}

// History returns a copy of the conversation so far
func (c *ChatSession) History() []ports.ChatTurn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ports.ChatTurn, len(c.history))
	copy(out, c.history)
	return out
}

// Greeting fetches the opening project summary and records it as the first
// assistant turn. A failed or empty summary falls back to a fixed greeting.
func (c *ChatSession) Greeting(ctx context.Context) string {
	text, err := c.relay.Summary(ctx)
	if err != nil {
		logging.LogError(err, "fetch chat summary")
	}
	if strings.TrimSpace(text) == "" {
		text = greetingFallback
	} else {
		text += greetingSuffix
	}
	c.append(ports.ChatTurn{Role: "assistant", Content: text})
	return text
}

// Send relays one user message with the recent history and returns the reply
func (c *ChatSession) Send(ctx context.Context, message string) (string, error) {
	if err := ValidateRequired("message", message); err != nil {
		return "", err
	}

	var reply string
	err := c.guard.Do(ActionChat, func() error {
		c.mu.Lock()
		start := len(c.history) - ChatHistoryWindow
		if start < 0 {
			start = 0
		}
		window := make([]ports.ChatTurn, len(c.history)-start)
		copy(window, c.history[start:])
		c.history = append(c.history, ports.ChatTurn{Role: "user", Content: message})
		c.mu.Unlock()

		var err error
		reply, err = c.relay.Send(ctx, ports.ChatRequest{
			Message:   message,
			SessionID: c.id,
			History:   window,
		})
		if err != nil {
			logging.LogError(err, "chat relay")
			return fmt.Errorf("failed to reach assistant: %w", err)
		}
		if strings.TrimSpace(reply) == "" {
			reply = replyFallback
		}
		c.append(ports.ChatTurn{Role: "assistant", Content: reply})
		return nil
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (c *ChatSession) append(turn ports.ChatTurn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, turn)
}
