package llm

import "context"

// Client generates a conversational reply for an enrollment chat turn.
// Implementations must never invent pricing or schedule facts; those arrive
// pre-computed inside the system prompt.
type Client interface {
	Reply(ctx context.Context, systemPrompt, userMessage string) (string, error)
}
