package llm

import (
	"context"
	"strings"
)

type mockClient struct{}

// NewMock returns an offline Client used when no endpoint is configured.
// It echoes enough of the prompt to make local widget testing useful.
func NewMock() Client {
	return &mockClient{}
}

func (m *mockClient) Reply(_ context.Context, _ string, userMessage string) (string, error) {
	msg := strings.TrimSpace(userMessage)
	if msg == "" {
		return "Hi! I can help you pick a training program. What certificate are you interested in?", nil
	}
	return "Thanks for your message. A staff member will follow up with details about: " + msg, nil
}
