package dto

// ChatRequest is one user turn from the widget.
type ChatRequest struct {
	ConversationID   string   `json:"conversationId,omitempty"`
	Message          string   `json:"message" validate:"required"`
	Language         string   `json:"language,omitempty"`
	ProgramsSelected []string `json:"programsSelected,omitempty"`
	PrescreenID      string   `json:"prescreenId,omitempty"`
}

// ChatResponse carries the model's reply.
type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}
