package dto

// RecommendationRequest computes a decision bundle without persisting a
// pre-screen; used by ops tooling and the widget's preview step.
type RecommendationRequest struct {
	CertificateGoals []string            `json:"certificateGoals" validate:"required,min=1,dive,required"`
	Availability     AvailabilityPayload `json:"availability" validate:"required"`
	ConversationID   string              `json:"conversationId,omitempty"`
}
