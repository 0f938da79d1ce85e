package dto

import "github.com/medready/enroll-advisor-api/internal/models"

// AvailabilityPayload mirrors the widget's availability step.
type AvailabilityPayload struct {
	Type    string   `json:"type" validate:"required,oneof=daysOff noSetSchedule notWorking"`
	DaysOff []string `json:"daysOff,omitempty" validate:"dive,required"`
}

// ToModel converts the payload into the engine's availability constraint.
func (p AvailabilityPayload) ToModel() models.Availability {
	return models.Availability{
		Type:    models.AvailabilityType(p.Type),
		DaysOff: p.DaysOff,
	}
}

// ContactPayload carries the learner's contact step. The engine treats
// these fields as opaque.
type ContactPayload struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,min=7"`
}

// PrescreenRequest is the full multi-step form submission.
type PrescreenRequest struct {
	Language         string              `json:"language" validate:"required"`
	CertificateGoals []string            `json:"certificateGoals" validate:"required,min=1,dive,required"`
	Availability     AvailabilityPayload `json:"availability" validate:"required"`
	Contact          ContactPayload      `json:"contact" validate:"required"`
	MarketingConsent bool                `json:"marketingConsent"`
}

// PrescreenResponse returns the stored record ID and the decision bundle.
type PrescreenResponse struct {
	PrescreenID    string                        `json:"prescreen_id"`
	Recommendation *models.RecommendationBundle  `json:"recommendation"`
}
