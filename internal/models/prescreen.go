package models

import (
	"time"

	"github.com/lib/pq"
)

// PrescreenRecord is one submitted pre-screen form. Contact fields are
// opaque to the recommendation engine; they exist for the CRM automation
// and the audit trail.
type PrescreenRecord struct {
	ID               string         `db:"id" json:"id"`
	Language         string         `db:"language" json:"language"`
	CertificateGoals pq.StringArray `db:"certificate_goals" json:"certificate_goals"`
	AvailabilityType string         `db:"availability_type" json:"availability_type"`
	DaysOff          pq.StringArray `db:"days_off" json:"days_off,omitempty"`
	FirstName        string         `db:"first_name" json:"first_name"`
	LastName         string         `db:"last_name" json:"last_name"`
	Email            string         `db:"email" json:"email"`
	Phone            string         `db:"phone" json:"phone"`
	MarketingConsent bool           `db:"marketing_consent" json:"marketing_consent"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// ConversationMessage is one turn mirrored into the CRM inbox.
type ConversationMessage struct {
	Role   string    `json:"role"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// ConversationSync is the payload for the CRM inbox bridge.
type ConversationSync struct {
	ConversationID string                `json:"conversation_id"`
	PrescreenID    string                `json:"prescreen_id,omitempty"`
	Messages       []ConversationMessage `json:"messages"`
}
