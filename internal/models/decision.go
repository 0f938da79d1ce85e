package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// RecommendationDecision is the persisted audit record of one engine run,
// logged alongside the conversation so staff can see exactly what the bot
// offered.
type RecommendationDecision struct {
	ID                   string         `db:"id" json:"id"`
	ConversationID       string         `db:"conversation_id" json:"conversation_id"`
	PrescreenID          *string        `db:"prescreen_id" json:"prescreen_id,omitempty"`
	RequiresStaffHandoff bool           `db:"requires_staff_handoff" json:"requires_staff_handoff"`
	MatchType            string         `db:"match_type" json:"match_type"`
	PrimaryCourseCode    *string        `db:"primary_course_code" json:"primary_course_code,omitempty"`
	Bundle               types.JSONText `db:"bundle" json:"bundle"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
}
