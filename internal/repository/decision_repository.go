package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medready/enroll-advisor-api/internal/models"
)

// DecisionRepository logs every engine decision (including staff handoffs)
// so the CRM trail shows what the bot actually offered.
type DecisionRepository struct {
	db *sqlx.DB
}

// NewDecisionRepository constructs the repository.
func NewDecisionRepository(db *sqlx.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// Create inserts a decision record.
func (r *DecisionRepository) Create(ctx context.Context, decision *models.RecommendationDecision) error {
	const query = `INSERT INTO recommendation_decisions
(id, conversation_id, prescreen_id, requires_staff_handoff, match_type, primary_course_code, bundle, created_at)
VALUES (:id, :conversation_id, :prescreen_id, :requires_staff_handoff, :match_type, :primary_course_code, :bundle, :created_at)`
	decision.CreatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, decision); err != nil {
		return fmt.Errorf("insert recommendation decision: %w", err)
	}
	return nil
}

// ListByConversation returns decisions for one conversation, oldest first.
func (r *DecisionRepository) ListByConversation(ctx context.Context, conversationID string) ([]models.RecommendationDecision, error) {
	const query = `SELECT id, conversation_id, prescreen_id, requires_staff_handoff, match_type, primary_course_code, bundle, created_at
FROM recommendation_decisions WHERE conversation_id = $1 ORDER BY created_at ASC`
	var decisions []models.RecommendationDecision
	if err := r.db.SelectContext(ctx, &decisions, query, conversationID); err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	return decisions, nil
}
