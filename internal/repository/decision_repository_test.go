package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/require"

	"github.com/medready/enroll-advisor-api/internal/models"
)

func newDecisionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDecisionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newDecisionRepoMock(t)
	defer cleanup()

	repo := NewDecisionRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO recommendation_decisions")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	code := "NAT_101"
	decision := &models.RecommendationDecision{
		ID:                "dec-1",
		ConversationID:    "conv-1",
		MatchType:         string(models.MatchPerfect),
		PrimaryCourseCode: &code,
		Bundle:            types.JSONText(`{"normalized_goals":["nursing assistant training"]}`),
	}
	require.NoError(t, repo.Create(context.Background(), decision))
	require.False(t, decision.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecisionRepositoryListByConversation(t *testing.T) {
	db, mock, cleanup := newDecisionRepoMock(t)
	defer cleanup()

	repo := NewDecisionRepository(db)
	rows := sqlmock.NewRows([]string{"id", "conversation_id", "prescreen_id", "requires_staff_handoff", "match_type", "primary_course_code", "bundle", "created_at"}).
		AddRow("dec-1", "conv-1", nil, false, "perfect", "NAT_101", []byte(`{}`), time.Now().Add(-time.Minute)).
		AddRow("dec-2", "conv-1", "pre-1", true, "", nil, []byte(`{}`), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, conversation_id, prescreen_id, requires_staff_handoff")).
		WithArgs("conv-1").
		WillReturnRows(rows)

	decisions, err := repo.ListByConversation(context.Background(), "conv-1")
	require.NoError(t, err)
	require.Len(t, decisions, 2)
	require.Equal(t, "dec-1", decisions[0].ID)
	require.NotNil(t, decisions[0].PrimaryCourseCode)
	require.Equal(t, "NAT_101", *decisions[0].PrimaryCourseCode)
	require.True(t, decisions[1].RequiresStaffHandoff)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecisionRepositoryListEmpty(t *testing.T) {
	db, mock, cleanup := newDecisionRepoMock(t)
	defer cleanup()

	repo := NewDecisionRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, conversation_id")).
		WithArgs("conv-x").
		WillReturnRows(sqlmock.NewRows([]string{"id", "conversation_id", "prescreen_id", "requires_staff_handoff", "match_type", "primary_course_code", "bundle", "created_at"}))

	decisions, err := repo.ListByConversation(context.Background(), "conv-x")
	require.NoError(t, err)
	require.Empty(t, decisions)
	require.NoError(t, mock.ExpectationsWereMet())
}
