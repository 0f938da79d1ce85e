package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medready/enroll-advisor-api/internal/models"
)

// PrescreenRepository persists pre-screen form submissions.
type PrescreenRepository struct {
	db *sqlx.DB
}

// NewPrescreenRepository constructs the repository.
func NewPrescreenRepository(db *sqlx.DB) *PrescreenRepository {
	return &PrescreenRepository{db: db}
}

// Create inserts a new pre-screen record.
func (r *PrescreenRepository) Create(ctx context.Context, record *models.PrescreenRecord) error {
	const query = `INSERT INTO prescreens
(id, language, certificate_goals, availability_type, days_off, first_name, last_name, email, phone, marketing_consent, created_at)
VALUES (:id, :language, :certificate_goals, :availability_type, :days_off, :first_name, :last_name, :email, :phone, :marketing_consent, :created_at)`
	record.CreatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("insert prescreen: %w", err)
	}
	return nil
}

// FindByID fetches one pre-screen record.
func (r *PrescreenRepository) FindByID(ctx context.Context, id string) (*models.PrescreenRecord, error) {
	const query = `SELECT id, language, certificate_goals, availability_type, days_off,
first_name, last_name, email, phone, marketing_consent, created_at
FROM prescreens WHERE id = $1`
	var record models.PrescreenRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}
