package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medready/enroll-advisor-api/internal/dto"
	"github.com/medready/enroll-advisor-api/internal/models"
	appErrors "github.com/medready/enroll-advisor-api/pkg/errors"
)

type fakePrescreenWriter struct {
	records []*models.PrescreenRecord
	err     error
}

func (f *fakePrescreenWriter) Create(_ context.Context, record *models.PrescreenRecord) error {
	f.records = append(f.records, record)
	return f.err
}

type fakeAutomationTrigger struct {
	records []models.PrescreenRecord
	err     error
}

func (f *fakeAutomationTrigger) TriggerPrescreenAutomation(_ context.Context, record models.PrescreenRecord) error {
	f.records = append(f.records, record)
	return f.err
}

type fakeRecommender struct {
	bundle          *models.RecommendationBundle
	err             error
	lastGoals       []string
	lastPrescreenID string
}

func (f *fakeRecommender) Recommend(_ context.Context, rawGoals []string, _ models.Availability, _, prescreenID string) (*models.RecommendationBundle, error) {
	f.lastGoals = rawGoals
	f.lastPrescreenID = prescreenID
	return f.bundle, f.err
}

func validPrescreenRequest() dto.PrescreenRequest {
	return dto.PrescreenRequest{
		Language:         "en",
		CertificateGoals: []string{"CNA"},
		Availability:     dto.AvailabilityPayload{Type: "notWorking"},
		Contact: dto.ContactPayload{
			FirstName: "Ada",
			LastName:  "Nguyen",
			Email:     "ada@example.com",
			Phone:     "5551234567",
		},
		MarketingConsent: true,
	}
}

func TestPrescreenSubmitFullFlow(t *testing.T) {
	writer := &fakePrescreenWriter{}
	automation := &fakeAutomationTrigger{}
	engine := &fakeRecommender{bundle: &models.RecommendationBundle{}}
	svc := NewPrescreenService(PrescreenServiceParams{
		Records:    writer,
		Automation: automation,
		Engine:     engine,
		Logger:     zap.NewNop(),
	})

	resp, err := svc.Submit(context.Background(), validPrescreenRequest(), "conv-1")

	require.NoError(t, err)
	assert.NotEmpty(t, resp.PrescreenID)
	assert.NotNil(t, resp.Recommendation)

	require.Len(t, writer.records, 1)
	assert.Equal(t, resp.PrescreenID, writer.records[0].ID)
	assert.Equal(t, "Ada", writer.records[0].FirstName)

	require.Len(t, automation.records, 1)
	assert.Equal(t, resp.PrescreenID, automation.records[0].ID)

	assert.Equal(t, []string{"CNA"}, engine.lastGoals)
	assert.Equal(t, resp.PrescreenID, engine.lastPrescreenID)
}

func TestPrescreenSubmitValidationFailure(t *testing.T) {
	svc := NewPrescreenService(PrescreenServiceParams{Engine: &fakeRecommender{}, Logger: zap.NewNop()})
	req := validPrescreenRequest()
	req.Contact.Email = "not-an-email"

	_, err := svc.Submit(context.Background(), req, "conv-2")

	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestPrescreenSubmitRejectsUnknownAvailabilityType(t *testing.T) {
	svc := NewPrescreenService(PrescreenServiceParams{Engine: &fakeRecommender{}, Logger: zap.NewNop()})
	req := validPrescreenRequest()
	req.Availability.Type = "weekends"

	_, err := svc.Submit(context.Background(), req, "conv-3")

	assert.Error(t, err)
}

func TestPrescreenSubmitPersistFailureContinues(t *testing.T) {
	writer := &fakePrescreenWriter{err: errors.New("db down")}
	engine := &fakeRecommender{bundle: &models.RecommendationBundle{}}
	svc := NewPrescreenService(PrescreenServiceParams{Records: writer, Engine: engine, Logger: zap.NewNop()})

	resp, err := svc.Submit(context.Background(), validPrescreenRequest(), "conv-4")

	require.NoError(t, err)
	assert.NotNil(t, resp.Recommendation)
}

func TestPrescreenSubmitAutomationFailureContinues(t *testing.T) {
	automation := &fakeAutomationTrigger{err: errors.New("bridge down")}
	engine := &fakeRecommender{bundle: &models.RecommendationBundle{}}
	svc := NewPrescreenService(PrescreenServiceParams{Automation: automation, Engine: engine, Logger: zap.NewNop()})

	resp, err := svc.Submit(context.Background(), validPrescreenRequest(), "conv-5")

	require.NoError(t, err)
	assert.NotNil(t, resp.Recommendation)
}

func TestPrescreenSubmitEngineFailurePropagates(t *testing.T) {
	engine := &fakeRecommender{err: errors.New("catalog unavailable")}
	svc := NewPrescreenService(PrescreenServiceParams{Engine: engine, Logger: zap.NewNop()})

	_, err := svc.Submit(context.Background(), validPrescreenRequest(), "conv-6")

	assert.Error(t, err)
}

func TestPrescreenSubmitEmptyDaysOffAccepted(t *testing.T) {
	engine := &fakeRecommender{bundle: &models.RecommendationBundle{}}
	svc := NewPrescreenService(PrescreenServiceParams{Engine: engine, Logger: zap.NewNop()})
	req := validPrescreenRequest()
	req.Availability = dto.AvailabilityPayload{Type: "daysOff"}

	resp, err := svc.Submit(context.Background(), req, "conv-7")

	require.NoError(t, err)
	assert.NotNil(t, resp.Recommendation)
}
