package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medready/enroll-advisor-api/internal/dto"
	"github.com/medready/enroll-advisor-api/internal/models"
	appErrors "github.com/medready/enroll-advisor-api/pkg/errors"
)

type prescreenWriter interface {
	Create(ctx context.Context, record *models.PrescreenRecord) error
}

type automationTrigger interface {
	TriggerPrescreenAutomation(ctx context.Context, record models.PrescreenRecord) error
}

type recommender interface {
	Recommend(ctx context.Context, rawGoals []string, availability models.Availability, conversationID, prescreenID string) (*models.RecommendationBundle, error)
}

// PrescreenService handles the multi-step form submission: validate,
// persist, fire the CRM automation, then run the recommendation engine.
type PrescreenService struct {
	validator  *validator.Validate
	records    prescreenWriter
	automation automationTrigger
	engine     recommender
	metrics    *MetricsService
	logger     *zap.Logger
}

// PrescreenServiceParams groups constructor dependencies. Records and
// Automation are optional so the widget keeps working when the database or
// bridge is down.
type PrescreenServiceParams struct {
	Validator  *validator.Validate
	Records    prescreenWriter
	Automation automationTrigger
	Engine     recommender
	Metrics    *MetricsService
	Logger     *zap.Logger
}

// NewPrescreenService wires the intake flow.
func NewPrescreenService(params PrescreenServiceParams) *PrescreenService {
	v := params.Validator
	if v == nil {
		v = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrescreenService{
		validator:  v,
		records:    params.Records,
		automation: params.Automation,
		engine:     params.Engine,
		metrics:    params.Metrics,
		logger:     logger,
	}
}

// Submit processes one pre-screen form.
func (s *PrescreenService) Submit(ctx context.Context, req dto.PrescreenRequest, conversationID string) (*dto.PrescreenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid prescreen submission")
	}
	// A daysOff selection with no days is an upstream widget gap; the
	// engine treats it as "no preference" rather than rejecting the lead.
	if req.Availability.Type == string(models.AvailabilityDaysOff) && len(req.Availability.DaysOff) == 0 {
		s.logger.Warn("daysOff availability submitted with empty day set",
			zap.String("conversation_id", conversationID))
	}

	record := models.PrescreenRecord{
		ID:               uuid.NewString(),
		Language:         req.Language,
		CertificateGoals: req.CertificateGoals,
		AvailabilityType: req.Availability.Type,
		DaysOff:          req.Availability.DaysOff,
		FirstName:        req.Contact.FirstName,
		LastName:         req.Contact.LastName,
		Email:            req.Contact.Email,
		Phone:            req.Contact.Phone,
		MarketingConsent: req.MarketingConsent,
	}

	if s.records != nil {
		if err := s.records.Create(ctx, &record); err != nil {
			// The lead still gets a recommendation; the record loss is
			// surfaced through logs and the CRM automation below.
			s.logger.Error("persist prescreen failed",
				zap.String("prescreen_id", record.ID), zap.Error(err))
		}
	}

	if s.automation != nil {
		start := time.Now()
		err := s.automation.TriggerPrescreenAutomation(ctx, record)
		if s.metrics != nil {
			s.metrics.ObserveBridgeCall("prescreen_automation", time.Since(start))
		}
		if err != nil {
			s.logger.Warn("prescreen automation failed",
				zap.String("prescreen_id", record.ID), zap.Error(err))
		}
	}

	bundle, err := s.engine.Recommend(ctx, req.CertificateGoals, req.Availability.ToModel(), conversationID, record.ID)
	if err != nil {
		return nil, err
	}

	return &dto.PrescreenResponse{PrescreenID: record.ID, Recommendation: bundle}, nil
}
