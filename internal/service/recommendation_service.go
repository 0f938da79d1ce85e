package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medready/enroll-advisor-api/internal/models"
)

type snapshotProvider interface {
	Snapshot(ctx context.Context) (*models.CatalogSnapshot, error)
}

type scheduleFetcher interface {
	FetchScheduleOptions(ctx context.Context, courseCode string) ([]models.ScheduleOption, error)
}

type decisionWriter interface {
	Create(ctx context.Context, decision *models.RecommendationDecision) error
}

// RecommendationService sequences the engine: normalize goals, match
// courses, stop on a staff handoff, compute payment for the primary pick,
// then fetch and select schedule slots. Stateless across calls; every
// invocation works on a fresh snapshot passed in by the catalog provider.
type RecommendationService struct {
	normalizer *GoalNormalizer
	matcher    *CourseMatcher
	planner    *PaymentPlanner
	selector   *ScheduleSelector
	catalog    snapshotProvider
	schedules  scheduleFetcher
	decisions  decisionWriter
	metrics    *MetricsService
	logger     *zap.Logger
}

// RecommendationServiceParams groups constructor dependencies. Schedules
// and Decisions are optional; the bundle degrades gracefully without them.
type RecommendationServiceParams struct {
	Normalizer *GoalNormalizer
	Matcher    *CourseMatcher
	Planner    *PaymentPlanner
	Selector   *ScheduleSelector
	Catalog    snapshotProvider
	Schedules  scheduleFetcher
	Decisions  decisionWriter
	Metrics    *MetricsService
	Logger     *zap.Logger
}

// NewRecommendationService wires the engine.
func NewRecommendationService(params RecommendationServiceParams) *RecommendationService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	normalizer := params.Normalizer
	if normalizer == nil {
		normalizer = NewGoalNormalizer()
	}
	matcher := params.Matcher
	if matcher == nil {
		matcher = NewCourseMatcher(normalizer, 0, logger)
	}
	planner := params.Planner
	if planner == nil {
		planner = NewPaymentPlanner(PaymentPlannerConfig{}, logger)
	}
	selector := params.Selector
	if selector == nil {
		selector = NewScheduleSelector(logger)
	}
	return &RecommendationService{
		normalizer: normalizer,
		matcher:    matcher,
		planner:    planner,
		selector:   selector,
		catalog:    params.Catalog,
		schedules:  params.Schedules,
		decisions:  params.Decisions,
		metrics:    params.Metrics,
		logger:     logger,
	}
}

// Recommend produces the decision bundle for one request. conversationID
// keys the audit log; prescreenID may be empty.
func (s *RecommendationService) Recommend(
	ctx context.Context,
	rawGoals []string,
	availability models.Availability,
	conversationID, prescreenID string,
) (*models.RecommendationBundle, error) {
	goals := s.normalizer.Normalize(rawGoals)

	// The CMA gate fires before the catalog is even fetched: an escalated
	// request must not depend on catalog availability.
	if ContainsCMA(goals) {
		bundle := &models.RecommendationBundle{
			NormalizedGoals: goals,
			Match:           models.MatchOutcome{RequiresStaffHandoff: true},
			ScheduleOptions: []models.ScheduleOption{},
		}
		s.recordOutcome("handoff")
		s.logDecision(ctx, conversationID, prescreenID, bundle)
		return bundle, nil
	}

	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	outcome := s.matcher.Match(snapshot.Courses, goals)
	bundle := &models.RecommendationBundle{
		NormalizedGoals: goals,
		Match:           outcome,
		ScheduleOptions: []models.ScheduleOption{},
	}

	if outcome.RequiresStaffHandoff {
		s.recordOutcome("handoff")
		s.logDecision(ctx, conversationID, prescreenID, bundle)
		return bundle, nil
	}
	s.recordOutcome(string(outcome.MatchType))

	primary := outcome.Primary()
	if primary == nil {
		s.logger.Warn("empty catalog, no recommendation possible",
			zap.String("conversation_id", conversationID))
		s.logDecision(ctx, conversationID, prescreenID, bundle)
		return bundle, nil
	}

	bundle.Payment = s.planner.ComputePayment(*primary, snapshot.Payments)

	if s.schedules != nil {
		options, err := s.schedules.FetchScheduleOptions(ctx, primary.CourseCode)
		if err != nil {
			// Zero options is a defined degraded state; the reply falls
			// back to "we'll help you choose a session after enrollment".
			s.logger.Warn("schedule fetch failed",
				zap.String("course_code", primary.CourseCode), zap.Error(err))
		} else {
			bundle.ScheduleOptions = s.selector.SelectBestTwo(options, availability)
		}
	}

	s.logDecision(ctx, conversationID, prescreenID, bundle)
	return bundle, nil
}

func (s *RecommendationService) recordOutcome(outcome string) {
	if s.metrics != nil && outcome != "" {
		s.metrics.RecordMatchOutcome(outcome)
	}
}

// logDecision is best-effort: a broken audit trail must not block the
// learner's answer.
func (s *RecommendationService) logDecision(ctx context.Context, conversationID, prescreenID string, bundle *models.RecommendationBundle) {
	if s.decisions == nil || conversationID == "" {
		return
	}

	raw, err := json.Marshal(bundle)
	if err != nil {
		s.logger.Error("marshal decision bundle", zap.Error(err))
		return
	}

	decision := &models.RecommendationDecision{
		ID:                   uuid.NewString(),
		ConversationID:       conversationID,
		RequiresStaffHandoff: bundle.Match.RequiresStaffHandoff,
		MatchType:            string(bundle.Match.MatchType),
		Bundle:               raw,
	}
	if prescreenID != "" {
		decision.PrescreenID = &prescreenID
	}
	if primary := bundle.Match.Primary(); primary != nil {
		decision.PrimaryCourseCode = &primary.CourseCode
	}

	if err := s.decisions.Create(ctx, decision); err != nil {
		s.logger.Error("persist recommendation decision",
			zap.String("conversation_id", conversationID), zap.Error(err))
	}
}
