package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/medready/enroll-advisor-api/internal/dto"
	"github.com/medready/enroll-advisor-api/internal/models"
	appErrors "github.com/medready/enroll-advisor-api/pkg/errors"
	"github.com/medready/enroll-advisor-api/pkg/response"
)

type recommendationService interface {
	Recommend(ctx context.Context, rawGoals []string, availability models.Availability, conversationID, prescreenID string) (*models.RecommendationBundle, error)
}

type catalogRefresher interface {
	Refresh(ctx context.Context) (*models.CatalogSnapshot, error)
}

// RecommendationHandler exposes the engine directly, plus the ops catalog
// refresh hook.
type RecommendationHandler struct {
	service  recommendationService
	catalog  catalogRefresher
	validate *validator.Validate
}

// NewRecommendationHandler constructs the handler.
func NewRecommendationHandler(service recommendationService, catalog catalogRefresher, validate *validator.Validate) *RecommendationHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &RecommendationHandler{service: service, catalog: catalog, validate: validate}
}

// Recommend handles POST /recommendations.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var req dto.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid recommendation payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recommendation request"))
		return
	}

	bundle, err := h.service.Recommend(c.Request.Context(), req.CertificateGoals, req.Availability.ToModel(), req.ConversationID, "")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bundle)
}

// RefreshCatalog handles POST /catalog/refresh (bridge-key protected).
func (h *RecommendationHandler) RefreshCatalog(c *gin.Context) {
	if h.catalog == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	snapshot, err := h.catalog.Refresh(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"courses":    len(snapshot.Courses),
		"payments":   len(snapshot.Payments),
		"fetched_at": snapshot.FetchedAt,
	})
}
