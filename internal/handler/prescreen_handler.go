package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/medready/enroll-advisor-api/internal/dto"
	appErrors "github.com/medready/enroll-advisor-api/pkg/errors"
	"github.com/medready/enroll-advisor-api/pkg/response"
)

type prescreenService interface {
	Submit(ctx context.Context, req dto.PrescreenRequest, conversationID string) (*dto.PrescreenResponse, error)
}

// PrescreenHandler receives the widget's multi-step form submission.
type PrescreenHandler struct {
	service prescreenService
}

// NewPrescreenHandler constructs the handler.
func NewPrescreenHandler(service prescreenService) *PrescreenHandler {
	return &PrescreenHandler{service: service}
}

// Submit handles POST /prescreen.
func (h *PrescreenHandler) Submit(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var req dto.PrescreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid prescreen payload"))
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), req, c.Query("conversationId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}
