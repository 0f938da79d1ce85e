package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medready/enroll-advisor-api/internal/dto"
	appErrors "github.com/medready/enroll-advisor-api/pkg/errors"
	"github.com/medready/enroll-advisor-api/pkg/response"
)

type chatService interface {
	Reply(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error)
}

// ChatHandler exposes the conversational endpoint used by the widget.
type ChatHandler struct {
	service chatService
}

// NewChatHandler constructs the handler.
func NewChatHandler(service chatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// Reply handles POST /chat.
func (h *ChatHandler) Reply(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid chat payload"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "message is required"))
		return
	}

	resp, err := h.service.Reply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
