package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medready/enroll-advisor-api/internal/dto"
	"github.com/medready/enroll-advisor-api/internal/models"
	appErrors "github.com/medready/enroll-advisor-api/pkg/errors"
	"github.com/medready/enroll-advisor-api/pkg/llm"
)

type decisionReader interface {
	ListByConversation(ctx context.Context, conversationID string) ([]models.RecommendationDecision, error)
}

type conversationSyncer interface {
	SyncConversation(ctx context.Context, payload models.ConversationSync) error
}

// ChatService assembles the system prompt and relays one user turn to the
// language model. The deterministic decision bundle (when one has been
// logged for the conversation) is injected into the prompt so the model
// quotes facts instead of generating them.
type ChatService struct {
	client    llm.Client
	decisions decisionReader
	syncer    conversationSyncer
	metrics   *MetricsService
	logger    *zap.Logger
}

// ChatServiceParams groups constructor dependencies. Decisions and Syncer
// are optional.
type ChatServiceParams struct {
	Client    llm.Client
	Decisions decisionReader
	Syncer    conversationSyncer
	Metrics   *MetricsService
	Logger    *zap.Logger
}

// NewChatService wires the chat flow.
func NewChatService(params ChatServiceParams) *ChatService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client := params.Client
	if client == nil {
		client = llm.NewMock()
	}
	return &ChatService{
		client:    client,
		decisions: params.Decisions,
		syncer:    params.Syncer,
		metrics:   params.Metrics,
		logger:    logger,
	}
}

// Reply handles one chat turn.
func (s *ChatService) Reply(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	bundle := s.latestBundle(ctx, req.ConversationID)
	systemPrompt := BuildSystemPrompt(req.Language, req.ProgramsSelected, bundle)

	start := time.Now()
	reply, err := s.client.Reply(ctx, systemPrompt, req.Message)
	if s.metrics != nil {
		s.metrics.ObserveLLMReply(time.Since(start))
	}
	if err != nil {
		s.logger.Error("llm reply failed",
			zap.String("conversation_id", conversationID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "assistant is temporarily unavailable")
	}

	s.syncTranscript(ctx, conversationID, req, reply)

	return &dto.ChatResponse{ConversationID: conversationID, Reply: reply}, nil
}

// latestBundle pulls the most recent logged decision for the conversation.
// Missing history is normal (chat before pre-screen completion).
func (s *ChatService) latestBundle(ctx context.Context, conversationID string) *models.RecommendationBundle {
	if s.decisions == nil || conversationID == "" {
		return nil
	}
	decisions, err := s.decisions.ListByConversation(ctx, conversationID)
	if err != nil {
		s.logger.Warn("decision lookup failed",
			zap.String("conversation_id", conversationID), zap.Error(err))
		return nil
	}
	if len(decisions) == 0 {
		return nil
	}

	var bundle models.RecommendationBundle
	latest := decisions[len(decisions)-1]
	if err := json.Unmarshal(latest.Bundle, &bundle); err != nil {
		s.logger.Warn("decision bundle unmarshal failed",
			zap.String("decision_id", latest.ID), zap.Error(err))
		return nil
	}
	return &bundle
}

// syncTranscript mirrors the turn into the CRM inbox, best-effort.
func (s *ChatService) syncTranscript(ctx context.Context, conversationID string, req dto.ChatRequest, reply string) {
	if s.syncer == nil {
		return
	}
	now := time.Now().UTC()
	payload := models.ConversationSync{
		ConversationID: conversationID,
		PrescreenID:    req.PrescreenID,
		Messages: []models.ConversationMessage{
			{Role: "user", Text: req.Message, SentAt: now},
			{Role: "assistant", Text: reply, SentAt: now},
		},
	}
	start := time.Now()
	err := s.syncer.SyncConversation(ctx, payload)
	if s.metrics != nil {
		s.metrics.ObserveBridgeCall("inbox_sync", time.Since(start))
	}
	if err != nil {
		s.logger.Warn("conversation sync failed",
			zap.String("conversation_id", conversationID), zap.Error(err))
	}
}
