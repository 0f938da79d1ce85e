package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medready/enroll-advisor-api/internal/models"
	"github.com/medready/enroll-advisor-api/pkg/config"
	appErrors "github.com/medready/enroll-advisor-api/pkg/errors"
)

const keyHeader = "X-Bridge-Key"

// Client talks to the CRM/calendar bridge (site HTTP functions) and the
// marketing automation webhook. Every method is best understood as a thin
// POST wrapper; the recommendation core never calls this directly.
type Client struct {
	baseURL    string
	apiKey     string
	webhookURL string
	httpc      *http.Client
	logger     *zap.Logger
}

// NewClient constructs the bridge client.
func NewClient(cfg config.BridgeConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		webhookURL: cfg.AutomationWebhookURL,
		httpc:      &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type scheduleRequest struct {
	CourseCode string `json:"courseCode"`
}

type scheduleResponse struct {
	Options []models.ScheduleOption `json:"options"`
}

// FetchScheduleOptions returns the session offerings scoped to one course.
func (c *Client) FetchScheduleOptions(ctx context.Context, courseCode string) ([]models.ScheduleOption, error) {
	var out scheduleResponse
	if err := c.post(ctx, "/chatbot/schedules", scheduleRequest{CourseCode: courseCode}, &out); err != nil {
		return nil, err
	}
	return out.Options, nil
}

// SyncConversation mirrors a conversation transcript into the CRM inbox.
func (c *Client) SyncConversation(ctx context.Context, payload models.ConversationSync) error {
	return c.post(ctx, "/chatbot/inbox/sync", payload, nil)
}

// TriggerPrescreenAutomation fires the automation webhook that creates the
// CRM contact and pre-screen record. A missing webhook URL is a skip, not
// an error; some triggers answer 204 with an empty body.
func (c *Client) TriggerPrescreenAutomation(ctx context.Context, record models.PrescreenRecord) error {
	if c.webhookURL == "" {
		c.logger.Debug("automation webhook not configured, skipping")
		return nil
	}

	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal automation payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build automation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "automation webhook unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return appErrors.Wrap(
			fmt.Errorf("status %d: %s", resp.StatusCode, string(raw)),
			appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "automation webhook failed",
		)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if c.baseURL == "" {
		return appErrors.Clone(appErrors.ErrUpstream, "bridge base URL not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal bridge payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build bridge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(keyHeader, c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "bridge unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return appErrors.Wrap(
			fmt.Errorf("status %d: %s", resp.StatusCode, string(raw)),
			appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("bridge %s failed", path),
		)
	}

	if dest == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read bridge response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode bridge response for %s: %w", path, err)
	}
	return nil
}
