package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medready/enroll-advisor-api/internal/models"
	"github.com/medready/enroll-advisor-api/pkg/config"
	appErrors "github.com/medready/enroll-advisor-api/pkg/errors"
)

func newTestClient(baseURL, webhookURL string) *Client {
	return NewClient(config.BridgeConfig{
		BaseURL:              baseURL,
		APIKey:               "test-key",
		AutomationWebhookURL: webhookURL,
		Timeout:              5 * time.Second,
	}, zap.NewNop())
}

func TestFetchScheduleOptions(t *testing.T) {
	var gotPath, gotKey string
	var gotBody scheduleRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Bridge-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(scheduleResponse{Options: []models.ScheduleOption{
			{Label: "morning", StartDateTimeISO: "2026-09-07T09:00:00Z"},
		}})
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(srv.URL, "")
	options, err := client.FetchScheduleOptions(context.Background(), "NAT_101")

	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "morning", options[0].Label)
	assert.Equal(t, "/chatbot/schedules", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "NAT_101", gotBody.CourseCode)
}

func TestFetchScheduleOptionsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(srv.URL, "")
	_, err := client.FetchScheduleOptions(context.Background(), "NAT_101")

	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
}

func TestFetchScheduleOptionsMissingBaseURL(t *testing.T) {
	client := newTestClient("", "")

	_, err := client.FetchScheduleOptions(context.Background(), "NAT_101")

	assert.Error(t, err)
}

func TestSyncConversationToleratesEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chatbot/inbox/sync", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(srv.URL, "")
	err := client.SyncConversation(context.Background(), models.ConversationSync{
		ConversationID: "conv-1",
		Messages: []models.ConversationMessage{
			{Role: "user", Text: "hi", SentAt: time.Now()},
		},
	})

	assert.NoError(t, err)
}

func TestTriggerPrescreenAutomation(t *testing.T) {
	var gotRecord models.PrescreenRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRecord))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	client := newTestClient("", srv.URL)
	err := client.TriggerPrescreenAutomation(context.Background(), models.PrescreenRecord{ID: "pre-1", Email: "ada@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "pre-1", gotRecord.ID)
}

func TestTriggerPrescreenAutomationSkipsWithoutURL(t *testing.T) {
	client := newTestClient("", "")

	err := client.TriggerPrescreenAutomation(context.Background(), models.PrescreenRecord{ID: "pre-1"})

	assert.NoError(t, err)
}

func TestTriggerPrescreenAutomationFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	client := newTestClient("", srv.URL)
	err := client.TriggerPrescreenAutomation(context.Background(), models.PrescreenRecord{ID: "pre-1"})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
}
