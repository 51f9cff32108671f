package bot

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookHandler(t *testing.T) {
	updates := make(chan tgbotapi.Update, 1)
	parse := func(r *http.Request) (*tgbotapi.Update, error) {
		if r.Header.Get("X-Bad") != "" {
			return nil, errors.New("bad body")
		}
		return &tgbotapi.Update{UpdateID: 7}, nil
	}
	mux := NewMux("/hook/secret", WebhookHandler(nil, parse, updates))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hook/secret", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, updates, 1)
	assert.Equal(t, 7, (<-updates).UpdateID)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/hook/secret", strings.NewReader("{}"))
	req.Header.Set("X-Bad", "1")
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hook/secret", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWebhookHandler_ReleasesBlockedRequestOnShutdown(t *testing.T) {
	updates := make(chan tgbotapi.Update)
	done := make(chan struct{})
	parse := func(*http.Request) (*tgbotapi.Update, error) {
		return &tgbotapi.Update{UpdateID: 1}, nil
	}
	h := WebhookHandler(done, parse, updates)

	rec := httptest.NewRecorder()
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}")))
	}()

	select {
	case <-finished:
		t.Fatal("request returned before the update was queued")
	case <-time.After(50 * time.Millisecond):
	}

	close(done)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("request still blocked after shutdown")
	}
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNewMux_HealthAndMetrics(t *testing.T) {
	mux := NewMux("", nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "placefacts_dataset_landmarks")
}

func TestWebhookPath(t *testing.T) {
	assert.Equal(t, "/telegram/abc", WebhookPath("https://bot.example.com/telegram/abc"))
	assert.Equal(t, "/", WebhookPath("https://bot.example.com"))
	assert.Equal(t, "/", WebhookPath("://bad"))
}
