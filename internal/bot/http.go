package bot

import (
	"net/http"
	"net/url"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"placefacts/internal/monitoring"
)

// UpdateParser decodes a webhook request. (*tgbotapi.BotAPI).HandleUpdate satisfies it.
type UpdateParser func(r *http.Request) (*tgbotapi.Update, error)

// WebhookHandler decodes Telegram webhook calls and queues the updates. The
// request is held until the update is queued, the client goes away or done is
// closed; the last two answer 503 so Telegram retries the update later.
func WebhookHandler(done <-chan struct{}, parse UpdateParser, updates chan<- tgbotapi.Update) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		update, err := parse(r)
		if err != nil {
			http.Error(w, "invalid update", http.StatusBadRequest)
			return
		}
		select {
		case updates <- *update:
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
		case <-done:
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
		}
	})
}

// WebhookPath returns the path component of the public webhook URL.
func WebhookPath(webhookURL string) string {
	u, err := url.Parse(webhookURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

// NewMux serves /healthz and /metrics, plus the webhook at path when h is set.
func NewMux(path string, h http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", monitoring.Handler())
	if h != nil {
		mux.Handle(path, h)
	}
	return mux
}
