// Package bot routes Telegram updates to the location pipeline and renders
// the replies.
package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"placefacts/internal/lookup"
	"placefacts/internal/monitoring"
)

// Sender delivers a message or an edit to Telegram. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Processor answers a location query.
type Processor interface {
	Process(ctx context.Context, q lookup.Query) (*lookup.Result, bool)
}

// Handler handles updates concurrently, at most maxConcurrent at a time.
type Handler struct {
	sender    Sender
	processor Processor
	sem       *semaphore.Weighted
	wg        sync.WaitGroup
	logger    logrus.FieldLogger
}

func NewHandler(sender Sender, processor Processor, maxConcurrent int, logger logrus.FieldLogger) *Handler {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Handler{
		sender:    sender,
		processor: processor,
		sem:       semaphore.NewWeighted(int64(maxConcurrent)),
		logger:    logger,
	}
}

// Serve dispatches updates until ctx is done or the channel is closed, then
// waits for in-flight handlers to finish.
func (h *Handler) Serve(ctx context.Context, updates <-chan tgbotapi.Update) {
	defer h.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			h.Dispatch(ctx, update)
		}
	}
}

// Dispatch handles update in its own goroutine. It blocks while the
// concurrency limit is reached. Handlers already started are not canceled
// when ctx is.
func (h *Handler) Dispatch(ctx context.Context, update tgbotapi.Update) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return
	}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer h.sem.Release(1)
		h.Handle(context.WithoutCancel(ctx), update)
	}()
}

// Wait blocks until every dispatched update has been handled.
func (h *Handler) Wait() {
	h.wg.Wait()
}

// Handle routes a single update. A panic is logged and answered with a
// generic error message.
func (h *Handler) Handle(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		monitoring.BotUpdatesTotal.WithLabelValues("ignored").Inc()
		return
	}

	logger := h.logger.WithField("chat_id", msg.Chat.ID)
	if msg.From != nil {
		logger = logger.WithField("requester_id", msg.From.ID)
	}

	defer func() {
		if r := recover(); r != nil {
			monitoring.BotUpdatesTotal.WithLabelValues("error").Inc()
			logger.WithError(fmt.Errorf("%v", r)).Error("Exception while handling an update")
			h.reply(logger, msg.Chat.ID, errorText())
		}
	}()

	switch {
	case msg.IsCommand():
		h.handleCommand(logger, msg)
	case msg.Location != nil:
		monitoring.BotUpdatesTotal.WithLabelValues("location").Inc()
		h.handleLocation(ctx, logger, msg)
	default:
		monitoring.BotUpdatesTotal.WithLabelValues("unsupported").Inc()
		logger.Info("Unsupported message type")
		h.reply(logger, msg.Chat.ID, unsupportedText())
	}
}

func (h *Handler) handleCommand(logger logrus.FieldLogger, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		monitoring.BotUpdatesTotal.WithLabelValues("start").Inc()
		firstName := ""
		if msg.From != nil {
			firstName = msg.From.FirstName
		}
		logger.Info("User started the bot")
		h.reply(logger, msg.Chat.ID, greetingText(firstName))
	case "help":
		monitoring.BotUpdatesTotal.WithLabelValues("help").Inc()
		logger.Info("User requested help")
		h.reply(logger, msg.Chat.ID, helpText())
	default:
		monitoring.BotUpdatesTotal.WithLabelValues("unsupported").Inc()
		h.reply(logger, msg.Chat.ID, unsupportedText())
	}
}

func (h *Handler) handleLocation(ctx context.Context, logger logrus.FieldLogger, msg *tgbotapi.Message) {
	loc := msg.Location
	logger = logger.WithFields(logrus.Fields{"lat": loc.Latitude, "lon": loc.Longitude})
	logger.Info("Received location")

	placeholder, err := h.send(msg.Chat.ID, placeholderText())
	if err != nil {
		logger.WithError(err).Error("Failed to send placeholder")
		return
	}

	var requesterID int64
	if msg.From != nil {
		requesterID = msg.From.ID
	}

	text := notFoundText()
	if res, ok := h.processor.Process(ctx, lookup.Query{Lat: loc.Latitude, Lon: loc.Longitude, RequesterID: requesterID}); ok {
		text = FormatResult(res)
	} else {
		logger.Warn("No interesting places found")
	}

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, placeholder.MessageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	edit.DisableWebPagePreview = true
	if _, err := h.sender.Send(edit); err != nil {
		logger.WithError(err).Error("Failed to edit placeholder")
	}
}

func (h *Handler) send(chatID int64, text string) (tgbotapi.Message, error) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeMarkdownV2
	return h.sender.Send(m)
}

func (h *Handler) reply(logger logrus.FieldLogger, chatID int64, text string) {
	if _, err := h.send(chatID, text); err != nil {
		logger.WithError(err).Error("Failed to send message")
	}
}
