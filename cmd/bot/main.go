package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"placefacts/internal/bot"
	"placefacts/internal/config"
	"placefacts/internal/facts"
	"placefacts/internal/landmark"
	"placefacts/internal/lookup"
	"placefacts/internal/monitoring"
	"placefacts/internal/storage"
	"placefacts/pkg/graceful"
	"placefacts/pkg/kafkaclient"
	"placefacts/pkg/llm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	cfg.Log.Configure(log.StandardLogger())
	logger := log.StandardLogger()

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	matcher := loadMatcher(ctx, cfg)
	monitoring.DatasetLandmarks.Set(float64(matcher.Len()))

	client := llm.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
	generator := facts.NewGenerator(client, facts.Options{
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: facts.Temperature(cfg.Generation.Temperature),
		Timeout:     cfg.Generation.Timeout,
	}, logger)

	recorder := lookup.MultiRecorder{lookup.NewLogRecorder(logger)}
	if cfg.Kafka.Enabled() {
		producer := kafkaclient.NewProducer(cfg.Kafka.Topic, cfg.Kafka.Broker)
		defer producer.Close()
		recorder = append(recorder, lookup.NewKafkaRecorder(producer))
		log.WithFields(log.Fields{"broker": cfg.Kafka.Broker, "topic": cfg.Kafka.Topic}).Info("Publishing result events")
	}

	svc := lookup.NewService(matcher, generator, lookup.Options{MaxDistanceKm: cfg.Match.RadiusKm}, recorder, logger)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Telegram")
	}
	log.WithFields(log.Fields{"bot": api.Self.UserName, "model": client.Model()}).Info("Starting Telegram location bot")

	handler := bot.NewHandler(api, svc, cfg.Generation.MaxConcurrent, logger)

	if cfg.WebhookMode() {
		err = runWebhook(ctx, cfg, api, handler)
	} else {
		err = runPolling(ctx, cfg, api, handler)
	}
	if err != nil {
		log.WithError(err).Error("Bot stopped with error")
		return
	}
	log.Info("Bot stopped")
}

// loadMatcher reads the dataset from S3, Postgres or the local file, in that
// order of preference. Failures leave the bot running with no landmarks.
func loadMatcher(ctx context.Context, cfg config.Config) *landmark.Matcher {
	logger := log.StandardLogger()

	switch {
	case cfg.Dataset.S3Bucket != "":
		s3, err := storage.NewS3Service(cfg.MinIO)
		if err != nil {
			logger.WithError(err).Warn("Landmarks dataset unavailable, using empty dataset")
			return landmark.NewMatcher(nil)
		}
		return landmark.Load(ctx, landmark.S3Source{Store: s3, Bucket: cfg.Dataset.S3Bucket, Key: cfg.Dataset.S3Key}, logger)

	case cfg.Dataset.DatabaseURL != "":
		pg, err := storage.NewPostgres(ctx, cfg.Dataset.DatabaseURL)
		if err != nil {
			logger.WithError(err).Warn("Landmarks dataset unavailable, using empty dataset")
			return landmark.NewMatcher(nil)
		}
		defer pg.Close()
		return landmark.Load(ctx, landmark.DatabaseSource{DB: pg}, logger)

	default:
		return landmark.Load(ctx, landmark.FileSource{Path: cfg.Dataset.Path}, logger)
	}
}

func runPolling(ctx context.Context, cfg config.Config, api *tgbotapi.BotAPI, handler *bot.Handler) error {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		log.WithError(err).Warn("Failed to remove webhook")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	log.Info("Running in polling mode...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		handler.Serve(ctx, updates)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		api.StopReceivingUpdates()
		return nil
	})

	if cfg.Server.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: bot.NewMux("", nil), ReadHeaderTimeout: 5 * time.Second}
		serve(ctx, g, srv)
	}
	return g.Wait()
}

func runWebhook(ctx context.Context, cfg config.Config, api *tgbotapi.BotAPI, handler *bot.Handler) error {
	wh, err := tgbotapi.NewWebhook(cfg.Telegram.WebhookURL)
	if err != nil {
		return err
	}
	if _, err := api.Request(wh); err != nil {
		return err
	}
	log.WithField("url", cfg.Telegram.WebhookURL).Info("Running in webhook mode")

	g, ctx := errgroup.WithContext(ctx)

	updates := make(chan tgbotapi.Update, cfg.Generation.MaxConcurrent)
	path := bot.WebhookPath(cfg.Telegram.WebhookURL)
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           bot.NewMux(path, bot.WebhookHandler(ctx.Done(), api.HandleUpdate, updates)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		handler.Serve(ctx, updates)
		return nil
	})
	serve(ctx, g, srv)
	return g.Wait()
}

// serve runs srv in g and shuts it down when ctx is done.
func serve(ctx context.Context, g *errgroup.Group, srv *http.Server) {
	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return graceful.Shutdown(shutdownTimeout, srv.Shutdown)
	})
}
