// Package config assembles the bot's runtime configuration from the
// environment. A Config is built once at startup and passed by value to the
// components that need it.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"placefacts/internal/env"
	"placefacts/internal/keys"
)

// ErrConfiguration is returned when required settings are missing or invalid.
// It is the only error that should stop the bot from starting.
var ErrConfiguration = errors.New("configuration error")

type Config struct {
	Telegram   TelegramConfig
	OpenAI     OpenAIConfig
	Log        LogConfig
	Dataset    DatasetConfig
	MinIO      MinIOConfig
	Kafka      KafkaConfig
	Match      MatchConfig
	Generation GenerationConfig
	Server     ServerConfig
}

type TelegramConfig struct {
	Token      string
	WebhookURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type LogConfig struct {
	Debug bool
	Level string
}

// DatasetConfig selects where landmarks are loaded from. S3 takes precedence
// over Postgres, which takes precedence over the local file.
type DatasetConfig struct {
	Path        string
	S3Bucket    string
	S3Key       string
	DatabaseURL string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Enabled reports whether enough settings are present to build a client.
func (m MinIOConfig) Enabled() bool {
	return m.Endpoint != "" && m.AccessKey != "" && m.SecretKey != ""
}

type KafkaConfig struct {
	Broker  string
	Topic   string
	GroupID string
}

func (k KafkaConfig) Enabled() bool {
	return k.Broker != "" && k.Topic != ""
}

type MatchConfig struct {
	RadiusKm float64
}

type GenerationConfig struct {
	Timeout       time.Duration
	MaxTokens     int
	Temperature   float32
	MaxConcurrent int
}

type ServerConfig struct {
	Port        int
	MetricsAddr string
}

// Defaults returns a Config populated with built-in default values.
func Defaults() Config {
	return Config{
		OpenAI:     OpenAIConfig{Model: "gpt-4.1-mini"},
		Log:        LogConfig{Level: "info"},
		Dataset:    DatasetConfig{Path: "data/landmarks.json", S3Key: keys.Latest},
		Kafka:      KafkaConfig{Topic: "placefacts.results", GroupID: "placefacts-insights"},
		Match:      MatchConfig{RadiusKm: 10},
		Generation: GenerationConfig{Timeout: 8 * time.Second, MaxTokens: 150, Temperature: 0.7, MaxConcurrent: 16},
		Server:     ServerConfig{Port: 8080},
	}
}

// Load reads the configuration from the environment (after loading an
// optional .env file) and validates it.
func Load() (Config, error) {
	env.LoadEnv()
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv overlays environment variables on Defaults without validating.
func FromEnv() Config {
	d := Defaults()
	return Config{
		Telegram: TelegramConfig{
			Token:      env.String("TELEGRAM_BOT_TOKEN", ""),
			WebhookURL: env.String("WEBHOOK_URL", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:  env.String("OPENAI_API_KEY", ""),
			Model:   env.String("OPENAI_MODEL", d.OpenAI.Model),
			BaseURL: env.String("OPENAI_BASE_URL", ""),
		},
		Log: LogConfig{
			Debug: env.Bool("DEBUG", false),
			Level: strings.ToLower(env.String("LOG_LEVEL", d.Log.Level)),
		},
		Dataset: DatasetConfig{
			Path:        env.String("LANDMARKS_PATH", d.Dataset.Path),
			S3Bucket:    env.String("DATASET_S3_BUCKET", ""),
			S3Key:       env.String("DATASET_S3_KEY", d.Dataset.S3Key),
			DatabaseURL: env.String("DATASET_DATABASE_URL", ""),
		},
		MinIO: MinIOConfig{
			Endpoint:  env.String("MINIO_ENDPOINT", ""),
			AccessKey: env.String("MINIO_ACCESS_KEY", ""),
			SecretKey: env.String("MINIO_SECRET_KEY", ""),
			UseSSL:    env.Bool("MINIO_USE_SSL", false),
		},
		Kafka: KafkaConfig{
			Broker:  env.String("KAFKA_BROKER", ""),
			Topic:   env.String("KAFKA_TOPIC", d.Kafka.Topic),
			GroupID: env.String("KAFKA_GROUP_ID", d.Kafka.GroupID),
		},
		Match: MatchConfig{
			RadiusKm: env.Float("MATCH_RADIUS_KM", d.Match.RadiusKm),
		},
		Generation: GenerationConfig{
			Timeout:       env.Duration("GENERATION_TIMEOUT", d.Generation.Timeout),
			MaxTokens:     env.Int("GENERATION_MAX_TOKENS", d.Generation.MaxTokens),
			Temperature:   float32(env.Float("GENERATION_TEMPERATURE", float64(d.Generation.Temperature))),
			MaxConcurrent: env.Int("MAX_CONCURRENT_REQUESTS", d.Generation.MaxConcurrent),
		},
		Server: ServerConfig{
			Port:        env.Int("PORT", d.Server.Port),
			MetricsAddr: env.String("METRICS_ADDR", ""),
		},
	}
}

// Validate reports every missing or out-of-range setting in a single error
// wrapping ErrConfiguration.
func (c Config) Validate() error {
	var problems []string

	if c.Telegram.Token == "" {
		problems = append(problems, "TELEGRAM_BOT_TOKEN is required")
	}
	if c.OpenAI.APIKey == "" {
		problems = append(problems, "OPENAI_API_KEY is required")
	}
	if c.Match.RadiusKm <= 0 {
		problems = append(problems, "MATCH_RADIUS_KM must be positive")
	}
	if c.Generation.Timeout <= 0 {
		problems = append(problems, "GENERATION_TIMEOUT must be positive")
	}
	if c.Generation.MaxTokens <= 0 {
		problems = append(problems, "GENERATION_MAX_TOKENS must be positive")
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		problems = append(problems, "GENERATION_TEMPERATURE must be between 0 and 2")
	}
	if c.Generation.MaxConcurrent <= 0 {
		problems = append(problems, "MAX_CONCURRENT_REQUESTS must be positive")
	}
	if c.Dataset.S3Bucket != "" && !c.MinIO.Enabled() {
		problems = append(problems, "DATASET_S3_BUCKET requires MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(problems, ", "))
	}
	return nil
}

// WebhookMode reports whether updates should be received through a webhook
// rather than long polling.
func (c Config) WebhookMode() bool {
	return c.Telegram.WebhookURL != ""
}
