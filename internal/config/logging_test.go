package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogConfig_Configure(t *testing.T) {
	tests := []struct {
		name      string
		cfg       LogConfig
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{name: "defaults", cfg: LogConfig{Level: "info"}, wantLevel: logrus.InfoLevel, wantJSON: true},
		{name: "warning level", cfg: LogConfig{Level: "warning"}, wantLevel: logrus.WarnLevel, wantJSON: true},
		{name: "debug flag wins", cfg: LogConfig{Level: "error", Debug: true}, wantLevel: logrus.DebugLevel},
		{name: "unknown level", cfg: LogConfig{Level: "loud"}, wantLevel: logrus.InfoLevel, wantJSON: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logrus.New()
			tt.cfg.Configure(logger)

			assert.Equal(t, tt.wantLevel, logger.GetLevel())
			_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}
