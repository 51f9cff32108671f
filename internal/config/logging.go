package config

import (
	"github.com/sirupsen/logrus"
)

// Configure applies the level and formatter to logger. DEBUG forces the debug
// level and a human-readable formatter; otherwise logs are JSON.
func (l LogConfig) Configure(logger *logrus.Logger) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		logger.WithField("level", l.Level).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	if l.Debug {
		level = logrus.DebugLevel
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.SetLevel(level)
}
