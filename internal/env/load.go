// Package env loads process environment variables, optionally from a .env
// file, and offers typed lookups with defaults.
package env

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// LoadEnv loads a .env file from the working directory when one exists.
// Variables already set in the environment are not overridden.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug("No .env file found, assuming environment variables are set directly.")
	}
}

// String returns the trimmed value of key, or def when it is unset or blank.
func String(key, def string) string {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return def
	}
	return strings.TrimSpace(val)
}

func Bool(key string, def bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		log.WithField("key", key).Warnf("invalid boolean %q, using default %v", val, def)
		return def
	}
	return b
}

func Int(key string, def int) int {
	val, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		log.WithField("key", key).Warnf("invalid integer %q, using default %d", val, def)
		return def
	}
	return n
}

func Float(key string, def float64) float64 {
	val, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		log.WithField("key", key).Warnf("invalid number %q, using default %v", val, def)
		return def
	}
	return f
}

// Duration parses Go duration syntax ("8s", "1m30s"). A bare number is read
// as seconds.
func Duration(key string, def time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	val = strings.TrimSpace(val)
	if secs, err := strconv.ParseFloat(val, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.WithField("key", key).Warnf("invalid duration %q, using default %s", val, def)
		return def
	}
	return d
}
