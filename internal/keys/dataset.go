package keys

import (
	"fmt"
	"strings"
	"time"
)

// Latest is the key of the most recent dataset and the default key the bot
// loads from.
const Latest = "datasets/latest.json"

// sanitizeKey replaces spaces with hyphens and lowercases the string.
func sanitizeKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
}

// Dataset returns the canonical S3 key for a dataset built from the given
// category selector at time t.
func Dataset(selector string, t time.Time) string {
	return fmt.Sprintf("datasets/%s/%s.json",
		sanitizeKey(selector),
		t.UTC().Format("20060102T150405Z"),
	)
}
