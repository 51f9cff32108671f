package facts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"placefacts/internal/models"
)

func TestBuildPrompt_PlaceFragments(t *testing.T) {
	tests := []struct {
		name    string
		city    string
		country string
		want    string
		absent  string
	}{
		{"city and country", "Moscow", "Russia", `"Red Square" (in Moscow, Russia).`, ""},
		{"unknown city", models.Unknown, "Russia", `"Red Square" (Russia).`, "Unknown"},
		{"unknown country", "Moscow", models.Unknown, `"Red Square" (in Moscow).`, "Unknown"},
		{"nothing resolved", models.Unknown, "", `"Red Square".`, "()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lm := models.Landmark{Name: "Red Square", City: tt.city, Country: tt.country, Type: "square"}
			prompt := BuildPrompt(lm)
			assert.Contains(t, prompt, tt.want)
			if tt.absent != "" {
				assert.NotContains(t, prompt, tt.absent)
			}
		})
	}
}

func TestBuildPrompt_Contents(t *testing.T) {
	lm := models.Landmark{
		Name:        "Hermitage Museum",
		Description: strings.Repeat("a", 299) + "bc" + strings.Repeat("z", 50),
		City:        "Saint Petersburg",
		Country:     "Russia",
	}
	prompt := BuildPrompt(lm)

	assert.Contains(t, prompt, "Place type: generic attraction")
	assert.Contains(t, prompt, strings.Repeat("a", 299)+"b...")
	assert.NotContains(t, prompt, "bc")
	assert.Contains(t, prompt, "200 characters maximum")
	assert.Contains(t, prompt, "2-3 sentences")
	assert.Contains(t, prompt, "Start directly with the fact")
	assert.Contains(t, prompt, "Do not mention coordinates")
}
