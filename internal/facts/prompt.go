package facts

import (
	"fmt"
	"strings"

	"placefacts/internal/models"
)

// SystemPrompt sets the persona for every generation request.
const SystemPrompt = "You are an engaging tour guide who knows surprising facts about landmarks."

const (
	promptDescriptionLimit   = 300
	fallbackDescriptionLimit = 150
)

// BuildPrompt renders the user instruction for a landmark. City and country
// fragments are left out when unresolved, and the description is cut to its
// first 300 characters.
func BuildPrompt(lm models.Landmark) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Tell one interesting, unusual or little-known fact about %q", lm.Name)
	if where := placeFragment(lm); where != "" {
		fmt.Fprintf(&b, " (%s)", where)
	}
	b.WriteString(".\n\n")

	fmt.Fprintf(&b, "Place type: %s\n", lm.PlaceType())
	fmt.Fprintf(&b, "Short description: %s...\n\n", truncate(lm.Description, promptDescriptionLimit))

	b.WriteString("Requirements:\n")
	b.WriteString("- The fact must be interesting and engaging\n")
	b.WriteString("- Length: 2-3 sentences (200 characters maximum)\n")
	b.WriteString("- Use simple, plain language\n")
	b.WriteString("- Start directly with the fact, no introductory words\n")
	b.WriteString("- Do not mention coordinates or technical information")

	return b.String()
}

func placeFragment(lm models.Landmark) string {
	var parts []string
	if models.Resolved(lm.City) {
		parts = append(parts, "in "+strings.TrimSpace(lm.City))
	}
	if models.Resolved(lm.Country) {
		parts = append(parts, strings.TrimSpace(lm.Country))
	}
	return strings.Join(parts, ", ")
}

// Fallback synthesises a fact from the landmark's own data. It is used when
// text generation is unavailable and never fails.
func Fallback(lm models.Landmark) string {
	desc := strings.TrimSpace(lm.Description)
	if desc != "" {
		return fmt.Sprintf("This is a %s: %s...", strings.ToLower(lm.PlaceType()), truncate(desc, fallbackDescriptionLimit))
	}
	name := strings.TrimSpace(lm.Name)
	if name == "" {
		name = "This place"
	}
	return fmt.Sprintf("%s is an interesting place worth a visit.", name)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
