package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"placefacts/internal/lookup"
)

// md escapes s for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// linkURL escapes the characters that are special inside a MarkdownV2 link target.
func linkURL(u string) string {
	return strings.NewReplacer(`\`, `\\`, `)`, `\)`).Replace(u)
}

func greetingText(firstName string) string {
	if strings.TrimSpace(firstName) == "" {
		firstName = "there"
	}
	return md(fmt.Sprintf("Hi, %s! 👋\n\n", firstName)) +
		md("I tell interesting facts about places near your location.\n\n") +
		md("📍 Just send me your location and I will find something interesting nearby!\n\n") +
		md("Use /help for more information.")
}

func helpText() string {
	return "🤖 " + bold("Place Facts bot") + "\n\n" +
		md("How to use:\n") +
		md("📍 Send me your location with the \"Share location\" button\n") +
		md("🔍 I will find an interesting landmark nearby\n") +
		md("📖 and tell you an unusual fact about it\n\n") +
		bold("Commands:") + "\n" +
		md("/start - Start using the bot\n") +
		md("/help - Show this help\n\n") +
		bold("Note:") + md(" the bot only works with locations. Text messages are not supported.")
}

func unsupportedText() string {
	return md("🤖 I only work with locations!\n\n") +
		md("📍 Please send me your location with the \"Share location\" button in the attachment menu.\n\n") +
		md("Use /help for more information.")
}

func placeholderText() string {
	return md("🔍 Looking for something interesting near you...\n⏳ This may take a few seconds.")
}

func notFoundText() string {
	return md("😔 Unfortunately, I couldn't find any interesting landmarks near your location.\n\n") +
		md("Try sending a location from somewhere else!")
}

func errorText() string {
	return md("❌ An unexpected error occurred.\nPlease try again later.")
}

// FormatDistance renders whole metres below 1 km and tenths of a kilometre above.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int(km*1000))
	}
	return fmt.Sprintf("%.1f km", km)
}

// FormatResult renders a matched result as a MarkdownV2 message.
func FormatResult(res *lookup.Result) string {
	name := res.Name
	if strings.TrimSpace(name) == "" {
		name = "Unknown place"
	}

	var b strings.Builder
	b.WriteString("🏛️ " + bold(name) + "\n")
	b.WriteString(md("📍 Distance: ~"+FormatDistance(res.DistanceKm)) + "\n\n")
	b.WriteString("💡 " + bold("Interesting fact:") + "\n")
	b.WriteString(md(res.Fact))
	if res.WikipediaURL != "" {
		b.WriteString("\n\n[" + md("Read more") + "](" + linkURL(res.WikipediaURL) + ")")
	}
	return b.String()
}
