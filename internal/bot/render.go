package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/recapbot/recapbot/internal/models"
)

const (
	maxListedSummaries = 5
	dateLayout         = "02/01/2006 15:04"
	separator          = "━━━━━━━━━━━━━━━━━━"
)

func styleEmoji(style models.Style) string {
	switch style {
	case models.StyleQuick:
		return "⚡"
	case models.StyleDetailed:
		return "📋"
	case models.StyleDecisions:
		return "✅"
	case models.StyleQuestions:
		return "❓"
	default:
		return "📌"
	}
}

func chatTitle(s models.Summary) string {
	if s.ChatTitle != "" {
		return s.ChatTitle
	}
	return "Unnamed group"
}

// renderSummary formats a freshly generated summary for the group chat.
func renderSummary(s *models.Summary) string {
	return fmt.Sprintf("%s *Conversation Summary* (%d messages)\n\n%s\n\n%s\n💡 Tap the button below to save it to your private chat",
		styleEmoji(s.Style), s.MessageCount, s.Text, separator)
}

// renderSaved formats a summary delivered to the owner's private chat.
func renderSaved(s *models.Summary) string {
	return fmt.Sprintf("📌 *Saved Summary*\n\n📍 From group: %s\n📅 Date: %s\n💬 %d messages\n\n%s\n\n%s",
		chatTitle(*s), s.CreatedAt.Format(dateLayout), s.MessageCount, separator, s.Text)
}

// renderFull formats the full view opened from a "Show summary" button.
func renderFull(s *models.Summary) string {
	return fmt.Sprintf("📌 *Full Summary*\n\n📍 From group: %s\n📅 %s\n💬 %d messages\n🏷️ Style: %s\n\n%s\n\n%s",
		chatTitle(*s), s.CreatedAt.Format(dateLayout), s.MessageCount, s.Style, separator, s.Text)
}

func renderSummaryList(summaries []models.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📚 *Your Summaries* (last %d):\n", maxListedSummaries)

	for i, s := range summaries {
		fmt.Fprintf(&b, "\n%d. %s *%s*\n   📅 %s\n   💬 %d messages\n",
			i+1, styleEmoji(s.Style), chatTitle(s), s.CreatedAt.Format(dateLayout), s.MessageCount)
	}

	b.WriteString("\n" + separator + "\n")
	b.WriteString("💡 Tap a number below to open a summary\n")
	b.WriteString("🔍 To search: /search <word>")
	return b.String()
}

func renderSearchResults(keyword string, results []models.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 *Search results for:* %s\nFound %d results:\n", keyword, len(results))

	for i, s := range results {
		fmt.Fprintf(&b, "\n%d. *%s*\n   📅 %s\n   💬 %d messages\n",
			i+1, chatTitle(s), s.CreatedAt.Format(dateLayout), s.MessageCount)
	}

	return b.String()
}

// showButtons builds one "Show summary" button row per listed summary.
func showButtons(summaries []models.Summary) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(summaries))
	for i, s := range summaries {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d. Show summary", i+1), "show_summary:"+s.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
