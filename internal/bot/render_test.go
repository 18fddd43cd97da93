package bot

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recapbot/recapbot/internal/models"
)

func TestStyleEmoji(t *testing.T) {
	tests := []struct {
		style models.Style
		want  string
	}{
		{models.StyleStandard, "📌"},
		{models.StyleQuick, "⚡"},
		{models.StyleDetailed, "📋"},
		{models.StyleDecisions, "✅"},
		{models.StyleQuestions, "❓"},
		{models.Style("bogus"), "📌"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, styleEmoji(tt.style))
	}
}

func TestRenderSummary(t *testing.T) {
	s := &models.Summary{
		Style:        models.StyleQuick,
		MessageCount: 25,
		Text:         "⚡ Quick Summary:\n🔹 Short point",
	}

	out := renderSummary(s)

	assert.Contains(t, out, "⚡ *Conversation Summary* (25 messages)")
	assert.Contains(t, out, "⚡ Quick Summary:\n🔹 Short point")
	assert.Contains(t, out, "Tap the button below to save it")
}

func TestRenderSavedUsesChatTitleFallback(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	s := &models.Summary{
		MessageCount: 12,
		Text:         "body",
		CreatedAt:    created,
	}

	out := renderSaved(s)

	assert.Contains(t, out, "📌 *Saved Summary*")
	assert.Contains(t, out, "From group: Unnamed group")
	assert.Contains(t, out, "14/03/2025 09:30")
	assert.Contains(t, out, "💬 12 messages")
	assert.Contains(t, out, "body")
}

func TestRenderFullIncludesStyle(t *testing.T) {
	s := &models.Summary{
		ChatTitle:    "Dev Chat",
		Style:        models.StyleDecisions,
		MessageCount: 40,
		Text:         "✅ Decisions Made:",
		CreatedAt:    time.Date(2025, 1, 2, 18, 0, 0, 0, time.UTC),
	}

	out := renderFull(s)

	assert.Contains(t, out, "From group: Dev Chat")
	assert.Contains(t, out, "🏷️ Style: decisions")
}

func TestRenderSummaryList(t *testing.T) {
	summaries := []models.Summary{
		{ChatTitle: "Team A", Style: models.StyleStandard, MessageCount: 50, CreatedAt: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)},
		{ChatTitle: "Team B", Style: models.StyleQuick, MessageCount: 20, CreatedAt: time.Date(2025, 4, 30, 8, 15, 0, 0, time.UTC)},
	}

	out := renderSummaryList(summaries)

	assert.Contains(t, out, "📚 *Your Summaries* (last 5):")
	assert.Contains(t, out, "1. 📌 *Team A*")
	assert.Contains(t, out, "2. ⚡ *Team B*")
	assert.Contains(t, out, "📅 01/05/2025 10:00")
	assert.Contains(t, out, "💬 20 messages")
	assert.Contains(t, out, "/search <word>")
}

func TestRenderSearchResults(t *testing.T) {
	results := []models.Summary{
		{ChatTitle: "Planning", MessageCount: 30, CreatedAt: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)},
	}

	out := renderSearchResults("budget", results)

	assert.Contains(t, out, "*Search results for:* budget")
	assert.Contains(t, out, "Found 1 results:")
	assert.Contains(t, out, "1. *Planning*")
}

func TestShowButtonsCallbackData(t *testing.T) {
	summaries := []models.Summary{
		{ID: "aaa-111"},
		{ID: "bbb-222"},
	}

	markup := showButtons(summaries)

	require.Len(t, markup.InlineKeyboard, 2)
	require.Len(t, markup.InlineKeyboard[0], 1)
	assert.Equal(t, "1. Show summary", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "show_summary:aaa-111", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "show_summary:bbb-222", *markup.InlineKeyboard[1][0].CallbackData)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *tgbotapi.User
		want string
	}{
		{name: "first and last", user: &tgbotapi.User{FirstName: "Ada", LastName: "Lovelace"}, want: "Ada Lovelace"},
		{name: "first only", user: &tgbotapi.User{FirstName: "Ada"}, want: "Ada"},
		{name: "username fallback", user: &tgbotapi.User{UserName: "ada42"}, want: "ada42"},
		{name: "nothing set", user: &tgbotapi.User{}, want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayName(tt.user))
		})
	}
}

func TestIsGroup(t *testing.T) {
	assert.True(t, isGroup(&tgbotapi.Chat{Type: "group"}))
	assert.True(t, isGroup(&tgbotapi.Chat{Type: "supergroup"}))
	assert.False(t, isGroup(&tgbotapi.Chat{Type: "private"}))
	assert.False(t, isGroup(nil))
}
