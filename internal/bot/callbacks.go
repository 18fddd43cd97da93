package bot

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/recapbot/recapbot/internal/services"
)

// handleCallback dispatches inline button presses. Callback data is
// "<action>:<summary id>".
func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	action, summaryID, ok := strings.Cut(query.Data, ":")
	if !ok || summaryID == "" {
		b.answerCallback(query.ID, "", false)
		return
	}

	switch action {
	case "save_summary":
		b.handleSaveSummary(ctx, query, summaryID)
	case "show_summary":
		b.handleShowSummary(ctx, query, summaryID)
	default:
		b.answerCallback(query.ID, "", false)
	}
}

// handleSaveSummary delivers the summary to the presser's private chat.
func (b *Bot) handleSaveSummary(ctx context.Context, query *tgbotapi.CallbackQuery, summaryID string) {
	summary, err := b.services.GetSummary(ctx, summaryID)
	if err != nil {
		if errors.Is(err, services.ErrSummaryNotFound) {
			b.answerCallback(query.ID, "❌ Summary not found", true)
			return
		}
		b.logger.WithError(err).WithField("summary_id", summaryID).Error("Failed to load summary")
		b.answerCallback(query.ID, "❌ Error saving the summary", true)
		return
	}

	msg := tgbotapi.NewMessage(query.From.ID, renderSaved(summary))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		msg.ParseMode = ""
		if _, err := b.api.Send(msg); err != nil {
			// Telegram refuses DMs until the user has started the bot.
			b.answerCallback(query.ID, "⚠️ I can't message you privately.\nSend me /start in private first!", true)
			b.logger.WithError(err).WithField("user_id", query.From.ID).Warn("Cannot send private message")
			return
		}
	}

	b.answerCallback(query.ID, "✅ Summary saved to your private chat!", false)
	b.logger.WithFields(logrus.Fields{
		"summary_id": summaryID,
		"user_id":    query.From.ID,
	}).Info("Summary sent to private chat")
}

// handleShowSummary posts the full summary text into the current chat.
func (b *Bot) handleShowSummary(ctx context.Context, query *tgbotapi.CallbackQuery, summaryID string) {
	summary, err := b.services.GetSummary(ctx, summaryID)
	if err != nil {
		if errors.Is(err, services.ErrSummaryNotFound) {
			b.answerCallback(query.ID, "❌ Summary not found", true)
			return
		}
		b.logger.WithError(err).WithField("summary_id", summaryID).Error("Failed to load summary")
		b.answerCallback(query.ID, "❌ Error showing the summary", true)
		return
	}

	chatID := query.From.ID
	if query.Message != nil {
		chatID = query.Message.Chat.ID
	}

	b.sendMarkdown(chatID, renderFull(summary), nil)
	b.answerCallback(query.ID, "", false)
}

func (b *Bot) answerCallback(id, text string, alert bool) {
	cb := tgbotapi.NewCallback(id, text)
	if alert {
		cb = tgbotapi.NewCallbackWithAlert(id, text)
	}
	if _, err := b.api.Request(cb); err != nil {
		b.logger.WithError(err).Warn("Failed to answer callback query")
	}
}
