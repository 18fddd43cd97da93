package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/recapbot/recapbot/internal/buffer"
	"github.com/recapbot/recapbot/internal/models"
	"github.com/recapbot/recapbot/internal/services"
)

// Bot drives the Telegram long-poll loop and dispatches updates to the
// command, capture and callback handlers.
type Bot struct {
	api      *tgbotapi.BotAPI
	services *services.Services
	logger   *logrus.Logger
}

// New creates a bot bound to the given token.
func New(token string, svcs *services.Services, logger *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init failed: %w", err)
	}

	return &Bot{
		api:      api,
		services: svcs,
		logger:   logger,
	}, nil
}

// Username returns the bot account's Telegram username.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run polls for updates until ctx is cancelled, reconnecting with
// exponential backoff when the update stream dies.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.WithField("username", b.api.Self.UserName).Info("Telegram bot started")

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		updates := b.api.GetUpdatesChan(u)

		pollErr := b.pollUpdates(ctx, updates)

		// Always clean up the old polling goroutine before reconnecting.
		b.api.StopReceivingUpdates()

		if pollErr != nil {
			b.logger.WithError(pollErr).WithField("backoff", backoff.String()).Warn("Update polling disconnected, reconnecting")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		// pollUpdates returned nil means ctx was cancelled.
		return nil
	}
}

// pollUpdates reads from the update channel until ctx is done, the channel
// closes, or no updates arrive within 2.5x the long-poll timeout. The
// library blocks rather than closing the channel on a dead connection, so
// a stall timer is the only way to notice.
func (b *Bot) pollUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	const stallTimeout = 150 * time.Second

	timer := time.NewTimer(stallTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("update channel closed")
			}

			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(stallTimeout)

			switch {
			case update.Message != nil:
				b.handleMessage(ctx, update.Message)
			case update.CallbackQuery != nil:
				b.handleCallback(ctx, update.CallbackQuery)
			}

		case <-timer.C:
			return fmt.Errorf("no updates received for %v", stallTimeout)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	b.captureMessage(ctx, msg)
}

// captureMessage records a plain group message into its chat buffer.
// Private chats and empty texts are ignored.
func (b *Bot) captureMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !isGroup(msg.Chat) {
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	status := b.services.RecordMessage(ctx, buffer.Message{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		SenderID:  msg.From.ID,
		Sender:    displayName(msg.From),
		Text:      text,
		Timestamp: msg.Time(),
	}, userModel(msg.From))

	if status.AutoSummarize() {
		b.logger.WithFields(logrus.Fields{
			"chat_id":  msg.Chat.ID,
			"messages": status.Count,
		}).Info("Auto-summary threshold reached")
	}
}

func isGroup(chat *tgbotapi.Chat) bool {
	return chat != nil && (chat.IsGroup() || chat.IsSuperGroup())
}

func displayName(u *tgbotapi.User) string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	if u.UserName != "" {
		return u.UserName
	}
	return "Unknown"
}

func userModel(u *tgbotapi.User) *models.User {
	return &models.User{
		TelegramID:   u.ID,
		Username:     u.UserName,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		LanguageCode: u.LanguageCode,
		IsBot:        u.IsBot,
	}
}

// reply sends a plain text message, logging rather than propagating failures.
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send reply")
	}
}

// sendMarkdown sends a Markdown message with an optional inline keyboard.
// Model output sometimes breaks Telegram's Markdown parser, so a rejected
// message is resent plain.
func (b *Bot) sendMarkdown(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}

	if _, err := b.api.Send(msg); err != nil {
		msg.ParseMode = ""
		if _, err := b.api.Send(msg); err != nil {
			b.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
		}
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to delete message")
	}
}
