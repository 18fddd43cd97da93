package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/recapbot/recapbot/internal/models"
	"github.com/recapbot/recapbot/internal/services"
)

const groupOnlyText = "⚠️ This command only works in groups!\nAdd me to a group and try there."

const privateOnlyText = "⚠️ This command only works in a private chat!\nSend me a direct message and try there."

const startPrivateText = `👋 Hi %s!

I am a smart conversation summary bot 🤖

🎯 *What can I do?*
• Summarize group conversations on demand
• Keep your last 5 summaries
• Search your saved summaries
• Different summary styles (quick, detailed, decisions, questions)

📌 *How to use me?*
1. Add me to a group
2. In the group, type: /summarize
3. Save the summary to this private chat!

💡 *More commands:*
/help - detailed help
/mysummaries - show my summaries
/search - search summaries

Let's get started! 🚀`

const startGroupText = `👋 Hey! I am a conversation summary bot.

To summarize the conversation here, type:
/summarize

Or tap /help for more info.`

const helpText = `📚 *Full Usage Guide*

🔹 *Basic commands:*

/summarize - summarize the last 50 messages
/summarize 20 - summarize the last 20 messages
/summarize 100 - summarize the last 100 messages

🔹 *Summary styles:*

/summarize quick - quick summary (2-3 points)
/summarize detailed - detailed summary (8-10 points)
/summarize decisions - decisions made only
/summarize questions - open questions only

🔹 *Combining options:*

/summarize 30 quick - 30 messages, quick summary
/summarize 100 detailed - 100 messages, detailed

🔹 *Managing summaries:*

/mysummaries - show your last 5 summaries
/search <word> - search your summaries
Example: /search meeting

🔹 *Special features:*

• 📌 "Save Summary" button keeps a copy in your private chat
• 🔄 Your last 5 summaries are always kept
• 🧹 Older summaries are removed automatically

💡 *Tips:*
- I keep the last 50 messages of each group in memory
- You can summarize between 10 and 200 messages
- Saved summaries are visible only to you

Questions? Write to us! 😊`

const searchUsageText = `🔍 *Summary Search*

Usage: /search <keyword>

Examples:
• /search meeting
• /search budget
• /search decision`

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "help":
		b.handleHelp(msg)
	case "summarize":
		b.handleSummarize(ctx, msg)
	case "mysummaries":
		b.handleMySummaries(ctx, msg)
	case "search":
		b.handleSearch(ctx, msg)
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	b.rememberUser(ctx, msg.From)

	text := startGroupText
	if msg.Chat.IsPrivate() {
		text = fmt.Sprintf(startPrivateText, msg.From.FirstName)
	}

	b.sendMarkdown(msg.Chat.ID, text, nil)
	b.logger.WithFields(logrus.Fields{
		"user_id": msg.From.ID,
		"chat_id": msg.Chat.ID,
	}).Info("Start command")
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	b.sendMarkdown(msg.Chat.ID, helpText, nil)
}

// handleSummarize kicks off summary generation. The provider call runs on
// its own goroutine so the polling loop keeps draining updates while the
// model works.
func (b *Bot) handleSummarize(ctx context.Context, msg *tgbotapi.Message) {
	if !isGroup(msg.Chat) {
		b.reply(msg.Chat.ID, groupOnlyText)
		return
	}

	b.rememberUser(ctx, msg.From)

	count, style := parseSummarizeArgs(msg.CommandArguments())

	req := services.SummarizeRequest{
		ChatID:    msg.Chat.ID,
		ChatTitle: msg.Chat.Title,
		UserID:    msg.From.ID,
		Count:     count,
		Style:     style,
	}

	var processingID int
	if sent, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "⏳ Creating summary, one moment...")); err == nil {
		processingID = sent.MessageID
	} else {
		b.logger.WithError(err).WithField("chat_id", msg.Chat.ID).Warn("Failed to send processing message")
	}

	go b.finishSummarize(ctx, req, processingID)
}

func (b *Bot) finishSummarize(ctx context.Context, req services.SummarizeRequest, processingID int) {
	result, err := b.services.Summarizer.Summarize(ctx, req)

	if processingID != 0 {
		b.deleteMessage(req.ChatID, processingID)
	}

	if err != nil {
		b.reply(req.ChatID, summarizeErrorText(err))
		return
	}

	summary := result.Summary
	text := renderSummary(summary)

	if result.StoreErr != nil {
		// The summary itself survived; only persistence failed.
		text += "\n\n⚠️ Could not save this summary, so it will not show up in /mysummaries."
		b.sendMarkdown(req.ChatID, text, nil)
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📌 Save Summary", "save_summary:"+summary.ID),
		),
	)
	b.sendMarkdown(req.ChatID, text, &keyboard)
}

func (b *Bot) handleMySummaries(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.Chat.IsPrivate() {
		b.reply(msg.Chat.ID, privateOnlyText)
		return
	}

	summaries, err := b.services.ListSummaries(ctx, msg.From.ID)
	if err != nil {
		b.logger.WithError(err).WithField("user_id", msg.From.ID).Error("Failed to list summaries")
		b.reply(msg.Chat.ID, "❌ Error loading your summaries.\nTry again later.")
		return
	}

	if len(summaries) == 0 {
		b.reply(msg.Chat.ID, "📭 You have no saved summaries yet.\n\n"+
			"💡 To save a summary:\n"+
			"1. Add me to a group\n"+
			"2. Type /summarize in the group\n"+
			"3. Tap the \"Save Summary\" button")
		return
	}

	keyboard := showButtons(summaries)
	b.sendMarkdown(msg.Chat.ID, renderSummaryList(summaries), &keyboard)
}

func (b *Bot) handleSearch(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.Chat.IsPrivate() {
		b.reply(msg.Chat.ID, privateOnlyText)
		return
	}

	keyword := strings.TrimSpace(msg.CommandArguments())
	if keyword == "" {
		b.sendMarkdown(msg.Chat.ID, searchUsageText, nil)
		return
	}

	results, err := b.services.SearchSummaries(ctx, msg.From.ID, keyword)
	if err != nil {
		b.logger.WithError(err).WithField("user_id", msg.From.ID).Error("Failed to search summaries")
		b.reply(msg.Chat.ID, "❌ Search error.\nTry again later.")
		return
	}

	if len(results) == 0 {
		b.sendMarkdown(msg.Chat.ID, "🔍 No results for: *"+keyword+"*\n\n"+
			"Try a different keyword or list everything with /mysummaries", nil)
		return
	}

	if len(results) > maxListedSummaries {
		results = results[:maxListedSummaries]
	}

	keyboard := showButtons(results)
	b.sendMarkdown(msg.Chat.ID, renderSearchResults(keyword, results), &keyboard)
}

// rememberUser refreshes the sender's stored profile. Best effort only.
func (b *Bot) rememberUser(ctx context.Context, from *tgbotapi.User) {
	if from == nil {
		return
	}
	b.services.RememberUser(ctx, userModel(from))
}

// parseSummarizeArgs reads the optional message count and style keyword in
// either order. Unknown words are ignored; out-of-range counts pass
// through and get clamped downstream.
func parseSummarizeArgs(args string) (int, models.Style) {
	count := 0
	style := models.StyleStandard

	for _, arg := range strings.Fields(args) {
		if n, err := strconv.Atoi(arg); err == nil && n > 0 {
			count = n
			continue
		}

		candidate := models.Style(strings.ToLower(arg))
		if candidate.Valid() {
			style = candidate
		}
	}

	return count, style
}

func summarizeErrorText(err error) string {
	switch {
	case errors.Is(err, services.ErrEmptyContext):
		return "📭 No messages to summarize yet.\nWrite something in the group and try again."
	case errors.Is(err, services.ErrSummarizationUnavailable):
		return "❌ Error creating the summary:\nThe AI service is unavailable right now. Try again in a few minutes."
	case errors.Is(err, services.ErrEmptyResult):
		return "❌ The model returned an empty summary.\nTry again."
	default:
		return "❌ Oops! Something went wrong creating the summary.\nTry again or contact support."
	}
}
