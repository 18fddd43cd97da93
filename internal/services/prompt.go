package services

import (
	"fmt"
	"strings"

	"github.com/recapbot/recapbot/internal/buffer"
	"github.com/recapbot/recapbot/internal/models"
)

const standardInstructions = `You are an AI assistant specialized in summarizing Telegram group conversations.
Create a concise and clear summary of the following conversation.

Requirements:
- 5-6 main points
- Each point in a short, focused sentence
- Start each point with a relevant emoji
- Use simple, clear English
- Ignore spam, greetings, or irrelevant content
- Focus on substantial and important content

Format:
📌 Conversation Summary:
🔹 First point
🔹 Second point
🔹 Third point
etc...`

const quickInstructions = `Create a quick summary of the conversation.

Requirements:
- Only 2-3 main points
- Very short sentences
- No emojis
- Only the most important info

Simple format:
• Point 1
• Point 2
• Point 3`

const detailedInstructions = `Create a detailed and in-depth summary.

Requirements:
- 8-10 points
- Each point with brief explanation
- Include important quotes if relevant
- Organize by topics if possible
- Add emoji for each topic

Format:
📌 Detailed Summary:

📍 First topic:
   • Detail 1
   • Detail 2

📍 Second topic:
   • Detail 1
   • Detail 2`

const decisionsInstructions = `Find and highlight decisions made in the conversation.

Requirements:
- Extract only clear decisions
- Who made the decision if known
- What the decision is
- Actions needed

Format:
✅ Decisions Made:
1. First decision - who decided, what to do
2. Second decision - who decided, what to do

If no clear decisions, write: "No clear decisions identified."`

const questionsInstructions = `Find open questions in the conversation.

Requirements:
- Identify unanswered questions
- Questions requiring decision or action
- Organize by importance

Format:
❓ Open Questions:
1. First question - who asked
2. Second question - who asked
3. Third question - who asked

If all questions answered, write: "All questions were answered."`

// styleInstructions is a pure mapping from style to the fixed instruction
// block placed ahead of the transcript. Unknown styles fall back to standard.
func styleInstructions(style models.Style) string {
	switch style {
	case models.StyleQuick:
		return quickInstructions
	case models.StyleDetailed:
		return detailedInstructions
	case models.StyleDecisions:
		return decisionsInstructions
	case models.StyleQuestions:
		return questionsInstructions
	default:
		return standardInstructions
	}
}

// buildPrompt renders the messages into a numbered transcript and prepends
// the style instructions. Sender names stay in so the decisions and
// questions styles can attribute who decided or asked.
func buildPrompt(style models.Style, msgs []buffer.Message) string {
	var b strings.Builder
	b.WriteString(styleInstructions(style))
	fmt.Fprintf(&b, "\n\nMessages to summarize (%d messages):\n\n", len(msgs))

	for i, msg := range msgs {
		sender := msg.Sender
		if sender == "" {
			sender = "Unknown"
		}
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, sender, msg.Text)
	}

	b.WriteString("\nPlease create a summary following the instructions above.")
	return b.String()
}
