package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/recapbot/recapbot/internal/buffer"
	"github.com/recapbot/recapbot/internal/models"
)

func TestStyleInstructionsMapping(t *testing.T) {
	tests := []struct {
		name     string
		style    models.Style
		fragment string
	}{
		{name: "standard", style: models.StyleStandard, fragment: "📌 Conversation Summary:"},
		{name: "quick", style: models.StyleQuick, fragment: "Only 2-3 main points"},
		{name: "detailed", style: models.StyleDetailed, fragment: "8-10 points"},
		{name: "decisions", style: models.StyleDecisions, fragment: "✅ Decisions Made:"},
		{name: "questions", style: models.StyleQuestions, fragment: "❓ Open Questions:"},
		{name: "unknown falls back to standard", style: models.Style("haiku"), fragment: "📌 Conversation Summary:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, styleInstructions(tt.style), tt.fragment)
		})
	}
}

func TestStyleInstructionsAreDistinct(t *testing.T) {
	seen := make(map[string]models.Style)
	for _, style := range models.Styles() {
		text := styleInstructions(style)
		if prev, dup := seen[text]; dup {
			t.Fatalf("styles %s and %s share instructions", prev, style)
		}
		seen[text] = style
	}
}

func TestBuildPromptNumbersTranscript(t *testing.T) {
	now := time.Now()
	msgs := []buffer.Message{
		{Sender: "Alice", Text: "let's ship on Friday", Timestamp: now},
		{Sender: "Bob", Text: "works for me", Timestamp: now},
		{Sender: "Carol", Text: "who writes the changelog?", Timestamp: now},
	}

	prompt := buildPrompt(models.StyleDecisions, msgs)

	assert.Contains(t, prompt, "✅ Decisions Made:")
	assert.Contains(t, prompt, "Messages to summarize (3 messages):")
	assert.Contains(t, prompt, "1. Alice: let's ship on Friday")
	assert.Contains(t, prompt, "2. Bob: works for me")
	assert.Contains(t, prompt, "3. Carol: who writes the changelog?")
	assert.Contains(t, prompt, "Please create a summary following the instructions above.")
}

func TestBuildPromptFallsBackOnMissingSender(t *testing.T) {
	prompt := buildPrompt(models.StyleStandard, []buffer.Message{{Text: "anonymous note"}})

	assert.Contains(t, prompt, "1. Unknown: anonymous note")
}
