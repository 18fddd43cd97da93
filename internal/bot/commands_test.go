package bot

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recapbot/recapbot/internal/models"
	"github.com/recapbot/recapbot/internal/services"
)

func TestParseSummarizeArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      string
		wantCount int
		wantStyle models.Style
	}{
		{name: "empty", args: "", wantCount: 0, wantStyle: models.StyleStandard},
		{name: "count only", args: "30", wantCount: 30, wantStyle: models.StyleStandard},
		{name: "style only", args: "quick", wantCount: 0, wantStyle: models.StyleQuick},
		{name: "count then style", args: "50 detailed", wantCount: 50, wantStyle: models.StyleDetailed},
		{name: "style then count", args: "detailed 50", wantCount: 50, wantStyle: models.StyleDetailed},
		{name: "uppercase style", args: "DECISIONS", wantCount: 0, wantStyle: models.StyleDecisions},
		{name: "out of range count passes through", args: "999", wantCount: 999, wantStyle: models.StyleStandard},
		{name: "negative count ignored", args: "-5", wantCount: 0, wantStyle: models.StyleStandard},
		{name: "unknown word ignored", args: "banana", wantCount: 0, wantStyle: models.StyleStandard},
		{name: "unknown word with valid parts", args: "20 banana questions", wantCount: 20, wantStyle: models.StyleQuestions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, style := parseSummarizeArgs(tt.args)
			assert.Equal(t, tt.wantCount, count)
			assert.Equal(t, tt.wantStyle, style)
		})
	}
}

func TestSummarizeErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "empty context",
			err:  services.ErrEmptyContext,
			want: "📭 No messages to summarize yet.\nWrite something in the group and try again.",
		},
		{
			name: "wrapped unavailable",
			err:  fmt.Errorf("%w: connection reset", services.ErrSummarizationUnavailable),
			want: "❌ Error creating the summary:\nThe AI service is unavailable right now. Try again in a few minutes.",
		},
		{
			name: "empty result",
			err:  services.ErrEmptyResult,
			want: "❌ The model returned an empty summary.\nTry again.",
		},
		{
			name: "unknown error",
			err:  errors.New("boom"),
			want: "❌ Oops! Something went wrong creating the summary.\nTry again or contact support.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summarizeErrorText(tt.err))
		})
	}
}
