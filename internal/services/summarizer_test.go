package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recapbot/recapbot/internal/buffer"
	"github.com/recapbot/recapbot/internal/config"
	"github.com/recapbot/recapbot/internal/models"
	"github.com/recapbot/recapbot/internal/providers"
)

type fakeProvider struct {
	text        string
	err         error
	calls       int
	lastReq     providers.CompletionRequest
	hadDeadline bool
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	f.calls++
	f.lastReq = req
	_, f.hadDeadline = ctx.Deadline()

	if f.err != nil {
		return nil, f.err
	}
	return &providers.CompletionResponse{
		Text:         f.text,
		Model:        req.Model,
		FinishReason: "stop",
		Usage:        providers.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}, nil
}

func (f *fakeProvider) ValidateConfig() error { return nil }

type fakeStore struct {
	saved   []*models.Summary
	saveErr error
	byID    map[string]*models.Summary
	listErr error
}

func (f *fakeStore) Save(ctx context.Context, summary *models.Summary) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, summary)
	return nil
}

func (f *fakeStore) ListRecent(ctx context.Context, userID int64, limit int) ([]models.Summary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Summary, 0, len(f.saved))
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if f.saved[i].UserID == userID {
			out = append(out, *f.saved[i])
		}
	}
	return out, nil
}

func (f *fakeStore) Search(ctx context.Context, userID int64, keyword string) ([]models.Summary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Summary
	for i := len(f.saved) - 1; i >= 0; i-- {
		s := f.saved[i]
		if s.UserID == userID && strings.Contains(strings.ToLower(s.Text), strings.ToLower(keyword)) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*models.Summary, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestSummarizer(provider providers.Provider, store SummaryStore) (*SummarizerService, *buffer.Manager) {
	buffers := buffer.NewManager(50, 10, 200)

	registry := providers.NewRegistry()
	if provider != nil {
		registry.Register("anthropic", provider)
	}

	llm := config.LLMConfig{
		Provider:       "anthropic",
		Model:          "claude-test",
		MaxTokens:      2048,
		TimeoutSeconds: 120,
	}
	defaults := config.SummaryConfig{
		BufferCapacity: 50,
		MaxPerUser:     5,
		DefaultCount:   50,
		MinCount:       10,
		MaxCount:       200,
	}

	return NewSummarizerService(buffers, registry, store, llm, defaults, testLogger()), buffers
}

func seedMessages(buffers *buffer.Manager, chatID int64, n int) {
	for i := 0; i < n; i++ {
		buffers.Append(chatID, buffer.Message{
			ChatID:    chatID,
			MessageID: i + 1,
			SenderID:  int64(i%3 + 1),
			Sender:    fmt.Sprintf("User%d", i%3+1),
			Text:      fmt.Sprintf("message %d", i+1),
			Timestamp: time.Now(),
		})
	}
}

func TestSummarizeEmptyBufferReturnsEmptyContext(t *testing.T) {
	provider := &fakeProvider{text: "should not be called"}
	svc, _ := newTestSummarizer(provider, &fakeStore{})

	_, err := svc.Summarize(context.Background(), SummarizeRequest{ChatID: 1, UserID: 7})

	assert.ErrorIs(t, err, ErrEmptyContext)
	assert.Equal(t, 0, provider.calls)
}

func TestSummarizeHappyPath(t *testing.T) {
	provider := &fakeProvider{text: "📌 Conversation Summary:\n🔹 Things happened"}
	store := &fakeStore{}
	svc, buffers := newTestSummarizer(provider, store)
	seedMessages(buffers, 42, 15)

	result, err := svc.Summarize(context.Background(), SummarizeRequest{
		ChatID:    42,
		ChatTitle: "Dev Chat",
		UserID:    7,
		Style:     models.StyleStandard,
	})

	require.NoError(t, err)
	require.NotNil(t, result.Summary)
	assert.NoError(t, result.StoreErr)

	s := result.Summary
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, int64(7), s.UserID)
	assert.Equal(t, int64(42), s.ChatID)
	assert.Equal(t, "Dev Chat", s.ChatTitle)
	assert.Equal(t, models.StyleStandard, s.Style)
	assert.Equal(t, 15, s.MessageCount)
	assert.Equal(t, "📌 Conversation Summary:\n🔹 Things happened", s.Text)
	assert.False(t, s.CreatedAt.IsZero())

	require.Len(t, store.saved, 1)
	assert.Equal(t, s.ID, store.saved[0].ID)
	assert.Equal(t, 1, provider.calls)
}

func TestSummarizeProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("api down")}
	store := &fakeStore{}
	svc, buffers := newTestSummarizer(provider, store)
	seedMessages(buffers, 1, 10)

	_, err := svc.Summarize(context.Background(), SummarizeRequest{ChatID: 1, UserID: 7})

	assert.ErrorIs(t, err, ErrSummarizationUnavailable)
	assert.Empty(t, store.saved)
	// One attempt only, no retries.
	assert.Equal(t, 1, provider.calls)
}

func TestSummarizeTimeoutMapsToUnavailable(t *testing.T) {
	provider := &fakeProvider{err: context.DeadlineExceeded}
	store := &fakeStore{}
	svc, buffers := newTestSummarizer(provider, store)
	seedMessages(buffers, 1, 10)

	_, err := svc.Summarize(context.Background(), SummarizeRequest{ChatID: 1, UserID: 7})

	assert.ErrorIs(t, err, ErrSummarizationUnavailable)
	assert.True(t, provider.hadDeadline, "provider call should carry a deadline")
	assert.Empty(t, store.saved)
}

func TestSummarizeEmptyResponse(t *testing.T) {
	provider := &fakeProvider{text: "  \n\t "}
	store := &fakeStore{}
	svc, buffers := newTestSummarizer(provider, store)
	seedMessages(buffers, 1, 10)

	_, err := svc.Summarize(context.Background(), SummarizeRequest{ChatID: 1, UserID: 7})

	assert.ErrorIs(t, err, ErrEmptyResult)
	assert.Empty(t, store.saved)
}

func TestSummarizeStoreFailureKeepsSummary(t *testing.T) {
	provider := &fakeProvider{text: "the summary"}
	store := &fakeStore{saveErr: errors.New("db down")}
	svc, buffers := newTestSummarizer(provider, store)
	seedMessages(buffers, 1, 10)

	result, err := svc.Summarize(context.Background(), SummarizeRequest{ChatID: 1, UserID: 7})

	require.NoError(t, err)
	require.NotNil(t, result.Summary)
	assert.Equal(t, "the summary", result.Summary.Text)
	assert.ErrorIs(t, result.StoreErr, ErrStoreUnavailable)
}

func TestSummarizeUnregisteredProvider(t *testing.T) {
	svc, buffers := newTestSummarizer(nil, &fakeStore{})
	seedMessages(buffers, 1, 10)

	_, err := svc.Summarize(context.Background(), SummarizeRequest{ChatID: 1, UserID: 7})

	assert.ErrorIs(t, err, ErrSummarizationUnavailable)
}

func TestSummarizeCountHandling(t *testing.T) {
	tests := []struct {
		name     string
		seeded   int
		count    int
		expected int
	}{
		{name: "zero count uses default", seeded: 50, count: 0, expected: 50},
		{name: "explicit count", seeded: 50, count: 20, expected: 20},
		{name: "below minimum clamps up", seeded: 50, count: 3, expected: 10},
		{name: "above maximum clamps down", seeded: 50, count: 500, expected: 50},
		{name: "count larger than buffered", seeded: 12, count: 30, expected: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{text: "ok"}
			svc, buffers := newTestSummarizer(provider, &fakeStore{})
			seedMessages(buffers, 9, tt.seeded)

			result, err := svc.Summarize(context.Background(), SummarizeRequest{
				ChatID: 9,
				UserID: 7,
				Count:  tt.count,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Summary.MessageCount)
		})
	}
}

func TestSummarizeUnknownStyleFallsBackToStandard(t *testing.T) {
	provider := &fakeProvider{text: "ok"}
	svc, buffers := newTestSummarizer(provider, &fakeStore{})
	seedMessages(buffers, 1, 10)

	result, err := svc.Summarize(context.Background(), SummarizeRequest{
		ChatID: 1,
		UserID: 7,
		Style:  models.Style("artistic"),
	})

	require.NoError(t, err)
	assert.Equal(t, models.StyleStandard, result.Summary.Style)
	assert.Contains(t, provider.lastReq.Messages[0].Content, "📌 Conversation Summary:")
}

func TestSummarizeRequestShape(t *testing.T) {
	provider := &fakeProvider{text: "ok"}
	svc, buffers := newTestSummarizer(provider, &fakeStore{})
	buffers.Append(5, buffer.Message{ChatID: 5, Sender: "Alice", Text: "hello"})
	buffers.Append(5, buffer.Message{ChatID: 5, Sender: "Bob", Text: "hi there"})

	_, err := svc.Summarize(context.Background(), SummarizeRequest{ChatID: 5, UserID: 7})
	require.NoError(t, err)

	req := provider.lastReq
	assert.Equal(t, "claude-test", req.Model)
	assert.Equal(t, 2048, req.MaxTokens)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "Messages to summarize (2 messages):")
	assert.Contains(t, req.Messages[0].Content, "1. Alice: hello")
	assert.Contains(t, req.Messages[0].Content, "2. Bob: hi there")
}

func TestSummarizeResetsSinceSummaryCounter(t *testing.T) {
	provider := &fakeProvider{text: "ok"}
	svc, buffers := newTestSummarizer(provider, &fakeStore{})
	seedMessages(buffers, 3, 20)

	require.Equal(t, 20, buffers.Status(3).SinceSummary)

	_, err := svc.Summarize(context.Background(), SummarizeRequest{ChatID: 3, UserID: 7})
	require.NoError(t, err)

	status := buffers.Status(3)
	assert.Equal(t, 0, status.SinceSummary)
	// Messages stay buffered for the next summary.
	assert.Equal(t, 20, status.Count)
}

func TestProbe(t *testing.T) {
	provider := &fakeProvider{text: "Hello!"}
	svc, _ := newTestSummarizer(provider, &fakeStore{})

	err := svc.Probe(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 10, provider.lastReq.MaxTokens)
	require.Len(t, provider.lastReq.Messages, 1)
	assert.Equal(t, "Hi", provider.lastReq.Messages[0].Content)
}

func TestProbeUnregisteredProvider(t *testing.T) {
	svc, _ := newTestSummarizer(nil, &fakeStore{})

	err := svc.Probe(context.Background())

	assert.Error(t, err)
}
