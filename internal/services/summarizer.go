package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/recapbot/recapbot/internal/buffer"
	"github.com/recapbot/recapbot/internal/config"
	"github.com/recapbot/recapbot/internal/models"
	"github.com/recapbot/recapbot/internal/providers"
)

// SummaryStore persists generated summaries per requesting user.
type SummaryStore interface {
	Save(ctx context.Context, summary *models.Summary) error
	ListRecent(ctx context.Context, userID int64, limit int) ([]models.Summary, error)
	Search(ctx context.Context, userID int64, keyword string) ([]models.Summary, error)
	GetByID(ctx context.Context, id string) (*models.Summary, error)
}

// SummarizeRequest carries one summarize command.
type SummarizeRequest struct {
	ChatID    int64
	ChatTitle string
	UserID    int64
	Count     int // 0 means the configured default
	Style     models.Style
}

// SummarizeResult is the outcome of a successful generation. StoreErr is
// set when the summary was generated but could not be persisted; the
// summary itself is never lost to a store failure.
type SummarizeResult struct {
	Summary  *models.Summary
	StoreErr error
}

// SummarizerService runs the summarize pipeline: snapshot the buffer,
// build the prompt, call the provider once, persist the result.
type SummarizerService struct {
	buffers  *buffer.Manager
	registry *providers.Registry
	store    SummaryStore
	llm      config.LLMConfig
	defaults config.SummaryConfig
	logger   *logrus.Logger
}

// NewSummarizerService creates a new summarizer service
func NewSummarizerService(
	buffers *buffer.Manager,
	registry *providers.Registry,
	store SummaryStore,
	llm config.LLMConfig,
	defaults config.SummaryConfig,
	logger *logrus.Logger,
) *SummarizerService {
	return &SummarizerService{
		buffers:  buffers,
		registry: registry,
		store:    store,
		llm:      llm,
		defaults: defaults,
		logger:   logger,
	}
}

// Summarize generates a summary of the last messages in a chat.
//
// Out-of-range counts are clamped, never rejected; an unknown style falls
// back to standard. The buffer snapshot is taken before the provider call
// so no chat keeps appending under a held lock while the model runs. The
// provider gets exactly one attempt, bounded by the configured timeout.
func (s *SummarizerService) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResult, error) {
	count := req.Count
	if count <= 0 {
		count = s.defaults.DefaultCount
	}
	count = s.buffers.ClampCount(count)

	style := req.Style
	if !style.Valid() {
		style = models.StyleStandard
	}

	msgs := s.buffers.Snapshot(req.ChatID, count)
	if len(msgs) == 0 {
		return nil, ErrEmptyContext
	}

	provider := s.registry.Get(s.llm.Provider)
	if provider == nil {
		return nil, fmt.Errorf("%w: provider %q is not registered", ErrSummarizationUnavailable, s.llm.Provider)
	}

	prompt := buildPrompt(style, msgs)

	callCtx, cancel := context.WithTimeout(ctx, s.llm.Timeout())
	defer cancel()

	resp, err := provider.Complete(callCtx, providers.CompletionRequest{
		Model:     s.llm.Model,
		MaxTokens: s.llm.MaxTokens,
		Messages: []providers.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"chat_id":  req.ChatID,
			"provider": s.llm.Provider,
		}).Error("Failed to generate summary")
		return nil, fmt.Errorf("%w: %v", ErrSummarizationUnavailable, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, ErrEmptyResult
	}

	summary := &models.Summary{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		ChatID:       req.ChatID,
		ChatTitle:    req.ChatTitle,
		Style:        style,
		MessageCount: len(msgs),
		Text:         text,
		CreatedAt:    time.Now().UTC(),
	}

	// Generation succeeded, so the since-summary counter resets whether
	// or not the store write below goes through.
	s.buffers.MarkSummarized(req.ChatID)

	result := &SummarizeResult{Summary: summary}
	if err := s.store.Save(ctx, summary); err != nil {
		s.logger.WithError(err).WithField("summary_id", summary.ID).Error("Failed to save summary")
		result.StoreErr = fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.WithFields(logrus.Fields{
		"summary_id": summary.ID,
		"chat_id":    req.ChatID,
		"style":      string(style),
		"messages":   len(msgs),
		"tokens":     resp.Usage.TotalTokens,
	}).Info("Summary created")

	return result, nil
}

// Probe sends a tiny completion to verify the configured provider accepts
// requests. Called once at startup.
func (s *SummarizerService) Probe(ctx context.Context) error {
	provider := s.registry.Get(s.llm.Provider)
	if provider == nil {
		return fmt.Errorf("provider %q is not registered", s.llm.Provider)
	}

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := provider.Complete(callCtx, providers.CompletionRequest{
		Model:     s.llm.Model,
		MaxTokens: 10,
		Messages: []providers.Message{
			{Role: "user", Content: "Hi"},
		},
	})
	if err != nil {
		return fmt.Errorf("provider %q rejected probe: %w", s.llm.Provider, err)
	}
	return nil
}
