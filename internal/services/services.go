package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/recapbot/recapbot/internal/buffer"
	"github.com/recapbot/recapbot/internal/config"
	"github.com/recapbot/recapbot/internal/models"
	"github.com/recapbot/recapbot/internal/providers"
)

// UserStore persists Telegram user profiles.
type UserStore interface {
	Upsert(ctx context.Context, user *models.User) error
	Get(ctx context.Context, telegramID int64) (*models.User, error)
}

// Services holds all service instances
type Services struct {
	Summarizer *SummarizerService
	Buffers    *buffer.Manager
	Providers  *providers.Registry

	store      SummaryStore
	users      UserStore
	llm        config.LLMConfig
	maxPerUser int
	logger     *logrus.Logger
}

// NewServices creates all service instances
func NewServices(
	cfg *config.Config,
	buffers *buffer.Manager,
	registry *providers.Registry,
	store SummaryStore,
	users UserStore,
	logger *logrus.Logger,
) *Services {
	return &Services{
		Summarizer: NewSummarizerService(buffers, registry, store, cfg.LLM, cfg.Summary, logger),
		Buffers:    buffers,
		Providers:  registry,
		store:      store,
		users:      users,
		llm:        cfg.LLM,
		maxPerUser: cfg.Summary.MaxPerUser,
		logger:     logger,
	}
}

// ActiveProvider returns the configured provider id and model.
func (s *Services) ActiveProvider() (string, string) {
	return s.llm.Provider, s.llm.Model
}

// RecordMessage appends a group message to its chat buffer and refreshes
// the sender profile. Profile writes are best effort: a down database
// never blocks message capture.
func (s *Services) RecordMessage(ctx context.Context, msg buffer.Message, sender *models.User) buffer.Status {
	status := s.Buffers.Append(msg.ChatID, msg)
	if sender != nil {
		s.RememberUser(ctx, sender)
	}
	return status
}

// RememberUser refreshes a user profile row. Best effort: failures are
// logged, not returned.
func (s *Services) RememberUser(ctx context.Context, user *models.User) {
	if err := s.users.Upsert(ctx, user); err != nil {
		s.logger.WithError(err).WithField("user_id", user.TelegramID).Warn("Failed to upsert user")
	}
}

// ListSummaries returns the user's stored summaries, newest first.
func (s *Services) ListSummaries(ctx context.Context, userID int64) ([]models.Summary, error) {
	summaries, err := s.store.ListRecent(ctx, userID, s.maxPerUser)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return summaries, nil
}

// SearchSummaries returns the user's stored summaries whose text contains
// the keyword, newest first. No match is an empty slice, not an error.
func (s *Services) SearchSummaries(ctx context.Context, userID int64, keyword string) ([]models.Summary, error) {
	summaries, err := s.store.Search(ctx, userID, keyword)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return summaries, nil
}

// GetSummary returns one stored summary by id.
func (s *Services) GetSummary(ctx context.Context, id string) (*models.Summary, error) {
	summary, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSummaryNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return summary, nil
}

// GetUser returns a stored Telegram user profile.
func (s *Services) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	user, err := s.users.Get(ctx, telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return user, nil
}
