package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/recapbot/recapbot/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert inserts the user or refreshes their profile and last-seen time.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.UpdatedAt = now
	user.LastSeenAt = now
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}

	query := `
		INSERT INTO users (telegram_id, username, first_name, last_name, language_code, is_bot, created_at, updated_at, last_seen_at)
		VALUES (:telegram_id, :username, :first_name, :last_name, :language_code, :is_bot, :created_at, :updated_at, :last_seen_at)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			language_code = EXCLUDED.language_code,
			is_bot = EXCLUDED.is_bot,
			updated_at = EXCLUDED.updated_at,
			last_seen_at = EXCLUDED.last_seen_at`

	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

// Get retrieves a user by Telegram ID.
func (r *UserRepository) Get(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE telegram_id = $1`

	if err := r.db.GetContext(ctx, &user, query, telegramID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
