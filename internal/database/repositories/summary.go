package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/recapbot/recapbot/internal/models"
)

// SummaryRepository handles summary persistence. Writes for the same user
// are serialized so cap eviction never races; different users proceed
// concurrently.
type SummaryRepository struct {
	db         *sqlx.DB
	maxPerUser int

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

// NewSummaryRepository creates a new summary repository that retains at most
// maxPerUser summaries per user.
func NewSummaryRepository(db *sqlx.DB, maxPerUser int) *SummaryRepository {
	if maxPerUser <= 0 {
		maxPerUser = 5
	}
	return &SummaryRepository{
		db:         db,
		maxPerUser: maxPerUser,
		userLocks:  make(map[int64]*sync.Mutex),
	}
}

// Save inserts a summary and evicts the user's oldest entries beyond the
// per-user cap, atomically.
func (r *SummaryRepository) Save(ctx context.Context, summary *models.Summary) error {
	lock := r.lockFor(summary.UserID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO summaries (id, user_telegram_id, chat_id, chat_title, style, message_count, summary_text, created_at)
		VALUES (:id, :user_telegram_id, :chat_id, :chat_title, :style, :message_count, :summary_text, :created_at)`

	if _, err := tx.NamedExecContext(ctx, insertQuery, summary); err != nil {
		return fmt.Errorf("failed to insert summary: %w", err)
	}

	evictQuery := `
		DELETE FROM summaries
		WHERE user_telegram_id = $1
		  AND id NOT IN (
			SELECT id FROM summaries
			WHERE user_telegram_id = $1
			ORDER BY created_at DESC, id
			LIMIT $2
		  )`

	if _, err := tx.ExecContext(ctx, evictQuery, summary.UserID, r.maxPerUser); err != nil {
		return fmt.Errorf("failed to evict old summaries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit summary: %w", err)
	}

	return nil
}

// ListRecent retrieves up to limit summaries for a user, newest first.
func (r *SummaryRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]models.Summary, error) {
	if limit <= 0 || limit > r.maxPerUser {
		limit = r.maxPerUser
	}

	var summaries []models.Summary
	query := `
		SELECT * FROM summaries
		WHERE user_telegram_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &summaries, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}

	return summaries, nil
}

// Search retrieves the user's summaries whose text contains keyword,
// case-insensitively, newest first. No match yields an empty slice.
func (r *SummaryRepository) Search(ctx context.Context, userID int64, keyword string) ([]models.Summary, error) {
	var summaries []models.Summary
	query := `
		SELECT * FROM summaries
		WHERE user_telegram_id = $1
		  AND summary_text ILIKE '%' || $2 || '%'
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &summaries, query, userID, escapeLike(keyword)); err != nil {
		return nil, fmt.Errorf("failed to search summaries: %w", err)
	}

	return summaries, nil
}

// GetByID retrieves a single summary.
func (r *SummaryRepository) GetByID(ctx context.Context, id string) (*models.Summary, error) {
	var summary models.Summary
	query := `SELECT * FROM summaries WHERE id = $1`

	if err := r.db.GetContext(ctx, &summary, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	return &summary, nil
}

// CountByUser returns the number of stored summaries for a user.
func (r *SummaryRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM summaries WHERE user_telegram_id = $1`

	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count summaries: %w", err)
	}

	return count, nil
}

func (r *SummaryRepository) lockFor(userID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.userLocks[userID] = lock
	}
	return lock
}

// escapeLike neutralizes LIKE wildcards so the keyword matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
