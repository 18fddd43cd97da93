package models

import "time"

// Summary is one generated summarization result. Summaries are immutable
// once stored; retention is capped per user with oldest-first eviction.
type Summary struct {
	ID           string    `db:"id" json:"id"`
	UserID       int64     `db:"user_telegram_id" json:"user_telegram_id"`
	ChatID       int64     `db:"chat_id" json:"chat_id"`
	ChatTitle    string    `db:"chat_title" json:"chat_title,omitempty"`
	Style        Style     `db:"style" json:"style"`
	MessageCount int       `db:"message_count" json:"message_count"`
	Text         string    `db:"summary_text" json:"summary_text"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
