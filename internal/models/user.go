package models

import "time"

// User is a Telegram user the bot has seen, upserted on every interaction.
type User struct {
	TelegramID   int64     `db:"telegram_id" json:"telegram_id"`
	Username     string    `db:"username" json:"username,omitempty"`
	FirstName    string    `db:"first_name" json:"first_name,omitempty"`
	LastName     string    `db:"last_name" json:"last_name,omitempty"`
	LanguageCode string    `db:"language_code" json:"language_code,omitempty"`
	IsBot        bool      `db:"is_bot" json:"is_bot"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
	LastSeenAt   time.Time `db:"last_seen_at" json:"last_seen_at"`
}

// DisplayName returns the friendliest non-empty identifier for the user.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return "there"
}
