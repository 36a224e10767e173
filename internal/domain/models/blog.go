package models

import "time"

// Blog is a finished, polished blog post produced by the generation pipeline
type Blog struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ChatID    *string   `json:"chat_id,omitempty" db:"chat_id"`
	Topic     string    `json:"topic" db:"topic"`
	Content   string    `json:"content" db:"content"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}
