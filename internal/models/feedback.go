package models

import "time"

// Feedback is a note posted by a user. Ownership is by username value.
type Feedback struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
