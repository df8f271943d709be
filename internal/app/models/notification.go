package models

import (
	"encoding/json"
	"time"
)

// NotificationTypeArticlePublished is stored for every user when an article is created
const NotificationTypeArticlePublished = "article.published"

// Notification is an in-app notification row
type Notification struct {
	ID        int64           `json:"id" db:"id"`
	UserID    int64           `json:"userId" db:"user_id"`
	Type      string          `json:"type" db:"type"`
	Data      json.RawMessage `json:"data" db:"data"`
	ReadAt    *time.Time      `json:"readAt,omitempty" db:"read_at"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}
