package models

import "time"

// Keyword is interned per partition by its trimmed text and shared between articles.
type Keyword struct {
	ID        int64     `json:"id" db:"id"`
	Keyword   string    `json:"keyword" db:"keyword"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
