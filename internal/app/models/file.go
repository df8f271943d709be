package models

import "time"

// File is an upload owned by an article. Deleting the article deletes its files.
type File struct {
	ID           int64     `json:"id" db:"id"`
	ArticleID    int64     `json:"articleId" db:"article_id"`
	FilePath     string    `json:"filePath" db:"file_path"`
	FileType     string    `json:"fileType" db:"file_type"` // extension without dot
	FileCategory string    `json:"fileCategory" db:"file_category"`
	FileName     string    `json:"fileName" db:"file_name"`
	FileSize     int64     `json:"fileSize" db:"file_size"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
