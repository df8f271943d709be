package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/tuhmaz/edu/internal/app/models"
	"github.com/tuhmaz/edu/internal/pkg/apperrors"
)

// FileRepository handles database operations for article files
type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	Delete(ctx context.Context, id int64) error
	ListByArticle(ctx context.Context, articleID int64) ([]models.File, error)
	ListByArticleIDs(ctx context.Context, articleIDs []int64) (map[int64][]models.File, error)
	DeleteByArticle(ctx context.Context, articleID int64) ([]models.File, error)
}

type fileRepository struct {
	db DBTX
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db DBTX) FileRepository {
	return &fileRepository{db: db}
}

var fileColumns = []string{"id", "article_id", "file_path", "file_type", "file_category", "file_name", "file_size", "created_at"}

func scanFile(row pgx.Row) (models.File, error) {
	var f models.File
	err := row.Scan(&f.ID, &f.ArticleID, &f.FilePath, &f.FileType, &f.FileCategory, &f.FileName, &f.FileSize, &f.CreatedAt)
	return f, err
}

func collectFiles(rows pgx.Rows) ([]models.File, error) {
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Create records a stored file
func (r *fileRepository) Create(ctx context.Context, file *models.File) error {
	sql, args, err := psql.Insert("files").
		Columns("article_id", "file_path", "file_type", "file_category", "file_name", "file_size").
		Values(file.ArticleID, file.FilePath, file.FileType, file.FileCategory, file.FileName, file.FileSize).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&file.ID, &file.CreatedAt); err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	return nil
}

// Delete deletes a file row
func (r *fileRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("files").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting file: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("file not found")
	}
	return nil
}

// ListByArticle returns the files of one article, oldest first
func (r *fileRepository) ListByArticle(ctx context.Context, articleID int64) ([]models.File, error) {
	sql, args, err := psql.Select(fileColumns...).
		From("files").
		Where(squirrel.Eq{"article_id": articleID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return collectFiles(rows)
}

// ListByArticleIDs groups the files of several articles
func (r *fileRepository) ListByArticleIDs(ctx context.Context, articleIDs []int64) (map[int64][]models.File, error) {
	result := make(map[int64][]models.File, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	sql, args, err := psql.Select(fileColumns...).
		From("files").
		Where(squirrel.Eq{"article_id": articleIDs}).
		OrderBy("article_id", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	files, err := collectFiles(rows)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		result[f.ArticleID] = append(result[f.ArticleID], f)
	}
	return result, nil
}

// DeleteByArticle removes every file row of the article and returns what was removed
func (r *fileRepository) DeleteByArticle(ctx context.Context, articleID int64) ([]models.File, error) {
	sql, args, err := psql.Delete("files").
		Where(squirrel.Eq{"article_id": articleID}).
		Suffix("RETURNING " + strings.Join(fileColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error deleting files: %w", err)
	}
	return collectFiles(rows)
}
