package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/tuhmaz/edu/internal/app/models"
	"github.com/tuhmaz/edu/internal/pkg/apperrors"
)

// KeywordRepository manages the interned keywords of one partition and their article links
type KeywordRepository interface {
	FindOrCreate(ctx context.Context, text string) (*models.Keyword, error)
	GetByText(ctx context.Context, text string) (*models.Keyword, error)
	ReplaceForArticle(ctx context.Context, articleID int64, keywordIDs []int64) error
	ListByArticleIDs(ctx context.Context, articleIDs []int64) (map[int64][]models.Keyword, error)
}

type keywordRepository struct {
	db DBTX
}

// NewKeywordRepository creates a new KeywordRepository
func NewKeywordRepository(db DBTX) KeywordRepository {
	return &keywordRepository{db: db}
}

// FindOrCreate returns the keyword with this exact text, inserting it when missing.
// The no-op update makes RETURNING yield the existing row on conflict.
func (r *keywordRepository) FindOrCreate(ctx context.Context, text string) (*models.Keyword, error) {
	sql, args, err := psql.Insert("keywords").
		Columns("keyword").
		Values(text).
		Suffix("ON CONFLICT (keyword) DO UPDATE SET keyword = EXCLUDED.keyword RETURNING id, keyword, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var k models.Keyword
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&k.ID, &k.Keyword, &k.CreatedAt); err != nil {
		return nil, fmt.Errorf("error finding or creating keyword %q: %w", text, err)
	}
	return &k, nil
}

// GetByText looks a keyword up by its exact text
func (r *keywordRepository) GetByText(ctx context.Context, text string) (*models.Keyword, error) {
	sql, args, err := psql.Select("id", "keyword", "created_at").
		From("keywords").
		Where(squirrel.Eq{"keyword": text}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var k models.Keyword
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&k.ID, &k.Keyword, &k.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrKeywordNotFound
		}
		return nil, fmt.Errorf("error getting keyword: %w", err)
	}
	return &k, nil
}

// ReplaceForArticle detaches every keyword of the article and attaches keywordIDs in order.
// Keywords themselves are never deleted.
func (r *keywordRepository) ReplaceForArticle(ctx context.Context, articleID int64, keywordIDs []int64) error {
	sql, args, err := psql.Delete("article_keyword").Where(squirrel.Eq{"article_id": articleID}).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error detaching keywords: %w", err)
	}

	if len(keywordIDs) == 0 {
		return nil
	}

	insert := psql.Insert("article_keyword").Columns("article_id", "keyword_id", "position")
	for i, id := range keywordIDs {
		insert = insert.Values(articleID, id, i)
	}
	sql, args, err = insert.Suffix("ON CONFLICT (article_id, keyword_id) DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error attaching keywords: %w", err)
	}
	return nil
}

// ListByArticleIDs returns the keywords of each article in attachment order
func (r *keywordRepository) ListByArticleIDs(ctx context.Context, articleIDs []int64) (map[int64][]models.Keyword, error) {
	result := make(map[int64][]models.Keyword, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	sql, args, err := psql.Select("ak.article_id", "k.id", "k.keyword", "k.created_at").
		From("article_keyword ak").
		Join("keywords k ON k.id = ak.keyword_id").
		Where(squirrel.Eq{"ak.article_id": articleIDs}).
		OrderBy("ak.article_id", "ak.position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			articleID int64
			k         models.Keyword
		)
		if err := rows.Scan(&articleID, &k.ID, &k.Keyword, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result[articleID] = append(result[articleID], k)
	}
	return result, rows.Err()
}
