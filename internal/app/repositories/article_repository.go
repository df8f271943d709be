package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/tuhmaz/edu/internal/app/models"
	"github.com/tuhmaz/edu/internal/pkg/apperrors"
)

// ArticleFilter narrows an article listing
type ArticleFilter struct {
	GradeLevel *int   // subject grade level
	KeywordID  *int64 // articles tagged with this keyword
}

// ArticleRepository persists articles of one partition
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	IncrementVisitCount(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, filter ArticleFilter, offset uint64, limit int) ([]*models.Article, int64, error)
}

type articleRepository struct {
	db DBTX
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db DBTX) ArticleRepository {
	return &articleRepository{db: db}
}

var articleColumns = []string{
	"a.id", "a.class_id", "a.subject_id", "a.semester_id", "a.title", "a.content",
	"a.meta_description", "a.author_id", "a.visit_count", "a.created_at", "a.updated_at",
	"c.id", "c.grade_name", "c.grade_level",
	"s.id", "s.subject_name", "s.grade_level",
	"se.id", "se.semester_name", "se.grade_level",
}

func selectArticles(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...).
		From("articles a").
		Join("school_classes c ON c.id = a.class_id").
		Join("subjects s ON s.id = a.subject_id").
		Join("semesters se ON se.id = a.semester_id")
}

func scanArticle(row pgx.Row) (*models.Article, error) {
	var (
		a  models.Article
		c  models.SchoolClass
		s  models.Subject
		se models.Semester
	)
	err := row.Scan(
		&a.ID, &a.ClassID, &a.SubjectID, &a.SemesterID, &a.Title, &a.Content,
		&a.MetaDescription, &a.AuthorID, &a.VisitCount, &a.CreatedAt, &a.UpdatedAt,
		&c.ID, &c.GradeName, &c.GradeLevel,
		&s.ID, &s.SubjectName, &s.GradeLevel,
		&se.ID, &se.SemesterName, &se.GradeLevel,
	)
	if err != nil {
		return nil, err
	}
	a.Class, a.Subject, a.Semester = &c, &s, &se
	return &a, nil
}

// Create inserts the article and fills in its ID and timestamps
func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	query := psql.Insert("articles").
		Columns("class_id", "subject_id", "semester_id", "title", "content", "meta_description", "author_id").
		Values(article.ClassID, article.SubjectID, article.SemesterID, article.Title, article.Content, article.MetaDescription, article.AuthorID).
		Suffix("RETURNING id, visit_count, created_at, updated_at")

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&article.ID, &article.VisitCount, &article.CreatedAt, &article.UpdatedAt); err != nil {
		return fmt.Errorf("error creating article: %w", err)
	}
	return nil
}

// Update overwrites the editable fields; visit count and author are kept
func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	query := psql.Update("articles").
		Set("class_id", article.ClassID).
		Set("subject_id", article.SubjectID).
		Set("semester_id", article.SemesterID).
		Set("title", article.Title).
		Set("content", article.Content).
		Set("meta_description", article.MetaDescription).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": article.ID}).
		Suffix("RETURNING visit_count, created_at, updated_at")

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&article.VisitCount, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrArticleNotFound
		}
		return fmt.Errorf("error updating article: %w", err)
	}
	return nil
}

// Delete removes the article; keyword links and file rows cascade
func (r *articleRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("articles").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrArticleNotFound
	}
	return nil
}

// GetByID loads the article with its class, subject and semester
func (r *articleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	sql, args, err := selectArticles(articleColumns...).Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	article, err := scanArticle(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrArticleNotFound
		}
		return nil, fmt.Errorf("error getting article: %w", err)
	}
	return article, nil
}

// IncrementVisitCount adds one visit atomically and returns the new count
func (r *articleRepository) IncrementVisitCount(ctx context.Context, id int64) (int64, error) {
	sql, args, err := psql.Update("articles").
		Set("visit_count", squirrel.Expr("visit_count + 1")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING visit_count").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrArticleNotFound
		}
		return 0, fmt.Errorf("error incrementing visit count: %w", err)
	}
	return count, nil
}

func applyArticleFilter(q squirrel.SelectBuilder, filter ArticleFilter) squirrel.SelectBuilder {
	if filter.GradeLevel != nil {
		q = q.Where(squirrel.Eq{"s.grade_level": *filter.GradeLevel})
	}
	if filter.KeywordID != nil {
		q = q.Join("article_keyword ak ON ak.article_id = a.id").
			Where(squirrel.Eq{"ak.keyword_id": *filter.KeywordID})
	}
	return q
}

// List returns one page of articles, newest first, and the total matching count
func (r *articleRepository) List(ctx context.Context, filter ArticleFilter, offset uint64, limit int) ([]*models.Article, int64, error) {
	countSQL, countArgs, err := applyArticleFilter(selectArticles("COUNT(*)"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting articles: %w", err)
	}

	query := applyArticleFilter(selectArticles(articleColumns...), filter).
		OrderBy("a.created_at DESC", "a.id DESC").
		Limit(uint64(limit)).
		Offset(offset)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	articles := make([]*models.Article, 0, limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return articles, total, nil
}
