package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx, so every repository can run inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances of one partition
type Repositories struct {
	Articles      ArticleRepository
	Keywords      KeywordRepository
	Files         FileRepository
	Catalog       CatalogRepository
	Users         UserRepository
	Notifications NotificationRepository
}

// NewRepositories initializes all repositories over db
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Articles:      NewArticleRepository(db),
		Keywords:      NewKeywordRepository(db),
		Files:         NewFileRepository(db),
		Catalog:       NewCatalogRepository(db),
		Users:         NewUserRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}
