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

// UserRepository reads the dashboard user directory
type UserRepository interface {
	ListActiveIDs(ctx context.Context, afterID int64, limit int) ([]int64, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	CreateIfMissing(ctx context.Context, user *models.User) (bool, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

// ListActiveIDs pages through active user ids in ascending order, starting after afterID
func (r *userRepository) ListActiveIDs(ctx context.Context, afterID int64, limit int) ([]int64, error) {
	sql, args, err := psql.Select("id").
		From("users").
		Where(squirrel.And{squirrel.Gt{"id": afterID}, squirrel.Eq{"is_active": true}}).
		OrderBy("id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := psql.Select("id", "email", "name", "password", "is_active", "created_at", "updated_at").
		From("users").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var u models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("user not found")
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return &u, nil
}

// CreateIfMissing inserts the user unless the email is taken; it reports whether a row was created
func (r *userRepository) CreateIfMissing(ctx context.Context, user *models.User) (bool, error) {
	sql, args, err := psql.Insert("users").
		Columns("email", "name", "password", "is_active").
		Values(user.Email, user.Name, user.Password, user.IsActive).
		Suffix("ON CONFLICT (email) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error creating user: %w", err)
	}
	return true, nil
}
