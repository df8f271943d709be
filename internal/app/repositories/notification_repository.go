package repositories

import (
	"context"
	"fmt"
)

// NotificationRepository stores in-app notifications
type NotificationRepository interface {
	CreateBatch(ctx context.Context, userIDs []int64, notificationType string, data []byte) (int64, error)
}

type notificationRepository struct {
	db DBTX
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db DBTX) NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateBatch inserts the same notification for every user in one statement
func (r *notificationRepository) CreateBatch(ctx context.Context, userIDs []int64, notificationType string, data []byte) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	insert := psql.Insert("notifications").Columns("user_id", "type", "data")
	for _, id := range userIDs {
		insert = insert.Values(id, notificationType, string(data))
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error creating notifications: %w", err)
	}
	return result.RowsAffected(), nil
}
