package repositories

import (
	"context"
	"fmt"

	"challengehub/internal/database"
	"challengehub/internal/models"

	"go.uber.org/zap"
)

// notificationRepository implements NotificationRepository with raw SQL
type notificationRepository struct {
	*BaseRepository
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.Manager, logger *zap.Logger) NotificationRepository {
	return &notificationRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// ListByUser returns the newest notifications for a user
func (r *notificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, message, type, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// MarkAllRead flags every unread notification for the user
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return nil
}
