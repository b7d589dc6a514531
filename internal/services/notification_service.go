package services

import (
	"context"

	"challengehub/internal/models"
	"challengehub/internal/repositories"

	"go.uber.org/zap"
)

// notificationListLimit caps how many notifications a user sees
const notificationListLimit = 20

// notificationService implements NotificationService
type notificationService struct {
	notificationRepo repositories.NotificationRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo repositories.NotificationRepository, logger *zap.Logger) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// ListNotifications returns the user's newest notifications
func (s *notificationService) ListNotifications(ctx context.Context, userID int64) ([]*models.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userID, notificationListLimit)
	if err != nil {
		return nil, NewInternalError("failed to list notifications", err)
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}
	return notifications, nil
}

// MarkAllRead flags the user's notifications as read
func (s *notificationService) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		return NewInternalError("failed to mark notifications read", err)
	}
	return nil
}
