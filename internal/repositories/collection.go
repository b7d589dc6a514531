package repositories

import (
	"challengehub/internal/database"

	"go.uber.org/zap"
)

// NewCollection wires every repository against the shared database manager
func NewCollection(db *database.Manager, logger *zap.Logger) *Collection {
	return &Collection{
		Users:         NewUserRepository(db, logger),
		Badges:        NewBadgeRepository(db, logger),
		Challenges:    NewChallengeRepository(db, logger),
		Announcements: NewAnnouncementRepository(db, logger),
		Notifications: NewNotificationRepository(db, logger),
	}
}
