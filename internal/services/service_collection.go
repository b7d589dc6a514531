package services

import (
	"challengehub/internal/cache"
	"challengehub/internal/config"
	"challengehub/internal/repositories"

	"go.uber.org/zap"
)

// Collection bundles every service for dependency injection
type Collection struct {
	Auth          AuthService
	Users         UserService
	Challenges    ChallengeService
	Badges        BadgeService
	Announcements AnnouncementService
	Notifications NotificationService
	Email         EmailService
	Files         FileService
}

// NewCollection wires the full service graph. The file service is
// optional; it stays nil when Cloudinary credentials are absent and
// the upload endpoint reports uploads as unavailable.
func NewCollection(
	repos *repositories.Collection,
	cacheProvider cache.Cache,
	cfg *config.Config,
	logger *zap.Logger,
) *Collection {
	emailService := NewEmailService(cfg.Email, logger)

	var fileService FileService
	if fs, err := NewFileService(cfg.Cloudinary, logger); err != nil {
		logger.Warn("file uploads disabled", zap.Error(err))
	} else {
		fileService = fs
	}

	return &Collection{
		Auth:          NewAuthService(repos.Users, emailService, logger, cfg),
		Users:         NewUserService(repos.Users, cacheProvider, logger, cfg),
		Challenges:    NewChallengeService(repos.Challenges, logger),
		Badges:        NewBadgeService(repos.Badges, logger),
		Announcements: NewAnnouncementService(repos.Announcements, logger),
		Notifications: NewNotificationService(repos.Notifications, logger),
		Email:         emailService,
		Files:         fileService,
	}
}
