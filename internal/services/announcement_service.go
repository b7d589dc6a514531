package services

import (
	"context"
	"database/sql"
	"errors"

	"challengehub/internal/models"
	"challengehub/internal/repositories"
	"challengehub/internal/validation"

	"go.uber.org/zap"
)

// announcementListLimit caps how many announcements the feed returns
const announcementListLimit = 20

// announcementService implements AnnouncementService
type announcementService struct {
	announcementRepo repositories.AnnouncementRepository
	logger           *zap.Logger
}

// NewAnnouncementService creates a new announcement service
func NewAnnouncementService(announcementRepo repositories.AnnouncementRepository, logger *zap.Logger) AnnouncementService {
	return &announcementService{
		announcementRepo: announcementRepo,
		logger:           logger,
	}
}

// CreateAnnouncement publishes an announcement to all users
func (s *announcementService) CreateAnnouncement(ctx context.Context, req *CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid announcement data", err)
	}

	announcement := &models.Announcement{
		Title:    req.Title,
		Message:  req.Message,
		AuthorID: req.AuthorID,
	}
	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, NewInternalError("failed to create announcement", err)
	}

	s.logger.Info("announcement published",
		zap.Int64("announcement_id", announcement.ID),
		zap.Int64("author_id", announcement.AuthorID),
	)
	return announcement, nil
}

// ListAnnouncements returns the newest announcements
func (s *announcementService) ListAnnouncements(ctx context.Context) ([]*models.Announcement, error) {
	announcements, err := s.announcementRepo.List(ctx, announcementListLimit)
	if err != nil {
		return nil, NewInternalError("failed to list announcements", err)
	}
	return announcements, nil
}

// DeleteAnnouncement removes an announcement
func (s *announcementService) DeleteAnnouncement(ctx context.Context, id int64) error {
	if err := s.announcementRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("Announcement not found")
		}
		return NewInternalError("failed to delete announcement", err)
	}

	s.logger.Info("announcement deleted", zap.Int64("announcement_id", id))
	return nil
}
