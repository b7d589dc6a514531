package services

import (
	"context"

	"challengehub/internal/models"
	"challengehub/internal/repositories"
	"challengehub/internal/validation"

	"go.uber.org/zap"
)

// badgeService implements BadgeService
type badgeService struct {
	badgeRepo repositories.BadgeRepository
	logger    *zap.Logger
}

// NewBadgeService creates a new badge service
func NewBadgeService(badgeRepo repositories.BadgeRepository, logger *zap.Logger) BadgeService {
	return &badgeService{
		badgeRepo: badgeRepo,
		logger:    logger,
	}
}

// CreateBadge adds a badge to the catalog
func (s *badgeService) CreateBadge(ctx context.Context, req *CreateBadgeRequest) (*models.Badge, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid badge data", err)
	}

	badge := badgeFromRequest(req)
	if err := s.badgeRepo.Create(ctx, badge); err != nil {
		return nil, NewInternalError("failed to create badge", err)
	}

	s.logger.Info("badge created",
		zap.Int64("badge_id", badge.ID),
		zap.String("name", badge.Name),
	)
	return badge, nil
}

// ListBadges returns the full catalog
func (s *badgeService) ListBadges(ctx context.Context) ([]*models.Badge, error) {
	badges, err := s.badgeRepo.List(ctx)
	if err != nil {
		return nil, NewInternalError("failed to list badges", err)
	}
	return badges, nil
}

// UpdateBadge rewrites a catalog entry
func (s *badgeService) UpdateBadge(ctx context.Context, req *UpdateBadgeRequest) (*models.Badge, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid badge data", err)
	}

	existing, err := s.badgeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, NewInternalError("failed to get badge", err)
	}
	if existing == nil {
		return nil, NewNotFoundError("Badge not found")
	}

	badge := badgeFromRequest(&req.CreateBadgeRequest)
	badge.ID = req.ID
	badge.CreatedAt = existing.CreatedAt

	if err := s.badgeRepo.Update(ctx, badge); err != nil {
		return nil, NewInternalError("failed to update badge", err)
	}

	s.logger.Info("badge updated", zap.Int64("badge_id", badge.ID))
	return badge, nil
}

// DeleteBadge removes a badge from the catalog
func (s *badgeService) DeleteBadge(ctx context.Context, id int64) error {
	existing, err := s.badgeRepo.GetByID(ctx, id)
	if err != nil {
		return NewInternalError("failed to get badge", err)
	}
	if existing == nil {
		return NewNotFoundError("Badge not found")
	}

	if err := s.badgeRepo.Delete(ctx, id); err != nil {
		return NewInternalError("failed to delete badge", err)
	}

	s.logger.Info("badge deleted", zap.Int64("badge_id", id))
	return nil
}

func badgeFromRequest(req *CreateBadgeRequest) *models.Badge {
	return &models.Badge{
		Name:        req.Name,
		Description: optionalString(req.Description),
		Icon:        optionalString(req.Icon),
		Rarity:      req.Rarity,
		Type:        optionalString(req.Type),
		Criteria:    optionalString(req.Criteria),
	}
}
