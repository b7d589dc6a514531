package services

import (
	"context"

	"challengehub/internal/models"
	"challengehub/internal/repositories"
	"challengehub/internal/validation"

	"go.uber.org/zap"
)

// challengeService implements ChallengeService
type challengeService struct {
	challengeRepo repositories.ChallengeRepository
	logger        *zap.Logger
}

// NewChallengeService creates a new challenge service
func NewChallengeService(challengeRepo repositories.ChallengeRepository, logger *zap.Logger) ChallengeService {
	return &challengeService{
		challengeRepo: challengeRepo,
		logger:        logger,
	}
}

// CreateChallenge publishes a new challenge
func (s *challengeService) CreateChallenge(ctx context.Context, req *CreateChallengeRequest) (*models.Challenge, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid challenge data", err)
	}

	challenge := challengeFromRequest(req)
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, NewInternalError("failed to create challenge", err)
	}

	s.logger.Info("challenge created",
		zap.Int64("challenge_id", challenge.ID),
		zap.String("title", challenge.Title),
	)
	return challenge, nil
}

// GetChallengeByID returns a single challenge
func (s *challengeService) GetChallengeByID(ctx context.Context, id int64) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to get challenge", err)
	}
	if challenge == nil {
		return nil, NewNotFoundError("Challenge not found")
	}
	return challenge, nil
}

// ListChallenges returns all challenges, newest first
func (s *challengeService) ListChallenges(ctx context.Context) ([]*models.Challenge, error) {
	challenges, err := s.challengeRepo.List(ctx)
	if err != nil {
		return nil, NewInternalError("failed to list challenges", err)
	}
	return challenges, nil
}

// GetLatestChallenge returns the most recent challenge
func (s *challengeService) GetLatestChallenge(ctx context.Context) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.Latest(ctx)
	if err != nil {
		return nil, NewInternalError("failed to get latest challenge", err)
	}
	if challenge == nil {
		return nil, NewNotFoundError("No challenges published yet")
	}
	return challenge, nil
}

// UpdateChallenge rewrites an existing challenge
func (s *challengeService) UpdateChallenge(ctx context.Context, req *UpdateChallengeRequest) (*models.Challenge, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid challenge data", err)
	}

	existing, err := s.challengeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, NewInternalError("failed to get challenge", err)
	}
	if existing == nil {
		return nil, NewNotFoundError("Challenge not found")
	}

	challenge := challengeFromRequest(&req.CreateChallengeRequest)
	challenge.ID = req.ID
	challenge.CreatedAt = existing.CreatedAt

	if err := s.challengeRepo.Update(ctx, challenge); err != nil {
		return nil, NewInternalError("failed to update challenge", err)
	}

	s.logger.Info("challenge updated", zap.Int64("challenge_id", challenge.ID))
	return challenge, nil
}

// DeleteChallenge removes a challenge
func (s *challengeService) DeleteChallenge(ctx context.Context, id int64) error {
	existing, err := s.challengeRepo.GetByID(ctx, id)
	if err != nil {
		return NewInternalError("failed to get challenge", err)
	}
	if existing == nil {
		return NewNotFoundError("Challenge not found")
	}

	if err := s.challengeRepo.Delete(ctx, id); err != nil {
		return NewInternalError("failed to delete challenge", err)
	}

	s.logger.Info("challenge deleted", zap.Int64("challenge_id", id))
	return nil
}

func challengeFromRequest(req *CreateChallengeRequest) *models.Challenge {
	status := req.Status
	if status == "" {
		status = "active"
	}
	return &models.Challenge{
		Title:        req.Title,
		Description:  req.Description,
		Difficulty:   req.Difficulty,
		Points:       req.Points,
		Category:     optionalString(req.Category),
		Type:         optionalString(req.Type),
		ExternalLink: req.ExternalLink,
		ResourceLink: req.ResourceLink,
		TestCases:    req.TestCases,
		Deadline:     req.Deadline,
		Status:       status,
	}
}

// optionalString maps "" to a NULL column value
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
