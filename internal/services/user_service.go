package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"challengehub/internal/cache"
	"challengehub/internal/config"
	"challengehub/internal/gamify"
	"challengehub/internal/models"
	"challengehub/internal/repositories"
	"challengehub/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	leaderboardCacheKey = "leaderboard:v1"
	leaderboardCacheTTL = time.Minute
	leaderboardLimit    = 50
)

// userService implements UserService with cache-first reads
type userService struct {
	userRepo repositories.UserRepository
	cache    cache.Cache
	logger   *zap.Logger
	cfg      *config.Config
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	cache cache.Cache,
	logger *zap.Logger,
	cfg *config.Config,
) UserService {
	return &userService{
		userRepo: userRepo,
		cache:    cache,
		logger:   logger,
		cfg:      cfg,
	}
}

// ===============================
// READS
// ===============================

// GetUserByID returns the sanitized public view of a user with the
// leaderboard rank attached for regular users.
func (s *userService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("User not found")
	}

	if user.Role == models.RoleUser {
		higher, err := s.userRepo.CountWithMorePoints(ctx, user.Points)
		if err != nil {
			return nil, NewInternalError("failed to compute rank", err)
		}
		rank := higher + 1
		user.Rank = &rank
	}

	user.Sanitize()
	return user, nil
}

// ListUsers returns every account with associations loaded, admin view
func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, NewInternalError("failed to list users", err)
	}

	for _, u := range users {
		u.Sanitize()
	}
	return users, nil
}

// ===============================
// PROFILE EDIT
// ===============================

// UpdateProfile applies a user's edit of their own profile fields
func (s *userService) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*models.User, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid profile data", err)
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, NewInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("User not found")
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Gender != nil {
		user.Gender = req.Gender
	}
	if req.CollegeName != nil {
		user.CollegeName = req.CollegeName
	}
	if req.GraduationYear != nil {
		user.GraduationYear = req.GraduationYear
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.IsACMMember != nil {
		user.IsACMMember = *req.IsACMMember
	}
	if req.ACMID != nil {
		user.ACMID = req.ACMID
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = req.ProfilePicture
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, NewInternalError("failed to update profile", err)
	}

	s.invalidateLeaderboard(ctx)

	user.Sanitize()
	return user, nil
}

// ===============================
// ADMIN EDIT ENGINE
// ===============================

// AdminUpdateUser applies a partial admin edit to another account.
// Badge and solved-challenge payloads are full replacement sets whose
// already-held timestamps are preserved. Credential and picture fields
// require the owner role and are silently ignored below it. When any
// change lands, the edited user receives a single notification
// describing it, written in the same transaction as the edit.
func (s *userService) AdminUpdateUser(ctx context.Context, req *AdminUpdateUserRequest) (*models.User, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid update data", err)
	}

	user, err := s.userRepo.GetByID(ctx, req.TargetID)
	if err != nil {
		return nil, NewInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("User not found")
	}

	var changes gamify.ChangeSet
	now := time.Now()

	if req.Points != nil {
		changes.RecordPoints(user.Points, *req.Points)
		user.Points = *req.Points
	}
	if req.Streak != nil {
		changes.RecordStreak(user.Streak, *req.Streak)
		user.Streak = *req.Streak
	}

	badges := user.Badges
	if req.Badges != nil {
		current := make([]gamify.Earned, len(user.Badges))
		for i, b := range user.Badges {
			current[i] = gamify.Earned{ID: b.BadgeID, At: b.EarnedAt}
		}
		merged, added := gamify.MergeEarned(current, req.Badges, now)
		changes.RecordBadges(added)

		badges = make([]models.EarnedBadge, len(merged))
		for i, e := range merged {
			badges[i] = models.EarnedBadge{BadgeID: e.ID, EarnedAt: e.At}
		}
	}

	solved := user.SolvedChallenges
	if req.SolvedChallenges != nil {
		current := make([]gamify.Earned, len(user.SolvedChallenges))
		for i, c := range user.SolvedChallenges {
			current[i] = gamify.Earned{ID: c.ChallengeID, At: c.SolvedAt}
		}
		merged, added := gamify.MergeEarned(current, req.SolvedChallenges, now)
		changes.RecordSolved(added)

		solved = make([]models.SolvedChallenge, len(merged))
		for i, e := range merged {
			solved[i] = models.SolvedChallenge{ChallengeID: e.ID, SolvedAt: e.At}
		}
	}

	if models.RoleAtLeast(req.ActorRole, models.RoleOwner) {
		if req.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*req.Email))
			if email != user.Email {
				user.Email = email
				changes.Record("email address updated")
			}
		}
		if req.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.cfg.Auth.BCryptCost)
			if err != nil {
				return nil, NewInternalError("failed to hash password", err)
			}
			user.PasswordHash = string(hash)
			changes.Record("password updated")
		}
		if req.ProfilePicture != nil {
			user.ProfilePicture = req.ProfilePicture
			changes.Record("profile picture updated")
		}
	}

	var notification *models.Notification
	if !changes.Empty() {
		notification = &models.Notification{
			UserID:  user.ID,
			Message: changes.NotificationMessage(),
			Type:    "admin_update",
		}
	}

	if err := s.userRepo.ApplyAdminEdit(ctx, user, badges, solved, notification); err != nil {
		return nil, NewInternalError("failed to apply update", err)
	}
	user.Badges = badges
	user.SolvedChallenges = solved

	s.logger.Info("admin edited user",
		zap.Int64("user_id", user.ID),
		zap.Strings("changes", changes.Fragments()),
	)

	s.invalidateLeaderboard(ctx)

	user.Sanitize()
	return user, nil
}

// DeleteUser removes an account and its earned state
func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return NewInternalError("failed to get user", err)
	}
	if user == nil {
		return NewNotFoundError("User not found")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", zap.Int64("user_id", id))
	s.invalidateLeaderboard(ctx)
	return nil
}

// ===============================
// LEADERBOARD
// ===============================

// GetLeaderboard assembles the ranked top users followed by the
// unranked admin section. The owner never appears. Served from cache
// for a minute at a time.
func (s *userService) GetLeaderboard(ctx context.Context) (*models.Leaderboard, error) {
	if val, found := s.cache.Get(ctx, leaderboardCacheKey); found {
		switch v := val.(type) {
		case *models.Leaderboard:
			return v, nil
		case string:
			var board models.Leaderboard
			if err := json.Unmarshal([]byte(v), &board); err == nil {
				return &board, nil
			}
		}
	}

	regulars, err := s.userRepo.ListByRole(ctx, models.RoleUser, leaderboardLimit)
	if err != nil {
		return nil, NewInternalError("failed to load leaderboard users", err)
	}
	admins, err := s.userRepo.ListByRole(ctx, models.RoleAdmin, leaderboardLimit)
	if err != nil {
		return nil, NewInternalError("failed to load leaderboard admins", err)
	}

	points := make([]int, len(regulars))
	for i, u := range regulars {
		points[i] = u.Points
	}

	board := &models.Leaderboard{
		Users:       make([]models.LeaderboardEntry, 0, len(regulars)),
		Admins:      make([]models.LeaderboardEntry, 0, len(admins)),
		GeneratedAt: time.Now(),
	}
	for _, u := range regulars {
		rank := gamify.Rank(u.Points, points)
		entry := leaderboardEntry(u)
		entry.Rank = &rank
		board.Users = append(board.Users, entry)
	}
	for _, u := range admins {
		board.Admins = append(board.Admins, leaderboardEntry(u))
	}

	if err := s.cache.Set(ctx, leaderboardCacheKey, board, leaderboardCacheTTL); err != nil {
		s.logger.Warn("failed to cache leaderboard", zap.Error(err))
	}

	return board, nil
}

func leaderboardEntry(u *models.User) models.LeaderboardEntry {
	badges := u.Badges
	if badges == nil {
		badges = []models.EarnedBadge{}
	}
	return models.LeaderboardEntry{
		UserID:         u.ID,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
		Points:         u.Points,
		Streak:         u.Streak,
		Role:           u.Role,
		Badges:         badges,
		SolvedCount:    len(u.SolvedChallenges),
	}
}

func (s *userService) invalidateLeaderboard(ctx context.Context) {
	if err := s.cache.Delete(ctx, leaderboardCacheKey); err != nil {
		s.logger.Warn("failed to invalidate leaderboard cache", zap.Error(err))
	}
}
