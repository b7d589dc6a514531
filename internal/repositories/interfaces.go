package repositories

import (
	"context"
	"time"

	"challengehub/internal/models"
)

// ===============================
// REPOSITORY INTERFACES
// ===============================

// UserRepository defines persistence operations for users and their
// earned badges and solved challenges.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	UpdateProfile(ctx context.Context, user *models.User) error
	SetOTP(ctx context.Context, id int64, otp string, expires time.Time) error
	ClearOTPAndVerify(ctx context.Context, id int64) error
	UpdateCredentials(ctx context.Context, id int64, name, passwordHash string) error
	SetRole(ctx context.Context, id int64, role string) error

	// ApplyAdminEdit persists an admin edit atomically: the user row,
	// the full badge and solved-challenge replacement, and the change
	// notification when one is due.
	ApplyAdminEdit(ctx context.Context, user *models.User, badges []models.EarnedBadge, solved []models.SolvedChallenge, notification *models.Notification) error

	Delete(ctx context.Context, id int64) error

	ListByRole(ctx context.Context, role string, limit int) ([]*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	CountWithMorePoints(ctx context.Context, points int) (int, error)
	CountByRole(ctx context.Context, role string) (int, error)

	GetEarnedBadges(ctx context.Context, userID int64) ([]models.EarnedBadge, error)
	GetSolvedChallenges(ctx context.Context, userID int64) ([]models.SolvedChallenge, error)
}

// BadgeRepository defines persistence operations for the badge catalog.
type BadgeRepository interface {
	Create(ctx context.Context, badge *models.Badge) error
	GetByID(ctx context.Context, id int64) (*models.Badge, error)
	List(ctx context.Context) ([]*models.Badge, error)
	Update(ctx context.Context, badge *models.Badge) error
	Delete(ctx context.Context, id int64) error
}

// ChallengeRepository defines persistence operations for challenges.
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, id int64) (*models.Challenge, error)
	List(ctx context.Context) ([]*models.Challenge, error)
	Latest(ctx context.Context) (*models.Challenge, error)
	Update(ctx context.Context, challenge *models.Challenge) error
	Delete(ctx context.Context, id int64) error
}

// AnnouncementRepository defines persistence operations for announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	List(ctx context.Context, limit int) ([]*models.Announcement, error)
	Delete(ctx context.Context, id int64) error
}

// NotificationRepository defines persistence operations for
// notifications. Rows are inserted by the admin edit transaction in
// UserRepository.ApplyAdminEdit, never through this interface.
type NotificationRepository interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) error
}

// Collection bundles all repositories for dependency injection.
type Collection struct {
	Users         UserRepository
	Badges        BadgeRepository
	Challenges    ChallengeRepository
	Announcements AnnouncementRepository
	Notifications NotificationRepository
}
