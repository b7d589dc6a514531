package services

import (
	"context"

	"challengehub/internal/models"
)

// ===============================
// CORE SERVICE INTERFACES
// ===============================

// AuthService defines the registration and login flows
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*AuthResponse, error)
	ResendOTP(ctx context.Context, req *ResendOTPRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	SeedOwner(ctx context.Context) error
}

// UserService defines user profile and management business logic
type UserService interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*models.User, error)
	AdminUpdateUser(ctx context.Context, req *AdminUpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetLeaderboard(ctx context.Context) (*models.Leaderboard, error)
}

// ChallengeService defines challenge business logic
type ChallengeService interface {
	CreateChallenge(ctx context.Context, req *CreateChallengeRequest) (*models.Challenge, error)
	GetChallengeByID(ctx context.Context, id int64) (*models.Challenge, error)
	ListChallenges(ctx context.Context) ([]*models.Challenge, error)
	GetLatestChallenge(ctx context.Context) (*models.Challenge, error)
	UpdateChallenge(ctx context.Context, req *UpdateChallengeRequest) (*models.Challenge, error)
	DeleteChallenge(ctx context.Context, id int64) error
}

// BadgeService defines badge catalog business logic
type BadgeService interface {
	CreateBadge(ctx context.Context, req *CreateBadgeRequest) (*models.Badge, error)
	ListBadges(ctx context.Context) ([]*models.Badge, error)
	UpdateBadge(ctx context.Context, req *UpdateBadgeRequest) (*models.Badge, error)
	DeleteBadge(ctx context.Context, id int64) error
}

// AnnouncementService defines announcement business logic
type AnnouncementService interface {
	CreateAnnouncement(ctx context.Context, req *CreateAnnouncementRequest) (*models.Announcement, error)
	ListAnnouncements(ctx context.Context) ([]*models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int64) error
}

// NotificationService defines per-user notification business logic.
// Notifications are only ever created inside the admin edit
// transaction, so the service surface is read and acknowledge.
type NotificationService interface {
	ListNotifications(ctx context.Context, userID int64) ([]*models.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) error
}

// EmailService delivers transactional mail
type EmailService interface {
	SendOTP(ctx context.Context, to, name, otp string) error
}

// FileService stores uploaded media
type FileService interface {
	UploadImage(ctx context.Context, req *FileUploadRequest) (*FileUploadResult, error)
	DeleteImage(ctx context.Context, publicID string) error
}
