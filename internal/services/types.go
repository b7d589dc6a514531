package services

import (
	"time"

	"challengehub/internal/models"
)

// ===============================
// AUTH SERVICE TYPES
// ===============================

// RegisterRequest starts or restarts a registration. The demographic
// fields are optional and land on the new account alongside identity.
type RegisterRequest struct {
	Name           string  `json:"name" validate:"required,min=2,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8,max=128"`
	Gender         *string `json:"gender,omitempty" validate:"omitempty,max=30"`
	Age            *int    `json:"age,omitempty" validate:"omitempty,min=10,max=120"`
	IsACMMember    *bool   `json:"is_acm_member,omitempty"`
	ACMID          *string `json:"acm_id,omitempty" validate:"omitempty,max=50"`
	CollegeName    *string `json:"college_name,omitempty" validate:"omitempty,max=200"`
	GraduationYear *int    `json:"graduation_year,omitempty" validate:"omitempty,min=1950,max=2100"`
}

// VerifyOTPRequest confirms the emailed verification code
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResendOTPRequest asks for a fresh verification code
type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginRequest authenticates with email and password
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by the registration and login flows.
// DevOTP is only populated when mail delivery failed outside
// production, so local clients can complete verification.
type AuthResponse struct {
	Token             string       `json:"token,omitempty"`
	User              *models.User `json:"user,omitempty"`
	NeedsVerification bool         `json:"needs_verification,omitempty"`
	Message           string       `json:"message,omitempty"`
	EmailError        bool         `json:"email_error,omitempty"`
	DevOTP            string       `json:"dev_otp,omitempty"`
}

// ===============================
// USER SERVICE TYPES
// ===============================

// UpdateProfileRequest carries the fields a user may edit on their own
// account. Nil pointers mean "leave unchanged".
type UpdateProfileRequest struct {
	UserID         int64   `json:"-"`
	Name           *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Gender         *string `json:"gender,omitempty" validate:"omitempty,max=30"`
	CollegeName    *string `json:"college_name,omitempty" validate:"omitempty,max=200"`
	GraduationYear *int    `json:"graduation_year,omitempty" validate:"omitempty,min=1950,max=2100"`
	Age            *int    `json:"age,omitempty" validate:"omitempty,min=10,max=120"`
	IsACMMember    *bool   `json:"is_acm_member,omitempty"`
	ACMID          *string `json:"acm_id,omitempty" validate:"omitempty,max=50"`
	ProfilePicture *string `json:"profile_picture,omitempty" validate:"omitempty,url"`
}

// AdminUpdateUserRequest carries an admin edit of another user's
// account. Badges and SolvedChallenges are full replacement sets.
// Email, Password and ProfilePicture require the owner role and are
// silently ignored below it.
type AdminUpdateUserRequest struct {
	TargetID         int64    `json:"-"`
	ActorRole        string   `json:"-"`
	Points           *int     `json:"points,omitempty"`
	Streak           *int     `json:"streak,omitempty"`
	Badges           []int64  `json:"badges,omitempty"`
	SolvedChallenges []int64  `json:"solved_challenges,omitempty"`
	Email            *string  `json:"email,omitempty" validate:"omitempty,email"`
	Password         *string  `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	ProfilePicture   *string  `json:"profile_picture,omitempty" validate:"omitempty,url"`
}

// ===============================
// CHALLENGE SERVICE TYPES
// ===============================

// CreateChallengeRequest creates a new challenge
type CreateChallengeRequest struct {
	Title        string     `json:"title" validate:"required,min=3,max=200"`
	Description  string     `json:"description" validate:"required"`
	Difficulty   string     `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	Points       int        `json:"points" validate:"min=0"`
	Category     string     `json:"category" validate:"max=100"`
	Type         string     `json:"type" validate:"omitempty,oneof=platform custom"`
	ExternalLink *string    `json:"external_link,omitempty" validate:"omitempty,url"`
	ResourceLink *string    `json:"resource_link,omitempty" validate:"omitempty,url"`
	TestCases    []byte     `json:"test_cases,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Status       string     `json:"status" validate:"omitempty,oneof=active upcoming ended"`
}

// UpdateChallengeRequest rewrites an existing challenge
type UpdateChallengeRequest struct {
	ID int64 `json:"-"`
	CreateChallengeRequest
}

// ===============================
// BADGE SERVICE TYPES
// ===============================

// CreateBadgeRequest adds a badge to the catalog
type CreateBadgeRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
	Icon        string `json:"icon" validate:"max=500"`
	Rarity      string `json:"rarity" validate:"required,oneof=common uncommon rare epic legendary special"`
	Type        string `json:"type" validate:"omitempty,oneof=achievement streak rank community special"`
	Criteria    string `json:"criteria" validate:"max=500"`
}

// UpdateBadgeRequest rewrites an existing badge
type UpdateBadgeRequest struct {
	ID int64 `json:"-"`
	CreateBadgeRequest
}

// ===============================
// ANNOUNCEMENT SERVICE TYPES
// ===============================

// CreateAnnouncementRequest publishes an announcement
type CreateAnnouncementRequest struct {
	AuthorID int64  `json:"-"`
	Title    string `json:"title" validate:"required,min=3,max=200"`
	Message  string `json:"message" validate:"required"`
}

// ===============================
// FILE SERVICE TYPES
// ===============================

// FileUploadRequest carries an image upload for a profile picture
type FileUploadRequest struct {
	UserID      int64  `json:"-"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// FileUploadResult describes a stored file
type FileUploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Size     int64  `json:"size"`
}
