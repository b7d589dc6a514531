// file: internal/models/models.go
package models

import "time"

// ===============================
// ROLES
// ===============================

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleOwner = "owner"
)

// roleTier maps each role onto an ordered privilege level. Unknown roles
// map to -1 so they never satisfy any requirement.
func roleTier(role string) int {
	switch role {
	case RoleUser:
		return 0
	case RoleAdmin:
		return 1
	case RoleOwner:
		return 2
	default:
		return -1
	}
}

// RoleAtLeast reports whether role carries at least the privileges of required.
func RoleAtLeast(role, required string) bool {
	return roleTier(role) >= 0 && roleTier(role) >= roleTier(required)
}

// ValidRole reports whether role is one of the known role names.
func ValidRole(role string) bool {
	return roleTier(role) >= 0
}

// ===============================
// CORE ENTITIES
// ===============================

// User represents a registered participant of the platform.
type User struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name" validate:"required,max=100"`
	Email string `json:"email" db:"email" validate:"required,email,max=320"`

	// Authentication
	PasswordHash string     `json:"-" db:"password_hash"`
	IsVerified   bool       `json:"is_verified" db:"is_verified"`
	OTP          *string    `json:"-" db:"otp"`
	OTPExpires   *time.Time `json:"-" db:"otp_expires"`

	// Profile information
	CollegeName    *string `json:"college_name,omitempty" db:"college_name" validate:"omitempty,max=255"`
	GraduationYear *int    `json:"graduation_year,omitempty" db:"graduation_year" validate:"omitempty,min=1950,max=2100"`
	Age            *int    `json:"age,omitempty" db:"age" validate:"omitempty,min=10,max=120"`
	Gender         *string `json:"gender,omitempty" db:"gender" validate:"omitempty,max=30"`
	IsACMMember    bool    `json:"is_acm_member" db:"is_acm_member"`
	ACMID          *string `json:"acm_id,omitempty" db:"acm_id" validate:"omitempty,max=50"`
	ProfilePicture *string `json:"profile_picture,omitempty" db:"profile_picture"`

	// Gamification state
	Role   string `json:"role" db:"role" validate:"required,oneof=user admin owner"`
	Points int    `json:"points" db:"points"`
	Streak int    `json:"streak" db:"streak"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joined fields (not columns)
	Badges           []EarnedBadge     `json:"badges" db:"-"`
	SolvedChallenges []SolvedChallenge `json:"solved_challenges" db:"-"`
	Rank             *int              `json:"rank,omitempty" db:"-"`
}

// Sanitize strips credential material before the user is written to a response.
func (u *User) Sanitize() {
	u.PasswordHash = ""
	u.OTP = nil
	u.OTPExpires = nil
}

// EarnedBadge links a user to a badge and records when it was earned.
type EarnedBadge struct {
	BadgeID  int64     `json:"badge_id" db:"badge_id"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`

	// Joined badge details
	Badge *Badge `json:"badge,omitempty" db:"-"`
}

// SolvedChallenge links a user to a challenge they completed.
type SolvedChallenge struct {
	ChallengeID int64     `json:"challenge_id" db:"challenge_id"`
	SolvedAt    time.Time `json:"solved_at" db:"solved_at"`
}

// Badge is a catalog entry users can earn.
type Badge struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" validate:"required,max=100"`
	Description *string   `json:"description,omitempty" db:"description" validate:"omitempty,max=1000"`
	Icon        *string   `json:"icon,omitempty" db:"icon" validate:"omitempty,max=500"`
	Rarity      string    `json:"rarity" db:"rarity" validate:"omitempty,oneof=common uncommon rare epic legendary special"`
	Type        *string   `json:"type,omitempty" db:"type" validate:"omitempty,oneof=achievement streak rank community special"`
	Criteria    *string   `json:"criteria,omitempty" db:"criteria" validate:"omitempty,max=1000"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Challenge is a weekly coding problem published to participants.
type Challenge struct {
	ID           int64      `json:"id" db:"id"`
	Title        string     `json:"title" db:"title" validate:"required,max=255"`
	Description  string     `json:"description" db:"description" validate:"required"`
	Difficulty   string     `json:"difficulty" db:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	Points       int        `json:"points" db:"points" validate:"min=0"`
	Category     *string    `json:"category,omitempty" db:"category" validate:"omitempty,max=100"`
	Type         *string    `json:"type,omitempty" db:"type" validate:"omitempty,oneof=platform custom"`
	ExternalLink *string    `json:"external_link,omitempty" db:"external_link" validate:"omitempty,url"`
	ResourceLink *string    `json:"resource_link,omitempty" db:"resource_link" validate:"omitempty,url"`
	TestCases    []byte     `json:"test_cases,omitempty" db:"test_cases"`
	Deadline     *time.Time `json:"deadline,omitempty" db:"deadline"`
	Status       string     `json:"status" db:"status" validate:"omitempty,oneof=active upcoming ended"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Announcement is a broadcast message shown to all users.
type Announcement struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title" validate:"required,max=255"`
	Message   string    `json:"message" db:"message" validate:"required,max=5000"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined fields
	AuthorName string `json:"author_name,omitempty" db:"-"`
}

// Notification is a per-user message describing something that happened
// to their account.
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Message   string    `json:"message" db:"message" validate:"required,max=2000"`
	Type      string    `json:"type" db:"type"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ===============================
// LEADERBOARD
// ===============================

// LeaderboardEntry is one row of the public leaderboard. Admin entries
// carry no rank.
type LeaderboardEntry struct {
	UserID         int64         `json:"user_id"`
	Name           string        `json:"name"`
	ProfilePicture *string       `json:"profile_picture,omitempty"`
	Points         int           `json:"points"`
	Streak         int           `json:"streak"`
	Role           string        `json:"role"`
	Rank           *int          `json:"rank,omitempty"`
	Badges         []EarnedBadge `json:"badges"`
	SolvedCount    int           `json:"solved_count"`
}

// Leaderboard is the ranked user section followed by unranked admins.
type Leaderboard struct {
	Users       []LeaderboardEntry `json:"users"`
	Admins      []LeaderboardEntry `json:"admins"`
	GeneratedAt time.Time          `json:"generated_at"`
}
