package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"challengehub/internal/config"
	"challengehub/internal/models"
	"challengehub/internal/repositories"
	"challengehub/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService with OTP verification and JWT issuance
type authService struct {
	userRepo     repositories.UserRepository
	emailService EmailService
	logger       *zap.Logger
	cfg          *config.Config
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo repositories.UserRepository,
	emailService EmailService,
	logger *zap.Logger,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		emailService: emailService,
		logger:       logger,
		cfg:          cfg,
	}
}

// ===============================
// REGISTRATION FLOW
// ===============================

// Register creates a pending account and emails a verification code.
// Re-registering an unverified account overwrites its name and
// password and issues a fresh code; a verified account is a conflict.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid registration data", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, NewInternalError("failed to check existing user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.Auth.BCryptCost)
	if err != nil {
		return nil, NewInternalError("failed to hash password", err)
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, NewInternalError("failed to generate verification code", err)
	}
	expires := time.Now().Add(s.cfg.Auth.OTPExpiry)

	var user *models.User
	if existing != nil {
		if existing.IsVerified {
			return nil, NewConflictError("User already exists", "USER_EXISTS")
		}

		// Pending registration, restart it with the new credentials
		if err := s.userRepo.UpdateCredentials(ctx, existing.ID, req.Name, string(hash)); err != nil {
			return nil, NewInternalError("failed to update pending registration", err)
		}
		if err := s.userRepo.SetOTP(ctx, existing.ID, otp, expires); err != nil {
			return nil, NewInternalError("failed to store verification code", err)
		}
		user = existing
		user.Name = req.Name
	} else {
		user = &models.User{
			Name:           req.Name,
			Email:          email,
			PasswordHash:   string(hash),
			Role:           models.RoleUser,
			OTP:            &otp,
			OTPExpires:     &expires,
			Gender:         req.Gender,
			Age:            req.Age,
			ACMID:          req.ACMID,
			CollegeName:    req.CollegeName,
			GraduationYear: req.GraduationYear,
		}
		if req.IsACMMember != nil {
			user.IsACMMember = *req.IsACMMember
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, NewInternalError("failed to create user", err)
		}
	}

	return s.deliverOTP(ctx, user, otp, "Registration successful. Please verify your email.")
}

// VerifyOTP confirms the emailed code, activates the account and logs
// the user straight in.
func (s *authService) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid verification data", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("User not found")
	}
	if user.IsVerified {
		return &AuthResponse{Message: "Email already verified"}, nil
	}

	if user.OTP == nil || user.OTPExpires == nil ||
		*user.OTP != req.OTP || time.Now().After(*user.OTPExpires) {
		return nil, NewAuthenticationError("Invalid or expired OTP")
	}

	if err := s.userRepo.ClearOTPAndVerify(ctx, user.ID); err != nil {
		return nil, NewInternalError("failed to verify user", err)
	}
	user.IsVerified = true

	token, err := s.issueToken(user)
	if err != nil {
		return nil, NewInternalError("failed to issue token", err)
	}

	s.logger.Info("user verified", zap.Int64("user_id", user.ID))

	user.Sanitize()
	return &AuthResponse{Token: token, User: user, Message: "Email verified successfully"}, nil
}

// ResendOTP issues and emails a fresh verification code
func (s *authService) ResendOTP(ctx context.Context, req *ResendOTPRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid request", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("User not found")
	}
	if user.IsVerified {
		return nil, NewBusinessError("Email already verified", "ALREADY_VERIFIED")
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, NewInternalError("failed to generate verification code", err)
	}
	if err := s.userRepo.SetOTP(ctx, user.ID, otp, time.Now().Add(s.cfg.Auth.OTPExpiry)); err != nil {
		return nil, NewInternalError("failed to store verification code", err)
	}

	return s.deliverOTP(ctx, user, otp, "Verification code sent.")
}

// ===============================
// LOGIN
// ===============================

// Login checks credentials and issues a JWT. The same generic message
// covers unknown email and wrong password.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid login data", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, NewAuthenticationError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewAuthenticationError("Invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, NewInternalError("failed to issue token", err)
	}

	s.logger.Info("user logged in",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role),
	)

	user.Sanitize()
	return &AuthResponse{Token: token, User: user}, nil
}

// ===============================
// OWNER SEEDING
// ===============================

// SeedOwner ensures the configured owner account exists with the owner
// role. Safe to run on every startup.
func (s *authService) SeedOwner(ctx context.Context) error {
	owner := s.cfg.Owner
	if owner.Email == "" {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(owner.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up owner account: %w", err)
	}

	if existing != nil {
		if existing.Role == models.RoleOwner {
			return nil
		}
		if err := s.userRepo.SetRole(ctx, existing.ID, models.RoleOwner); err != nil {
			return fmt.Errorf("failed to promote owner account: %w", err)
		}
		s.logger.Info("promoted existing account to owner", zap.Int64("user_id", existing.ID))
		return nil
	}

	if owner.Password == "" {
		return fmt.Errorf("owner account %s does not exist and OWNER_PASSWORD is not set", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(owner.Password), s.cfg.Auth.BCryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash owner password: %w", err)
	}

	user := &models.User{
		Name:         owner.Name,
		Email:        email,
		PasswordHash: string(hash),
		IsVerified:   true,
		Role:         models.RoleOwner,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create owner account: %w", err)
	}

	s.logger.Info("created owner account", zap.Int64("user_id", user.ID))
	return nil
}

// ===============================
// INTERNAL HELPERS
// ===============================

// deliverOTP mails the code and degrades to a successful response with
// the code attached when delivery fails outside production.
func (s *authService) deliverOTP(ctx context.Context, user *models.User, otp, message string) (*AuthResponse, error) {
	resp := &AuthResponse{NeedsVerification: true, Message: message}

	if err := s.emailService.SendOTP(ctx, user.Email, user.Name, otp); err != nil {
		s.logger.Warn("failed to send verification email",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
		resp.EmailError = true
		resp.Message = message + " Email delivery failed."
		if s.cfg.Server.Environment != "production" {
			resp.DevOTP = otp
		}
	}

	return resp, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(s.cfg.Auth.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Auth.JWTSecret))
}

// generateOTP returns a 6-digit numeric code
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
