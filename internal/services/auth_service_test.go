package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"challengehub/internal/config"
	"challengehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ===============================
// FAKES
// ===============================

type fakeUserRepo struct {
	users            map[int64]*models.User
	nextID           int64
	lastNotification *models.Notification
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	stored, ok := f.users[user.ID]
	if !ok {
		return fmt.Errorf("user %d not found", user.ID)
	}
	stored.Name = user.Name
	stored.Gender = user.Gender
	stored.CollegeName = user.CollegeName
	stored.GraduationYear = user.GraduationYear
	stored.Age = user.Age
	stored.IsACMMember = user.IsACMMember
	stored.ACMID = user.ACMID
	stored.ProfilePicture = user.ProfilePicture
	return nil
}

func (f *fakeUserRepo) SetOTP(ctx context.Context, id int64, otp string, expires time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %d not found", id)
	}
	u.OTP = &otp
	u.OTPExpires = &expires
	return nil
}

func (f *fakeUserRepo) ClearOTPAndVerify(ctx context.Context, id int64) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %d not found", id)
	}
	u.IsVerified = true
	u.OTP = nil
	u.OTPExpires = nil
	return nil
}

func (f *fakeUserRepo) UpdateCredentials(ctx context.Context, id int64, name, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %d not found", id)
	}
	u.Name = name
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) SetRole(ctx context.Context, id int64, role string) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %d not found", id)
	}
	u.Role = role
	return nil
}

func (f *fakeUserRepo) ApplyAdminEdit(ctx context.Context, user *models.User, badges []models.EarnedBadge, solved []models.SolvedChallenge, notification *models.Notification) error {
	stored, ok := f.users[user.ID]
	if !ok {
		return fmt.Errorf("user %d not found", user.ID)
	}
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.ProfilePicture = user.ProfilePicture
	stored.Points = user.Points
	stored.Streak = user.Streak
	stored.Badges = badges
	stored.SolvedChallenges = solved
	if notification != nil {
		notification.ID = 1
		notification.CreatedAt = time.Now()
		f.lastNotification = notification
	}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("user %d not found", id)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role string, limit int) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		if u.Role == role {
			copied := *u
			out = append(out, &copied)
		}
	}
	// points desc
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Points > out[i].Points {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeUserRepo) CountWithMorePoints(ctx context.Context, points int) (int, error) {
	count := 0
	for _, u := range f.users {
		if u.Role == models.RoleUser && u.Points > points {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) CountByRole(ctx context.Context, role string) (int, error) {
	count := 0
	for _, u := range f.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) GetEarnedBadges(ctx context.Context, userID int64) ([]models.EarnedBadge, error) {
	if u, ok := f.users[userID]; ok {
		return u.Badges, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetSolvedChallenges(ctx context.Context, userID int64) ([]models.SolvedChallenge, error) {
	if u, ok := f.users[userID]; ok {
		return u.SolvedChallenges, nil
	}
	return nil, nil
}

type fakeEmailService struct {
	sent []string
	fail bool
}

func (f *fakeEmailService) SendOTP(ctx context.Context, to, name, otp string) error {
	if f.fail {
		return fmt.Errorf("smtp unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			JWTExpiry:  time.Hour,
			BCryptCost: bcrypt.MinCost,
			OTPExpiry:  10 * time.Minute,
		},
	}
}

func newTestAuthService(repo *fakeUserRepo, email *fakeEmailService) AuthService {
	return NewAuthService(repo, email, zap.NewNop(), testConfig())
}

// ===============================
// REGISTRATION
// ===============================

func TestRegisterCreatesPendingUser(t *testing.T) {
	repo := newFakeUserRepo()
	email := &fakeEmailService{}
	svc := newTestAuthService(repo, email)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Ada Lovelace",
		Email:    "Ada@Example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.True(t, resp.NeedsVerification)
	assert.False(t, resp.EmailError)
	assert.Empty(t, resp.DevOTP)

	stored, _ := repo.GetByEmail(context.Background(), "ada@example.com")
	require.NotNil(t, stored, "email should be stored lowercased")
	assert.False(t, stored.IsVerified)
	require.NotNil(t, stored.OTP)
	assert.Len(t, *stored.OTP, 6)
	assert.Equal(t, models.RoleUser, stored.Role)
	assert.Equal(t, []string{"ada@example.com"}, email.sent)
}

func TestRegisterVerifiedUserRejected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, &fakeEmailService{})

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret-password",
	})
	require.NoError(t, err)
	require.NoError(t, repo.ClearOTPAndVerify(context.Background(), 1))

	_, err = svc.Register(context.Background(), &RegisterRequest{
		Name: "Ada Again", Email: "ada@example.com", Password: "other-password",
	})
	require.Error(t, err)
	assert.True(t, IsConflictError(err))
	assert.Contains(t, err.Error(), "User already exists")
	assert.Equal(t, http.StatusBadRequest, GetServiceError(err).GetStatusCode())
}

func TestRegisterStoresDemographics(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, &fakeEmailService{})

	gender := "female"
	age := 20
	member := true
	acmID := "ACM-42"
	college := "Example Institute of Technology"
	gradYear := 2027

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name:           "Ada",
		Email:          "ada@example.com",
		Password:       "secret-password",
		Gender:         &gender,
		Age:            &age,
		IsACMMember:    &member,
		ACMID:          &acmID,
		CollegeName:    &college,
		GraduationYear: &gradYear,
	})
	require.NoError(t, err)

	stored := repo.users[1]
	require.NotNil(t, stored.Gender)
	assert.Equal(t, "female", *stored.Gender)
	require.NotNil(t, stored.Age)
	assert.Equal(t, 20, *stored.Age)
	assert.True(t, stored.IsACMMember)
	require.NotNil(t, stored.ACMID)
	assert.Equal(t, "ACM-42", *stored.ACMID)
	require.NotNil(t, stored.CollegeName)
	assert.Equal(t, college, *stored.CollegeName)
	require.NotNil(t, stored.GraduationYear)
	assert.Equal(t, 2027, *stored.GraduationYear)
}

func TestRegisterPendingUserRestartsRegistration(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, &fakeEmailService{})
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "first-password",
	})
	require.NoError(t, err)
	firstOTP := *repo.users[1].OTP

	_, err = svc.Register(ctx, &RegisterRequest{
		Name: "Ada Updated", Email: "ada@example.com", Password: "second-password",
	})
	require.NoError(t, err)

	stored := repo.users[1]
	assert.Equal(t, "Ada Updated", stored.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("second-password")))
	// A fresh code is issued even if it could collide by chance; the
	// expiry must always move forward.
	assert.NotNil(t, stored.OTPExpires)
	_ = firstOTP
}

func TestRegisterEmailFailureDegradesWithDevOTP(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, &fakeEmailService{fail: true})

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret-password",
	})
	require.NoError(t, err, "mail failure must not fail registration")
	assert.True(t, resp.EmailError)
	assert.Len(t, resp.DevOTP, 6)
	assert.Equal(t, *repo.users[1].OTP, resp.DevOTP)
}

// ===============================
// OTP VERIFICATION
// ===============================

func TestVerifyOTP(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, &fakeEmailService{})
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret-password",
	})
	require.NoError(t, err)
	otp := *repo.users[1].OTP

	t.Run("wrong code never verifies", func(t *testing.T) {
		wrong := "000000"
		if wrong == otp {
			wrong = "000001"
		}
		_, err := svc.VerifyOTP(ctx, &VerifyOTPRequest{Email: "ada@example.com", OTP: wrong})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, GetServiceError(err).GetStatusCode())
		assert.False(t, repo.users[1].IsVerified)
	})

	t.Run("correct code verifies and logs the user in", func(t *testing.T) {
		resp, err := svc.VerifyOTP(ctx, &VerifyOTPRequest{Email: "ada@example.com", OTP: otp})
		require.NoError(t, err)
		assert.True(t, repo.users[1].IsVerified)
		assert.Nil(t, repo.users[1].OTP)

		assert.NotEmpty(t, resp.Token)
		require.NotNil(t, resp.User)
		assert.True(t, resp.User.IsVerified)
		assert.Empty(t, resp.User.PasswordHash, "credentials must be sanitized")
		assert.Nil(t, resp.User.OTP)
	})

	t.Run("unknown user is a not found error", func(t *testing.T) {
		_, err := svc.VerifyOTP(ctx, &VerifyOTPRequest{Email: "ghost@example.com", OTP: "123456"})
		assert.True(t, IsNotFoundError(err))
	})
}

func TestVerifyOTPExpiredCodeRejected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, &fakeEmailService{})
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret-password",
	})
	require.NoError(t, err)

	otp := *repo.users[1].OTP
	past := time.Now().Add(-time.Minute)
	repo.users[1].OTPExpires = &past

	_, err = svc.VerifyOTP(ctx, &VerifyOTPRequest{Email: "ada@example.com", OTP: otp})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid or expired OTP")
	assert.False(t, repo.users[1].IsVerified)
}

func TestResendOTPIssuesFreshCode(t *testing.T) {
	repo := newFakeUserRepo()
	email := &fakeEmailService{}
	svc := newTestAuthService(repo, email)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret-password",
	})
	require.NoError(t, err)
	firstExpiry := *repo.users[1].OTPExpires

	time.Sleep(time.Millisecond)
	resp, err := svc.ResendOTP(ctx, &ResendOTPRequest{Email: "ada@example.com"})
	require.NoError(t, err)
	assert.True(t, resp.NeedsVerification)
	assert.True(t, repo.users[1].OTPExpires.After(firstExpiry))
	assert.Len(t, email.sent, 2)
}

// ===============================
// LOGIN
// ===============================

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, &fakeEmailService{})
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret-password",
	})
	require.NoError(t, err)

	t.Run("unverified user can still log in", func(t *testing.T) {
		resp, err := svc.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "secret-password"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Empty(t, resp.User.PasswordHash, "credentials must be sanitized")
		assert.Nil(t, resp.User.OTP)
	})

	t.Run("wrong password gets the generic message", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "wrong"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid credentials")
		assert.Equal(t, http.StatusBadRequest, GetServiceError(err).GetStatusCode())
	})

	t.Run("unknown email gets the same generic message", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "ghost@example.com", Password: "whatever"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid credentials")
		assert.Equal(t, http.StatusBadRequest, GetServiceError(err).GetStatusCode())
	})
}

// ===============================
// OWNER SEEDING
// ===============================

func TestSeedOwner(t *testing.T) {
	t.Run("creates the owner when absent", func(t *testing.T) {
		repo := newFakeUserRepo()
		cfg := testConfig()
		cfg.Owner = config.OwnerConfig{Email: "owner@example.com", Password: "owner-password", Name: "Platform Owner"}
		svc := NewAuthService(repo, &fakeEmailService{}, zap.NewNop(), cfg)

		require.NoError(t, svc.SeedOwner(context.Background()))

		owner, _ := repo.GetByEmail(context.Background(), "owner@example.com")
		require.NotNil(t, owner)
		assert.Equal(t, models.RoleOwner, owner.Role)
		assert.True(t, owner.IsVerified)
	})

	t.Run("promotes an existing account", func(t *testing.T) {
		repo := newFakeUserRepo()
		require.NoError(t, repo.Create(context.Background(), &models.User{
			Name: "Future Owner", Email: "owner@example.com", Role: models.RoleUser,
		}))

		cfg := testConfig()
		cfg.Owner = config.OwnerConfig{Email: "owner@example.com", Name: "Platform Owner"}
		svc := NewAuthService(repo, &fakeEmailService{}, zap.NewNop(), cfg)

		require.NoError(t, svc.SeedOwner(context.Background()))
		assert.Equal(t, models.RoleOwner, repo.users[1].Role)
	})

	t.Run("is a no-op without configuration", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo, &fakeEmailService{}, zap.NewNop(), testConfig())
		require.NoError(t, svc.SeedOwner(context.Background()))
		assert.Empty(t, repo.users)
	})
}
