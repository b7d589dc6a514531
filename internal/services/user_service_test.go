package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"challengehub/internal/cache"
	"challengehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestUserService(repo *fakeUserRepo) UserService {
	c := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	return NewUserService(repo, c, zap.NewNop(), testConfig())
}

func seedUser(repo *fakeUserRepo, name, role string, points, streak int) *models.User {
	u := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
		Role:         role,
		Points:       points,
		Streak:       streak,
		IsVerified:   true,
	}
	_ = repo.Create(context.Background(), u)
	return u
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// ===============================
// PROFILE AND RANK
// ===============================

func TestGetUserByIDRank(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(repo, "alice", models.RoleUser, 300, 0)
	bob := seedUser(repo, "bob", models.RoleUser, 200, 0)
	seedUser(repo, "carol", models.RoleUser, 200, 0)
	seedUser(repo, "dave", models.RoleUser, 100, 0)
	admin := seedUser(repo, "admin", models.RoleAdmin, 999, 0)
	svc := newTestUserService(repo)

	got, err := svc.GetUserByID(context.Background(), bob.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rank)
	assert.Equal(t, 2, *got.Rank, "ties share the rank below the strictly better")
	assert.Empty(t, got.PasswordHash)

	gotAdmin, err := svc.GetUserByID(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Nil(t, gotAdmin.Rank, "admins are not ranked")
}

func TestGetUserByIDNotFound(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())
	_, err := svc.GetUserByID(context.Background(), 42)
	assert.True(t, IsNotFoundError(err))
}

func TestUpdateProfileMergesOnlyProvidedFields(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(repo, "alice", models.RoleUser, 10, 1)
	college := "Somewhere Tech"
	repo.users[u.ID].CollegeName = &college
	svc := newTestUserService(repo)

	got, err := svc.UpdateProfile(context.Background(), &UpdateProfileRequest{
		UserID: u.ID,
		Name:   strPtr("Alice Updated"),
		Age:    intPtr(21),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Updated", got.Name)
	require.NotNil(t, got.Age)
	assert.Equal(t, 21, *got.Age)
	require.NotNil(t, got.CollegeName, "untouched fields survive")
	assert.Equal(t, "Somewhere Tech", *got.CollegeName)
}

// ===============================
// ADMIN EDIT ENGINE
// ===============================

func TestAdminUpdateUserNotification(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(repo, "alice", models.RoleUser, 100, 2)
	svc := newTestUserService(repo)

	_, err := svc.AdminUpdateUser(context.Background(), &AdminUpdateUserRequest{
		TargetID:  u.ID,
		ActorRole: models.RoleAdmin,
		Points:    intPtr(150),
		Streak:    intPtr(3),
		Badges:    []int64{7, 9},
	})
	require.NoError(t, err)

	n := repo.lastNotification
	require.NotNil(t, n)
	assert.Equal(t, u.ID, n.UserID)
	assert.Equal(t, "admin_update", n.Type)
	assert.Equal(t, "Admin update: You have gained 50 points, streak updated to 3, earned 2 new badge(s).", n.Message)
}

func TestAdminUpdateUserPointsLoss(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(repo, "alice", models.RoleUser, 100, 0)
	svc := newTestUserService(repo)

	_, err := svc.AdminUpdateUser(context.Background(), &AdminUpdateUserRequest{
		TargetID:  u.ID,
		ActorRole: models.RoleAdmin,
		Points:    intPtr(40),
	})
	require.NoError(t, err)
	require.NotNil(t, repo.lastNotification)
	assert.Equal(t, "Admin update: You have lost 60 points.", repo.lastNotification.Message)
}

func TestAdminUpdateUserNegativePoints(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(repo, "alice", models.RoleUser, 10, 0)
	svc := newTestUserService(repo)

	got, err := svc.AdminUpdateUser(context.Background(), &AdminUpdateUserRequest{
		TargetID:  u.ID,
		ActorRole: models.RoleAdmin,
		Points:    intPtr(-5),
	})
	require.NoError(t, err, "points may go below zero")
	assert.Equal(t, -5, got.Points)
	require.NotNil(t, repo.lastNotification)
	assert.Equal(t, "Admin update: You have lost 15 points.", repo.lastNotification.Message)
}

func TestAdminUpdateUserNoOpIsSilent(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(repo, "alice", models.RoleUser, 100, 2)
	svc := newTestUserService(repo)

	got, err := svc.AdminUpdateUser(context.Background(), &AdminUpdateUserRequest{
		TargetID:  u.ID,
		ActorRole: models.RoleAdmin,
		Points:    intPtr(100),
		Streak:    intPtr(2),
	})
	require.NoError(t, err)
	assert.Nil(t, repo.lastNotification, "unchanged values notify nothing")
	assert.Equal(t, 100, got.Points)
}

func TestAdminUpdateUserBadgeReplacementPreservesTimestamps(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(repo, "alice", models.RoleUser, 0, 0)
	earned := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	repo.users[u.ID].Badges = []models.EarnedBadge{
		{BadgeID: 1, EarnedAt: earned},
		{BadgeID: 2, EarnedAt: earned},
	}
	svc := newTestUserService(repo)

	got, err := svc.AdminUpdateUser(context.Background(), &AdminUpdateUserRequest{
		TargetID:  u.ID,
		ActorRole: models.RoleAdmin,
		Badges:    []int64{2, 3},
	})
	require.NoError(t, err)

	require.Len(t, got.Badges, 2)
	assert.Equal(t, int64(2), got.Badges[0].BadgeID)
	assert.Equal(t, earned, got.Badges[0].EarnedAt, "held badges keep their timestamp")
	assert.Equal(t, int64(3), got.Badges[1].BadgeID)
	assert.True(t, got.Badges[1].EarnedAt.After(earned))

	require.NotNil(t, repo.lastNotification)
	assert.Equal(t, "Admin update: You have earned 1 new badge(s).", repo.lastNotification.Message)
}

func TestAdminUpdateUserOwnerGating(t *testing.T) {
	t.Run("admin cannot touch credentials", func(t *testing.T) {
		repo := newFakeUserRepo()
		u := seedUser(repo, "alice", models.RoleUser, 0, 0)
		svc := newTestUserService(repo)

		_, err := svc.AdminUpdateUser(context.Background(), &AdminUpdateUserRequest{
			TargetID:  u.ID,
			ActorRole: models.RoleAdmin,
			Email:     strPtr("hijacked@example.com"),
			Password:  strPtr("new-password-123"),
		})
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", repo.users[u.ID].Email)
		assert.Equal(t, "hash", repo.users[u.ID].PasswordHash)
		assert.Nil(t, repo.lastNotification)
	})

	t.Run("owner edits land and notify", func(t *testing.T) {
		repo := newFakeUserRepo()
		u := seedUser(repo, "alice", models.RoleUser, 0, 0)
		svc := newTestUserService(repo)

		_, err := svc.AdminUpdateUser(context.Background(), &AdminUpdateUserRequest{
			TargetID:  u.ID,
			ActorRole: models.RoleOwner,
			Email:     strPtr("Alice.New@Example.com"),
			Password:  strPtr("new-password-123"),
		})
		require.NoError(t, err)
		assert.Equal(t, "alice.new@example.com", repo.users[u.ID].Email)
		assert.NotEqual(t, "hash", repo.users[u.ID].PasswordHash)
		require.NotNil(t, repo.lastNotification)
		assert.Equal(t, "Admin update: You have email address updated, password updated.", repo.lastNotification.Message)
	})

	t.Run("owner setting the same email notifies nothing", func(t *testing.T) {
		repo := newFakeUserRepo()
		u := seedUser(repo, "alice", models.RoleUser, 0, 0)
		svc := newTestUserService(repo)

		_, err := svc.AdminUpdateUser(context.Background(), &AdminUpdateUserRequest{
			TargetID:  u.ID,
			ActorRole: models.RoleOwner,
			Email:     strPtr("ALICE@example.com"),
		})
		require.NoError(t, err)
		assert.Nil(t, repo.lastNotification)
	})
}

// ===============================
// LEADERBOARD
// ===============================

func TestGetLeaderboard(t *testing.T) {
	repo := newFakeUserRepo()
	alice := seedUser(repo, "alice", models.RoleUser, 300, 5)
	repo.users[alice.ID].SolvedChallenges = []models.SolvedChallenge{
		{ChallengeID: 1, SolvedAt: time.Now()},
		{ChallengeID: 2, SolvedAt: time.Now()},
	}
	seedUser(repo, "bob", models.RoleUser, 200, 3)
	seedUser(repo, "carol", models.RoleUser, 200, 1)
	seedUser(repo, "dave", models.RoleUser, 50, 0)
	seedUser(repo, "admin1", models.RoleAdmin, 900, 0)
	seedUser(repo, "theowner", models.RoleOwner, 9999, 0)
	svc := newTestUserService(repo)

	board, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)

	require.Len(t, board.Users, 4)
	assert.Equal(t, "alice", board.Users[0].Name)
	assert.Equal(t, 2, board.Users[0].SolvedCount)
	assert.Equal(t, 0, board.Users[1].SolvedCount)
	require.NotNil(t, board.Users[0].Rank)
	assert.Equal(t, 1, *board.Users[0].Rank)
	assert.Equal(t, 2, *board.Users[1].Rank)
	assert.Equal(t, 2, *board.Users[2].Rank, "tied points share a rank")
	assert.Equal(t, 4, *board.Users[3].Rank, "ranks skip past ties")

	require.Len(t, board.Admins, 1)
	assert.Equal(t, "admin1", board.Admins[0].Name)
	assert.Nil(t, board.Admins[0].Rank)

	for _, e := range append(board.Users, board.Admins...) {
		assert.NotEqual(t, "theowner", e.Name, "the owner never appears")
		assert.NotNil(t, e.Badges, "badges serialize as an array, not null")
	}
}

func TestGetLeaderboardCaching(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(repo, "alice", models.RoleUser, 100, 0)
	svc := newTestUserService(repo)

	first, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Users, 1)

	// A direct write bypassing the service is invisible until the
	// cache is invalidated.
	repo.users[u.ID].Points = 500
	cached, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, cached.Users[0].Points)

	_, err = svc.AdminUpdateUser(context.Background(), &AdminUpdateUserRequest{
		TargetID:  u.ID,
		ActorRole: models.RoleAdmin,
		Streak:    intPtr(7),
	})
	require.NoError(t, err)

	fresh, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500, fresh.Users[0].Points)
}

// ===============================
// SERIALIZATION SAFETY
// ===============================

func TestSanitizedUserJSONLeaksNoCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(repo, "alice", models.RoleUser, 10, 0)
	otp := "123456"
	repo.users[u.ID].OTP = &otp
	svc := newTestUserService(repo)

	got, err := svc.GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
	assert.NotContains(t, string(raw), "123456")
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "otp")
}
