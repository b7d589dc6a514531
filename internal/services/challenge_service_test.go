package services

import (
	"context"
	"testing"
	"time"

	"challengehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChallengeRepo struct {
	challenges map[int64]*models.Challenge
	nextID     int64
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: map[int64]*models.Challenge{}, nextID: 1}
}

func (f *fakeChallengeRepo) Create(ctx context.Context, c *models.Challenge) error {
	c.ID = f.nextID
	f.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	copied := *c
	f.challenges[c.ID] = &copied
	return nil
}

func (f *fakeChallengeRepo) GetByID(ctx context.Context, id int64) (*models.Challenge, error) {
	c, ok := f.challenges[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeChallengeRepo) List(ctx context.Context) ([]*models.Challenge, error) {
	var out []*models.Challenge
	for _, c := range f.challenges {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeChallengeRepo) Latest(ctx context.Context) (*models.Challenge, error) {
	var latest *models.Challenge
	for _, c := range f.challenges {
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeChallengeRepo) Update(ctx context.Context, c *models.Challenge) error {
	stored, ok := f.challenges[c.ID]
	if !ok {
		return nil
	}
	updated := *c
	updated.CreatedAt = stored.CreatedAt
	f.challenges[c.ID] = &updated
	return nil
}

func (f *fakeChallengeRepo) Delete(ctx context.Context, id int64) error {
	delete(f.challenges, id)
	return nil
}

func TestCreateChallenge(t *testing.T) {
	repo := newFakeChallengeRepo()
	svc := NewChallengeService(repo, zap.NewNop())

	got, err := svc.CreateChallenge(context.Background(), &CreateChallengeRequest{
		Title:       "Two Sum",
		Description: "Classic warmup",
		Difficulty:  "Easy",
		Points:      50,
	})
	require.NoError(t, err)
	assert.Equal(t, "active", got.Status, "status defaults to active")
	assert.Nil(t, got.Category, "empty optional fields store as NULL")

	t.Run("validation rejects unknown difficulty", func(t *testing.T) {
		_, err := svc.CreateChallenge(context.Background(), &CreateChallengeRequest{
			Title:       "Bad",
			Description: "x",
			Difficulty:  "impossible",
		})
		assert.True(t, IsErrorType(err, "VALIDATION_ERROR"))
	})

	t.Run("difficulty is case sensitive", func(t *testing.T) {
		_, err := svc.CreateChallenge(context.Background(), &CreateChallengeRequest{
			Title:       "Bad case",
			Description: "x",
			Difficulty:  "easy",
		})
		assert.True(t, IsErrorType(err, "VALIDATION_ERROR"))
	})

	t.Run("upcoming status accepted", func(t *testing.T) {
		got, err := svc.CreateChallenge(context.Background(), &CreateChallengeRequest{
			Title:       "Next week",
			Description: "x",
			Difficulty:  "Hard",
			Status:      "upcoming",
		})
		require.NoError(t, err)
		assert.Equal(t, "upcoming", got.Status)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := svc.CreateChallenge(context.Background(), &CreateChallengeRequest{
			Title:       "Bad status",
			Description: "x",
			Difficulty:  "Easy",
			Status:      "archived",
		})
		assert.True(t, IsErrorType(err, "VALIDATION_ERROR"))
	})
}

func TestGetLatestChallenge(t *testing.T) {
	repo := newFakeChallengeRepo()
	svc := NewChallengeService(repo, zap.NewNop())
	ctx := context.Background()

	t.Run("empty catalog is a not found", func(t *testing.T) {
		_, err := svc.GetLatestChallenge(ctx)
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
		assert.Contains(t, err.Error(), "No challenges published yet")
	})

	t.Run("newest challenge wins", func(t *testing.T) {
		first, err := svc.CreateChallenge(ctx, &CreateChallengeRequest{
			Title: "Week 1", Description: "d", Difficulty: "Easy",
		})
		require.NoError(t, err)
		repo.challenges[first.ID].CreatedAt = time.Now().Add(-time.Hour)

		_, err = svc.CreateChallenge(ctx, &CreateChallengeRequest{
			Title: "Week 2", Description: "d", Difficulty: "Medium",
		})
		require.NoError(t, err)

		latest, err := svc.GetLatestChallenge(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Week 2", latest.Title)
	})
}

func TestUpdateChallengePreservesCreationTime(t *testing.T) {
	repo := newFakeChallengeRepo()
	svc := NewChallengeService(repo, zap.NewNop())
	ctx := context.Background()

	created, err := svc.CreateChallenge(ctx, &CreateChallengeRequest{
		Title: "Week 1", Description: "d", Difficulty: "Easy",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateChallenge(ctx, &UpdateChallengeRequest{
		ID: created.ID,
		CreateChallengeRequest: CreateChallengeRequest{
			Title: "Week 1 revised", Description: "d2", Difficulty: "Hard", Points: 100,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Week 1 revised", updated.Title)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.UpdateChallenge(ctx, &UpdateChallengeRequest{
			ID: 999,
			CreateChallengeRequest: CreateChallengeRequest{
				Title: "Ghost", Description: "d", Difficulty: "Easy",
			},
		})
		assert.True(t, IsNotFoundError(err))
	})
}

func TestDeleteChallenge(t *testing.T) {
	repo := newFakeChallengeRepo()
	svc := NewChallengeService(repo, zap.NewNop())
	ctx := context.Background()

	created, err := svc.CreateChallenge(ctx, &CreateChallengeRequest{
		Title: "Week 1", Description: "d", Difficulty: "Easy",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteChallenge(ctx, created.ID))
	assert.True(t, IsNotFoundError(svc.DeleteChallenge(ctx, created.ID)))
}
