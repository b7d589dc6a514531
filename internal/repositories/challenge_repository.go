package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"challengehub/internal/database"
	"challengehub/internal/models"

	"go.uber.org/zap"
)

// challengeRepository implements ChallengeRepository with raw SQL
type challengeRepository struct {
	*BaseRepository
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *database.Manager, logger *zap.Logger) ChallengeRepository {
	return &challengeRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const challengeColumns = `
	id, title, description, difficulty, points, category, type,
	external_link, resource_link, test_cases, deadline, status,
	created_at, updated_at`

func scanChallenge(scanner rowScanner) (*models.Challenge, error) {
	var c models.Challenge
	err := scanner.Scan(
		&c.ID, &c.Title, &c.Description, &c.Difficulty, &c.Points, &c.Category, &c.Type,
		&c.ExternalLink, &c.ResourceLink, &c.TestCases, &c.Deadline, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new challenge
func (r *challengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	query := `
		INSERT INTO challenges (
			title, description, difficulty, points, category, type,
			external_link, resource_link, test_cases, deadline, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(ctx, query,
		challenge.Title, challenge.Description, challenge.Difficulty, challenge.Points,
		challenge.Category, challenge.Type, challenge.ExternalLink, challenge.ResourceLink,
		challenge.TestCases, challenge.Deadline, challenge.Status,
	).Scan(&challenge.ID, &challenge.CreatedAt, &challenge.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}

	return nil
}

// GetByID returns a challenge, nil when none exists
func (r *challengeRepository) GetByID(ctx context.Context, id int64) (*models.Challenge, error) {
	query := fmt.Sprintf(`SELECT %s FROM challenges WHERE id = $1`, challengeColumns)

	challenge, err := scanChallenge(r.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	return challenge, nil
}

// List returns all challenges, newest first
func (r *challengeRepository) List(ctx context.Context) ([]*models.Challenge, error) {
	query := fmt.Sprintf(`SELECT %s FROM challenges ORDER BY created_at DESC, id DESC`, challengeColumns)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*models.Challenge
	for rows.Next() {
		challenge, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, challenge)
	}

	return challenges, rows.Err()
}

// Latest returns the most recently created challenge, nil when the
// table is empty.
func (r *challengeRepository) Latest(ctx context.Context) (*models.Challenge, error) {
	query := fmt.Sprintf(`SELECT %s FROM challenges ORDER BY created_at DESC, id DESC LIMIT 1`, challengeColumns)

	challenge, err := scanChallenge(r.QueryRowContext(ctx, query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest challenge: %w", err)
	}

	return challenge, nil
}

// Update rewrites all editable challenge fields
func (r *challengeRepository) Update(ctx context.Context, challenge *models.Challenge) error {
	query := `
		UPDATE challenges SET
			title = $2, description = $3, difficulty = $4, points = $5,
			category = $6, type = $7, external_link = $8, resource_link = $9,
			test_cases = $10, deadline = $11, status = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.QueryRowContext(ctx, query,
		challenge.ID, challenge.Title, challenge.Description, challenge.Difficulty,
		challenge.Points, challenge.Category, challenge.Type, challenge.ExternalLink,
		challenge.ResourceLink, challenge.TestCases, challenge.Deadline, challenge.Status,
	).Scan(&challenge.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("challenge %d not found", challenge.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}

	return nil
}

// Delete removes a challenge; solved links cascade
func (r *challengeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("challenge %d not found", id)
	}

	return nil
}
