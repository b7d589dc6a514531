package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"challengehub/internal/database"
	"challengehub/internal/models"

	"go.uber.org/zap"
)

// badgeRepository implements BadgeRepository with raw SQL
type badgeRepository struct {
	*BaseRepository
}

// NewBadgeRepository creates a new badge repository
func NewBadgeRepository(db *database.Manager, logger *zap.Logger) BadgeRepository {
	return &badgeRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const badgeColumns = `id, name, description, icon, rarity, type, criteria, created_at`

func scanBadge(scanner rowScanner) (*models.Badge, error) {
	var b models.Badge
	err := scanner.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &b.Rarity, &b.Type, &b.Criteria, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new badge into the catalog
func (r *badgeRepository) Create(ctx context.Context, badge *models.Badge) error {
	query := `
		INSERT INTO badges (name, description, icon, rarity, type, criteria)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.QueryRowContext(ctx, query,
		badge.Name, badge.Description, badge.Icon, badge.Rarity, badge.Type, badge.Criteria,
	).Scan(&badge.ID, &badge.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create badge: %w", err)
	}

	return nil
}

// GetByID returns a badge, nil when none exists
func (r *badgeRepository) GetByID(ctx context.Context, id int64) (*models.Badge, error) {
	query := fmt.Sprintf(`SELECT %s FROM badges WHERE id = $1`, badgeColumns)

	badge, err := scanBadge(r.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get badge: %w", err)
	}

	return badge, nil
}

// List returns the full badge catalog, newest first
func (r *badgeRepository) List(ctx context.Context) ([]*models.Badge, error) {
	query := fmt.Sprintf(`SELECT %s FROM badges ORDER BY created_at DESC, id DESC`, badgeColumns)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	var badges []*models.Badge
	for rows.Next() {
		badge, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, badge)
	}

	return badges, rows.Err()
}

// Update rewrites all badge fields
func (r *badgeRepository) Update(ctx context.Context, badge *models.Badge) error {
	query := `
		UPDATE badges SET
			name = $2, description = $3, icon = $4, rarity = $5, type = $6, criteria = $7
		WHERE id = $1`

	result, err := r.ExecContext(ctx, query,
		badge.ID, badge.Name, badge.Description, badge.Icon, badge.Rarity, badge.Type, badge.Criteria,
	)
	if err != nil {
		return fmt.Errorf("failed to update badge: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("badge %d not found", badge.ID)
	}

	return nil
}

// Delete removes a badge; earned copies cascade
func (r *badgeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM badges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete badge: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("badge %d not found", id)
	}

	return nil
}
