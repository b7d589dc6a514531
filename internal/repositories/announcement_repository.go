package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"challengehub/internal/database"
	"challengehub/internal/models"

	"go.uber.org/zap"
)

// announcementRepository implements AnnouncementRepository with raw SQL
type announcementRepository struct {
	*BaseRepository
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(db *database.Manager, logger *zap.Logger) AnnouncementRepository {
	return &announcementRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create inserts a new announcement
func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	query := `
		INSERT INTO announcements (title, message, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.QueryRowContext(ctx, query,
		announcement.Title, announcement.Message, announcement.AuthorID,
	).Scan(&announcement.ID, &announcement.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	return nil
}

// List returns the newest announcements with author names joined
func (r *announcementRepository) List(ctx context.Context, limit int) ([]*models.Announcement, error) {
	query := `
		SELECT a.id, a.title, a.message, a.author_id, a.created_at, u.name
		FROM announcements a
		LEFT JOIN users u ON u.id = a.author_id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $1`

	rows, err := r.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	var announcements []*models.Announcement
	for rows.Next() {
		var a models.Announcement
		var authorName *string
		if err := rows.Scan(&a.ID, &a.Title, &a.Message, &a.AuthorID, &a.CreatedAt, &authorName); err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		if authorName != nil {
			a.AuthorName = *authorName
		}
		announcements = append(announcements, &a)
	}

	return announcements, rows.Err()
}

// Delete removes an announcement
func (r *announcementRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("announcement %d: %w", id, sql.ErrNoRows)
	}

	return nil
}
