package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"challengehub/internal/database"
	"challengehub/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// userRepository implements UserRepository with raw SQL
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const userColumns = `
	id, name, email, password_hash, is_verified, otp, otp_expires,
	college_name, graduation_year, age, gender, is_acm_member, acm_id,
	profile_picture, role, points, streak, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUser scans a full user row
func (r *userRepository) scanUser(scanner rowScanner) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsVerified, &u.OTP, &u.OTPExpires,
		&u.CollegeName, &u.GraduationYear, &u.Age, &u.Gender, &u.IsACMMember, &u.ACMID,
		&u.ProfilePicture, &u.Role, &u.Points, &u.Streak, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			name, email, password_hash, is_verified, otp, otp_expires,
			college_name, graduation_year, age, gender, is_acm_member, acm_id,
			profile_picture, role, points, streak
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.IsVerified, user.OTP, user.OTPExpires,
		user.CollegeName, user.GraduationYear, user.Age, user.Gender, user.IsACMMember, user.ACMID,
		user.ProfilePicture, user.Role, user.Points, user.Streak,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID returns a user with badges and solved challenges loaded.
// Returns nil without error when no such user exists.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := r.scanUser(r.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	if err := r.loadAssociations(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByEmail returns a user by email, case-insensitive
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE lower(email) = lower($1)`, userColumns)

	user, err := r.scanUser(r.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := r.loadAssociations(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateProfile updates the self-editable profile fields
func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			name = $2, gender = $3, college_name = $4, graduation_year = $5,
			age = $6, is_acm_member = $7, acm_id = $8, profile_picture = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Gender, user.CollegeName, user.GraduationYear,
		user.Age, user.IsACMMember, user.ACMID, user.ProfilePicture,
	).Scan(&user.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("user %d not found", user.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

// SetOTP stores a fresh verification code and its expiry
func (r *userRepository) SetOTP(ctx context.Context, id int64, otp string, expires time.Time) error {
	query := `UPDATE users SET otp = $2, otp_expires = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.ExecContext(ctx, query, id, otp, expires)
	if err != nil {
		return fmt.Errorf("failed to set otp: %w", err)
	}

	return requireRowsAffected(result, id)
}

// ClearOTPAndVerify marks the account verified and drops the code
func (r *userRepository) ClearOTPAndVerify(ctx context.Context, id int64) error {
	query := `UPDATE users SET is_verified = TRUE, otp = NULL, otp_expires = NULL, updated_at = NOW() WHERE id = $1`

	result, err := r.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}

	return requireRowsAffected(result, id)
}

// UpdateCredentials overwrites name and password hash, used when a
// pending registration is re-submitted.
func (r *userRepository) UpdateCredentials(ctx context.Context, id int64, name, passwordHash string) error {
	query := `UPDATE users SET name = $2, password_hash = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.ExecContext(ctx, query, id, name, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}

	return requireRowsAffected(result, id)
}

// SetRole changes the user's role
func (r *userRepository) SetRole(ctx context.Context, id int64, role string) error {
	query := `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.ExecContext(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}

	return requireRowsAffected(result, id)
}

// ApplyAdminEdit writes the edited user row, replaces the earned sets,
// and inserts the change notification in a single transaction.
func (r *userRepository) ApplyAdminEdit(ctx context.Context, user *models.User, badges []models.EarnedBadge, solved []models.SolvedChallenge, notification *models.Notification) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		userQuery := `
			UPDATE users SET
				email = $2, password_hash = $3, profile_picture = $4,
				points = $5, streak = $6, updated_at = NOW()
			WHERE id = $1`

		result, err := tx.ExecContext(ctx, userQuery,
			user.ID, user.Email, user.PasswordHash, user.ProfilePicture,
			user.Points, user.Streak,
		)
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if err := requireRowsAffected(result, user.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM user_badges WHERE user_id = $1`, user.ID); err != nil {
			return fmt.Errorf("failed to clear badges: %w", err)
		}
		for _, b := range badges {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO user_badges (user_id, badge_id, earned_at) VALUES ($1, $2, $3)`,
				user.ID, b.BadgeID, b.EarnedAt,
			); err != nil {
				return fmt.Errorf("failed to insert badge %d: %w", b.BadgeID, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM user_solved_challenges WHERE user_id = $1`, user.ID); err != nil {
			return fmt.Errorf("failed to clear solved challenges: %w", err)
		}
		for _, s := range solved {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO user_solved_challenges (user_id, challenge_id, solved_at) VALUES ($1, $2, $3)`,
				user.ID, s.ChallengeID, s.SolvedAt,
			); err != nil {
				return fmt.Errorf("failed to insert solved challenge %d: %w", s.ChallengeID, err)
			}
		}

		if notification != nil {
			if err := tx.QueryRowContext(ctx,
				`INSERT INTO notifications (user_id, message, type) VALUES ($1, $2, $3) RETURNING id, created_at`,
				notification.UserID, notification.Message, notification.Type,
			).Scan(&notification.ID, &notification.CreatedAt); err != nil {
				return fmt.Errorf("failed to insert notification: %w", err)
			}
		}

		return nil
	})
}

// Delete removes a user; join rows cascade
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return requireRowsAffected(result, id)
}

// ListByRole returns users with the given role ordered by points,
// badges and solved challenges preloaded.
func (r *userRepository) ListByRole(ctx context.Context, role string, limit int) ([]*models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role = $1
		ORDER BY points DESC, id ASC
		LIMIT $2`, userColumns)

	users, err := r.queryUsers(ctx, query, role, limit)
	if err != nil {
		return nil, err
	}

	if err := r.preloadBadges(ctx, users); err != nil {
		return nil, err
	}
	if err := r.preloadSolved(ctx, users); err != nil {
		return nil, err
	}

	return users, nil
}

// List returns all users ordered by points with associations preloaded
func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY points DESC, id ASC`, userColumns)

	users, err := r.queryUsers(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := r.preloadBadges(ctx, users); err != nil {
		return nil, err
	}
	if err := r.preloadSolved(ctx, users); err != nil {
		return nil, err
	}

	return users, nil
}

// CountWithMorePoints counts regular users with a strictly greater score
func (r *userRepository) CountWithMorePoints(ctx context.Context, points int) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1 AND points > $2`,
		models.RoleUser, points,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CountByRole counts users holding the given role
func (r *userRepository) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	err := r.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}

// GetEarnedBadges returns the user's badges with catalog details joined
func (r *userRepository) GetEarnedBadges(ctx context.Context, userID int64) ([]models.EarnedBadge, error) {
	query := `
		SELECT ub.badge_id, ub.earned_at,
		       b.id, b.name, b.description, b.icon, b.rarity, b.type, b.criteria, b.created_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.id ASC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	defer rows.Close()

	earned := []models.EarnedBadge{}
	for rows.Next() {
		var e models.EarnedBadge
		var b models.Badge
		if err := rows.Scan(
			&e.BadgeID, &e.EarnedAt,
			&b.ID, &b.Name, &b.Description, &b.Icon, &b.Rarity, &b.Type, &b.Criteria, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		e.Badge = &b
		earned = append(earned, e)
	}

	return earned, rows.Err()
}

// GetSolvedChallenges returns the user's solved challenge links
func (r *userRepository) GetSolvedChallenges(ctx context.Context, userID int64) ([]models.SolvedChallenge, error) {
	query := `
		SELECT challenge_id, solved_at
		FROM user_solved_challenges
		WHERE user_id = $1
		ORDER BY id ASC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load solved challenges: %w", err)
	}
	defer rows.Close()

	solved := []models.SolvedChallenge{}
	for rows.Next() {
		var s models.SolvedChallenge
		if err := rows.Scan(&s.ChallengeID, &s.SolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan solved challenge: %w", err)
		}
		solved = append(solved, s)
	}

	return solved, rows.Err()
}

// ===============================
// INTERNAL HELPERS
// ===============================

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]*models.User, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *userRepository) loadAssociations(ctx context.Context, user *models.User) error {
	badges, err := r.GetEarnedBadges(ctx, user.ID)
	if err != nil {
		return err
	}
	user.Badges = badges

	solved, err := r.GetSolvedChallenges(ctx, user.ID)
	if err != nil {
		return err
	}
	user.SolvedChallenges = solved

	return nil
}

// preloadBadges loads badges for a batch of users in one query to
// avoid N+1 reads on the leaderboard path.
func (r *userRepository) preloadBadges(ctx context.Context, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]int64, len(users))
	byID := make(map[int64]*models.User, len(users))
	for i, u := range users {
		ids[i] = u.ID
		byID[u.ID] = u
		u.Badges = []models.EarnedBadge{}
	}

	query := `
		SELECT ub.user_id, ub.badge_id, ub.earned_at,
		       b.id, b.name, b.description, b.icon, b.rarity, b.type, b.criteria, b.created_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = ANY($1)
		ORDER BY ub.id ASC`

	rows, err := r.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to preload badges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var e models.EarnedBadge
		var b models.Badge
		if err := rows.Scan(
			&userID, &e.BadgeID, &e.EarnedAt,
			&b.ID, &b.Name, &b.Description, &b.Icon, &b.Rarity, &b.Type, &b.Criteria, &b.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan preloaded badge: %w", err)
		}
		e.Badge = &b
		if u, ok := byID[userID]; ok {
			u.Badges = append(u.Badges, e)
		}
	}

	return rows.Err()
}

func (r *userRepository) preloadSolved(ctx context.Context, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]int64, len(users))
	byID := make(map[int64]*models.User, len(users))
	for i, u := range users {
		ids[i] = u.ID
		byID[u.ID] = u
		u.SolvedChallenges = []models.SolvedChallenge{}
	}

	query := `
		SELECT user_id, challenge_id, solved_at
		FROM user_solved_challenges
		WHERE user_id = ANY($1)
		ORDER BY id ASC`

	rows, err := r.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to preload solved challenges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var s models.SolvedChallenge
		if err := rows.Scan(&userID, &s.ChallengeID, &s.SolvedAt); err != nil {
			return fmt.Errorf("failed to scan preloaded solved challenge: %w", err)
		}
		if u, ok := byID[userID]; ok {
			u.SolvedChallenges = append(u.SolvedChallenges, s)
		}
	}

	return rows.Err()
}

// requireRowsAffected converts a zero-row update into a not-found error
func requireRowsAffected(result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}
