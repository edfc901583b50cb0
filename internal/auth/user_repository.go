package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRepository persists login accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	Count(ctx context.Context) (int, error)
	RecordLogin(ctx context.Context, id string, at time.Time) error
}

// SQLiteUserRepository implements UserRepository on the users table.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed user repository.
func NewUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

const userColumns = "id, email, display_name, password_hash, is_active, last_login_at, created_at, updated_at"

// Create inserts a new account. The ID is generated when empty and the
// email is stored normalised.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = "usr-" + uuid.NewString()[:8]
	}
	user.Email = NormaliseEmail(user.Email)

	now := time.Now().UTC().Truncate(time.Second)
	user.CreatedAt = now
	user.UpdatedAt = now
	ts := now.Format(time.RFC3339)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, NULL, ?, ?)`,
		user.ID, user.Email, user.DisplayName, user.PasswordHash,
		boolToInt(user.IsActive), ts, ts,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetByEmail looks an account up by (case-insensitive) email.
func (r *SQLiteUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", NormaliseEmail(email))
	return scanUser(row)
}

// Count returns the total number of accounts.
func (r *SQLiteUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// RecordLogin stores the time of the latest successful login.
func (r *SQLiteUserRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET last_login_at = ? WHERE id = ?",
		at.UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("recording login: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var isActive int
	var lastLogin sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash,
		&isActive, &lastLogin, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.IsActive = isActive != 0
	if lastLogin.Valid {
		if t, perr := time.Parse(time.RFC3339, lastLogin.String); perr == nil {
			u.LastLoginAt = &t
		}
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
