package auth

import (
	"database/sql"
	"testing"

	"github.com/casos-demo/casos-core/internal/infrastructure/config"
	"github.com/casos-demo/casos-core/internal/infrastructure/database"
	"github.com/casos-demo/casos-core/migrations"
)

const testSecret = "test-secret-key-at-least-32-chars!"

// testDB opens an in-memory database with the embedded schema applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{Path: database.MemoryPath})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(t.Context(), migrations.FS); err != nil {
		t.Fatalf("applying migrations: %v", err)
	}

	return db.DB
}

// seedTestUser inserts an active user with the given password.
func seedTestUser(t *testing.T, db *sql.DB, email, password string) *User {
	t.Helper()

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	user := &User{
		Email:        email,
		DisplayName:  email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := NewUserRepository(db).Create(t.Context(), user); err != nil {
		t.Fatalf("creating test user %s: %v", email, err)
	}
	return user
}
