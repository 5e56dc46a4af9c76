// Package testutil provides helpers for integration tests: environment
// gating, schema management and test data factories.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/stockroom/stockroom/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 771177

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates the full schema for tests.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downPath := filepath.Join(root, "migrations", "000001_init.down.sql")
	upPath := filepath.Join(root, "migrations", "000001_init.up.sql")

	downSQL, err := os.ReadFile(downPath)
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// InsertCategory inserts a category row directly. The repository exposes no
// category writes by design, so tests seed through the pool.
func InsertCategory(ctx context.Context, pool *pgxpool.Pool, id, name string) error {
	_, err := pool.Exec(ctx,
		"INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING",
		id, name, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestTenant creates a test tenant with sensible defaults.
func NewTestTenant(t testing.TB, name string) *model.Tenant {
	t.Helper()
	return &model.Tenant{
		ID:        UniqueID("tenant"),
		Name:      name,
		Phone:     "+1000",
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestUser creates a test user bound to the given tenant.
func NewTestUser(t testing.TB, tenantID string) *model.User {
	t.Helper()
	return &model.User{
		ID:           UniqueID("user"),
		Email:        UniqueEmail("user"),
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$dGVzdHNhbHR0ZXN0c2FsdA$L9qzSFL5LiEWQ6C2UQbIAnUkphMBTHUqWTmM2V1tCpM",
		FirstName:    "Test",
		LastName:     "User",
		TenantID:     tenantID,
		CreatedAt:    time.Now().UTC(),
	}
}

// NewTestProduct creates a test product in the given category.
func NewTestProduct(t testing.TB, categoryID string) *model.Product {
	t.Helper()
	now := time.Now().UTC()
	return &model.Product{
		ID:           UniqueID("product"),
		Name:         "Widget",
		Description:  "A widget",
		UnitPrice:    100,
		ReorderLevel: 10,
		LeadTime:     3,
		CategoryID:   categoryID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
