package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/study-assistant/internal/platform/postgres"
)

// Timeout bounds a single test transaction.
const Timeout = 10 * time.Second

// URLEnvVar names the environment variable holding the test database URL.
const URLEnvVar = "DATABASE_URL"

var (
	once    sync.Once
	shared  *sql.DB
	errOpen error
)

// URL returns the test database URL, or "" when none is configured.
func URL() string {
	return os.Getenv(URLEnvVar)
}

// Available reports whether database tests can run.
func Available() bool {
	return URL() != ""
}

// Open returns a migrated connection shared by every test in the process.
// It skips t when no database is configured and fails t when the database
// cannot be reached or migrated.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	if !Available() {
		t.Skip(URLEnvVar + " not set; skipping database test")
	}

	once.Do(func() {
		shared, errOpen = connect(URL())
	})
	require.NoError(t, errOpen, "test database setup failed")
	return shared
}

func connect(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := postgres.Migrate(ctx, db, "up", nil); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// WithTx runs fn inside a transaction that is rolled back afterwards.
func WithTx(t *testing.T, db *sql.DB, fn func(ctx context.Context, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back transaction: %v", err)
		}
	}()

	fn(ctx, tx)
}
