package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/repo"
	"github.com/voyage-planner/voyage/testutil"
)

// newTx opens a transaction against the test database that is rolled back
// when the test finishes, giving per-test isolation without cleanup SQL.
func newTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// seedUser inserts a user with a unique email and returns it.
func seedUser(t *testing.T, tx pgx.Tx) domain.User {
	t.Helper()
	u, err := repo.NewUserRepo(tx).Create(context.Background(), domain.User{
		Name:         "Test Traveler",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return u
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
