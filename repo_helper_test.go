package marketplace_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	marketplace "github.com/goliatone/go-marketplace"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// setupTestDB opens a private in-memory database and applies the embedded
// migrations. Each call gets its own database so tests never share state.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	// keep the shared cache alive for the whole test
	sqldb.SetMaxIdleConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	require.NoError(t, marketplace.RunMigrations(context.Background(), db))

	return db
}

func setupRepoManager(t *testing.T) marketplace.RepositoryManager {
	t.Helper()
	repo := marketplace.NewRepositoryManager(setupTestDB(t))
	require.NoError(t, repo.Validate())
	return repo
}

// mustRegisterUser inserts a user directly through the repository
func mustRegisterUser(t *testing.T, repo marketplace.RepositoryManager, username, email, password string) *marketplace.User {
	t.Helper()

	hash, err := marketplace.HashPassword(password)
	require.NoError(t, err)

	user, err := repo.Users().Register(context.Background(), &marketplace.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	require.NoError(t, err)
	return user
}
