package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currentlybackend/db"
	"currentlybackend/services/txmanager"
	"currentlybackend/testutils"
)

func setupUsersTest(t *testing.T) (*UsersService, func()) {
	cfg, err := testutils.LoadTestConfig()
	require.NoError(t, err)

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	require.NoError(t, err, "Failed to create database connection")

	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	txManager := txmanager.NewTransactionManager(dbConn)
	service := NewUsersService(usersRepo, txManager)

	return service, func() { dbConn.Close() }
}

func TestUsersService(t *testing.T) {
	service, cleanup := setupUsersTest(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("GetOrCreateUser", func(t *testing.T) {
		t.Run("creates on first sight, resolves on second", func(t *testing.T) {
			authProviderID := uuid.New().String()

			created, err := service.GetOrCreateUser(ctx, "clerk", authProviderID, "first@example.com")
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)

			resolved, err := service.GetOrCreateUser(ctx, "clerk", authProviderID, "first@example.com")
			require.NoError(t, err)
			assert.Equal(t, created.ID, resolved.ID)
		})

		t.Run("rejects empty identity", func(t *testing.T) {
			_, err := service.GetOrCreateUser(ctx, "", "some-id", "")
			assert.Error(t, err)

			_, err = service.GetOrCreateUser(ctx, "clerk", "", "")
			assert.Error(t, err)
		})
	})

	t.Run("GetUserByID", func(t *testing.T) {
		t.Run("finds an existing user", func(t *testing.T) {
			created, err := service.GetOrCreateUser(ctx, "clerk", uuid.New().String(), "find@example.com")
			require.NoError(t, err)

			maybeUser, err := service.GetUserByID(ctx, created.ID)
			require.NoError(t, err)
			require.True(t, maybeUser.IsPresent())
			assert.Equal(t, created.ID, maybeUser.MustGet().ID)
		})

		t.Run("rejects malformed IDs", func(t *testing.T) {
			_, err := service.GetUserByID(ctx, "not-a-ulid")
			assert.Error(t, err)
		})
	})
}
