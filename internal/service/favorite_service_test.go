package service

import (
	"context"
	"testing"

	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteToggleLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewFavoriteService(repository.NewFavoriteRepository(db))
	user := seedUser(t, db, "alice@example.com")
	app := seedApplication(t, db, "alpha")

	ids, err := svc.ListFavorites(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, svc.AddFavorite(context.Background(), user.ID, app.ID.String()))

	// Re-adding is idempotent, not an error
	require.NoError(t, svc.AddFavorite(context.Background(), user.ID, app.ID.String()))

	ids, err = svc.ListFavorites(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{app.ID.String()}, ids)

	require.NoError(t, svc.RemoveFavorite(context.Background(), user.ID, app.ID.String()))
	require.NoError(t, svc.RemoveFavorite(context.Background(), user.ID, app.ID.String()))

	ids, err = svc.ListFavorites(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFavoriteRejectsMalformedID(t *testing.T) {
	db := newTestDB(t)
	svc := NewFavoriteService(repository.NewFavoriteRepository(db))
	user := seedUser(t, db, "alice@example.com")

	err := svc.AddFavorite(context.Background(), user.ID, "not-a-uuid")
	require.ErrorIs(t, err, ErrValidation)
}
