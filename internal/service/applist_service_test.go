package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAppListService(db *gorm.DB) AppListService {
	return NewAppListService(
		repository.NewAppListRepository(db),
		repository.NewApplicationRepository(db),
		repository.NewTransactionManager(db),
	)
}

func listOrderIndexes(t *testing.T, db *gorm.DB, userID uuid.UUID) []int {
	t.Helper()
	var entries []model.UserApplicationListEntry
	require.NoError(t, db.Where("user_id = ?", userID).Order("order_index ASC").Find(&entries).Error)
	indexes := make([]int, 0, len(entries))
	for _, e := range entries {
		indexes = append(indexes, e.OrderIndex)
	}
	return indexes
}

func TestAddToMyListAssignsSequentialOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newAppListService(db)
	user := seedUser(t, db, "alice@example.com")
	first := seedApplication(t, db, "alpha")
	second := seedApplication(t, db, "beta")

	require.NoError(t, svc.AddToMyList(context.Background(), user.ID, first.ID.String()))
	require.NoError(t, svc.AddToMyList(context.Background(), user.ID, second.ID.String()))

	assert.Equal(t, []int{0, 1}, listOrderIndexes(t, db, user.ID))
}

func TestAddToMyListUnknownApplication(t *testing.T) {
	db := newTestDB(t)
	svc := newAppListService(db)
	user := seedUser(t, db, "alice@example.com")

	err := svc.AddToMyList(context.Background(), user.ID, uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReorderRewritesPositionalIndexes(t *testing.T) {
	db := newTestDB(t)
	svc := newAppListService(db)
	user := seedUser(t, db, "alice@example.com")
	a := seedApplication(t, db, "alpha")
	b := seedApplication(t, db, "beta")
	c := seedApplication(t, db, "gamma")

	for _, app := range []model.Application{a, b, c} {
		require.NoError(t, svc.AddToMyList(context.Background(), user.ID, app.ID.String()))
	}

	require.NoError(t, svc.Reorder(context.Background(), user.ID,
		[]string{c.ID.String(), a.ID.String(), b.ID.String()}))

	apps, err := svc.ListMyApplications(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, "gamma", apps[0].Name)
	assert.Equal(t, "alpha", apps[1].Name)
	assert.Equal(t, "beta", apps[2].Name)
	assert.Equal(t, []int{0, 1, 2}, listOrderIndexes(t, db, user.ID))
}

func TestReorderRejectsNonPermutation(t *testing.T) {
	db := newTestDB(t)
	svc := newAppListService(db)
	user := seedUser(t, db, "alice@example.com")
	a := seedApplication(t, db, "alpha")
	b := seedApplication(t, db, "beta")

	require.NoError(t, svc.AddToMyList(context.Background(), user.ID, a.ID.String()))
	require.NoError(t, svc.AddToMyList(context.Background(), user.ID, b.ID.String()))

	cases := map[string][]string{
		"missing id":   {a.ID.String()},
		"foreign id":   {a.ID.String(), uuid.NewString()},
		"duplicate id": {a.ID.String(), a.ID.String()},
	}

	for name, ids := range cases {
		t.Run(name, func(t *testing.T) {
			err := svc.Reorder(context.Background(), user.ID, ids)
			require.ErrorIs(t, err, ErrValidation)

			// Nothing may be partially written
			apps, listErr := svc.ListMyApplications(context.Background(), user.ID)
			require.NoError(t, listErr)
			require.Len(t, apps, 2)
			assert.Equal(t, "alpha", apps[0].Name)
			assert.Equal(t, "beta", apps[1].Name)
		})
	}
}

func TestRemoveFromMyListLeavesOthersInOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newAppListService(db)
	user := seedUser(t, db, "alice@example.com")
	a := seedApplication(t, db, "alpha")
	b := seedApplication(t, db, "beta")
	c := seedApplication(t, db, "gamma")

	for _, app := range []model.Application{a, b, c} {
		require.NoError(t, svc.AddToMyList(context.Background(), user.ID, app.ID.String()))
	}

	require.NoError(t, svc.RemoveFromMyList(context.Background(), user.ID, b.ID.String()))

	apps, err := svc.ListMyApplications(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "alpha", apps[0].Name)
	assert.Equal(t, "gamma", apps[1].Name)

	// Re-adding lands at the end: max + 1, gaps tolerated
	require.NoError(t, svc.AddToMyList(context.Background(), user.ID, b.ID.String()))
	apps, err = svc.ListMyApplications(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, "beta", apps[2].Name)
}
