package recurring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quatro-backend/services/testutil"
)

func TestFindDueFiltersConfigsProcessedToday(t *testing.T) {
	db := testutil.NewTestDB(t, &RecurringConfig{})
	repo := NewRepository(db)
	ctx := context.Background()

	never := &RecurringConfig{ID: "cfg-never", UserID: "u1", Unit: UnitDay, Amount: 1, MostRecentTaskID: "t1"}
	require.NoError(t, repo.Create(ctx, never))

	ranYesterday := &RecurringConfig{
		ID: "cfg-yesterday", UserID: "u1", Unit: UnitDay, Amount: 1, MostRecentTaskID: "t2",
		LastRunDate: testutil.DatePtr(2021, 3, 7, 11, 0),
	}
	require.NoError(t, repo.Create(ctx, ranYesterday))

	ranToday := &RecurringConfig{
		ID: "cfg-today", UserID: "u1", Unit: UnitDay, Amount: 1, MostRecentTaskID: "t3",
		LastRunDate: testutil.DatePtr(2021, 3, 8, 1, 0),
	}
	require.NoError(t, repo.Create(ctx, ranToday))

	due, err := repo.FindDue(ctx, testutil.Date(2021, 3, 8, 11, 0))
	require.NoError(t, err)
	require.Len(t, due, 2)
	require.Equal(t, "cfg-never", due[0].ID)
	require.Equal(t, "cfg-yesterday", due[1].ID)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	db := testutil.NewTestDB(t, &RecurringConfig{})
	repo := NewRepository(db)
	ctx := context.Background()

	cfg := &RecurringConfig{ID: "cfg-1", UserID: "u1", Unit: UnitDay, Amount: 1, MostRecentTaskID: "t1"}
	require.NoError(t, repo.Create(ctx, cfg))

	ranAt := testutil.Date(2021, 3, 8, 11, 0)
	require.NoError(t, repo.Update(ctx, "cfg-1", UpdateFields{LastRunDate: &ranAt}))

	var got RecurringConfig
	require.NoError(t, db.Where("id = ?", "cfg-1").First(&got).Error)
	require.NotNil(t, got.LastRunDate)
	require.True(t, got.LastRunDate.Equal(ranAt))
	require.Equal(t, "t1", got.MostRecentTaskID)
}

func TestUpdateMissingConfigReturnsNotFound(t *testing.T) {
	db := testutil.NewTestDB(t, &RecurringConfig{})
	repo := NewRepository(db)

	ranAt := testutil.Date(2021, 3, 8, 11, 0)
	err := repo.Update(context.Background(), "no-such-config", UpdateFields{LastRunDate: &ranAt})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateWithoutFieldsIsANoOp(t *testing.T) {
	db := testutil.NewTestDB(t, &RecurringConfig{})
	repo := NewRepository(db)

	require.NoError(t, repo.Update(context.Background(), "whatever", UpdateFields{}))
}
