package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quatro-backend/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestCreateClampsEffortAndImpact(t *testing.T) {
	db := testutil.NewTestDB(t, &Task{})
	repo := NewRepository(db)
	ctx := context.Background()

	tests := []struct {
		name       string
		effort     int
		impact     int
		wantEffort int
		wantImpact int
	}{
		{name: "in range", effort: 3, impact: 5, wantEffort: 3, wantImpact: 5},
		{name: "below minimum", effort: 0, impact: -2, wantEffort: MinEffort, wantImpact: MinImpact},
		{name: "above maximum", effort: 12, impact: 99, wantEffort: MaxEffort, wantImpact: MaxImpact},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tsk := &Task{
				ID:        string(rune('a' + i)),
				UserID:    "u1",
				Title:     tt.name,
				Effort:    tt.effort,
				Impact:    tt.impact,
				CreatedAt: testutil.Date(2021, 3, 8, 10, 0),
			}
			require.NoError(t, repo.Create(ctx, tsk))

			got, err := repo.FindByID(ctx, tsk.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Equal(t, tt.wantEffort, got.Effort)
			require.Equal(t, tt.wantImpact, got.Impact)
		})
	}
}

func TestFindByIDMissingTaskReturnsNil(t *testing.T) {
	db := testutil.NewTestDB(t, &Task{})
	repo := NewRepository(db)

	got, err := repo.FindByID(context.Background(), "no-such-task")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestFindSpawnedOnMatchesOnlySameDayRepeatSpawns(t *testing.T) {
	db := testutil.NewTestDB(t, &Task{})
	repo := NewRepository(db)
	ctx := context.Background()

	configID := "cfg-1"
	day := testutil.Date(2021, 3, 8, 11, 0)

	seed := []*Task{
		{
			ID: "spawn-today", UserID: "u1", Title: "today", Effort: 1, Impact: 1,
			RecurringConfigID: &configID, Source: SourceRepeat,
			CreatedAt: testutil.Date(2021, 3, 8, 10, 0),
		},
		{
			ID: "spawn-yesterday", UserID: "u1", Title: "yesterday", Effort: 1, Impact: 1,
			RecurringConfigID: &configID, Source: SourceRepeat,
			CreatedAt: testutil.Date(2021, 3, 7, 10, 0),
		},
		{
			ID: "user-created", UserID: "u1", Title: "manual", Effort: 1, Impact: 1,
			RecurringConfigID: &configID, Source: SourceUser,
			CreatedAt: testutil.Date(2021, 3, 8, 10, 0),
		},
	}
	for _, tsk := range seed {
		require.NoError(t, repo.Create(ctx, tsk))
	}

	got, err := repo.FindSpawnedOn(ctx, configID, day)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "spawn-today", got.ID)

	got, err = repo.FindSpawnedOn(ctx, "other-config", day)
	require.NoError(t, err)
	require.Nil(t, got)
}
