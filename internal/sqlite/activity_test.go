package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ganot/nossoday/internal/domain/activity"
	"github.com/ganot/nossoday/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertCouple(t, db, "c1")

	repo := NewActivityRepository(db)
	base := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	entry1 := &activity.ActivityEntry{
		CoupleID:     "c1",
		ActivityType: activity.TypeCoupleCreated,
		Summary:      "Created couple page",
		Details:      `{"photos":2}`,
		CreatedAt:    base,
	}
	entry2 := &activity.ActivityEntry{
		CoupleID:     "c1",
		ActivityType: activity.TypeCheckoutStarted,
		Summary:      "Started checkout",
		CreatedAt:    base.Add(time.Minute),
	}

	require.NoError(t, repo.Log(ctx, entry1))
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)
	require.Greater(t, entry2.ID, entry1.ID)

	entries, err := repo.List(ctx, activity.ListActivityOptions{CoupleID: "c1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
	require.Equal(t, `{"photos":2}`, entries[1].Details)
	require.Equal(t, "", entries[0].Details)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertCouple(t, db, "c1")
	insertCouple(t, db, "c2")

	repo := NewActivityRepository(db)
	base := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	for i, e := range []activity.ActivityEntry{
		{CoupleID: "c1", ActivityType: activity.TypeCoupleCreated, Summary: "created"},
		{CoupleID: "c1", ActivityType: activity.TypeCheckoutStarted, Summary: "started"},
		{CoupleID: "c1", ActivityType: activity.TypeCheckoutCompleted, Summary: "completed"},
		{CoupleID: "c2", ActivityType: activity.TypeCoupleCreated, Summary: "created"},
	} {
		e.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Log(ctx, &e))
	}

	typ := activity.TypeCoupleCreated
	entries, err := repo.List(ctx, activity.ListActivityOptions{ActivityType: &typ})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "c2", entries[0].CoupleID)

	entries, err = repo.List(ctx, activity.ListActivityOptions{CoupleID: "c2"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListActivityOptions{CoupleID: "c1", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeCheckoutStarted, entries[0].ActivityType)
}

func TestActivityRepository_UnknownCouple(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)

	err := repo.Log(context.Background(), &activity.ActivityEntry{
		CoupleID:     "missing",
		ActivityType: activity.TypeCoupleCreated,
		Summary:      "created",
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}
