package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hours-estimator/generic"
	"github.com/warp/hours-estimator/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func closure(id string, date generic.TimePoint, name string, recurring bool) generic.Holiday {
	return generic.Holiday{ID: id, Date: date, Name: name, Recurring: recurring}
}

func save(t *testing.T, store *sqlite.Store, c generic.Holiday) string {
	t.Helper()
	id, err := store.SaveClosure(context.Background(), c)
	require.NoError(t, err)
	return id
}

func dates(hs []generic.Holiday) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.Date.String())
	}
	return out
}

func TestClosures_SaveGetDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := closure("c-1", generic.NewTimePoint(2025, time.December, 29), "Year-end shutdown", false)
	assert.Equal(t, "c-1", save(t, store, c))

	got, err := store.GetClosure(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Year-end shutdown", got.Name)
	assert.Equal(t, "2025-12-29", got.Date.String())
	assert.Equal(t, generic.SourceCompany, got.Source)

	require.NoError(t, store.DeleteClosure(ctx, "c-1"))

	_, err = store.GetClosure(ctx, "c-1")
	assert.True(t, generic.IsNotFound(err))

	err = store.DeleteClosure(ctx, "c-1")
	assert.True(t, generic.IsNotFound(err))
}

func TestClosures_UpsertOnDateAndName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	date := generic.NewTimePoint(2025, time.June, 2)

	assert.Equal(t, "c-1", save(t, store, closure("c-1", date, "Foundation day", false)))

	// A second save on the same date and name updates the row in place
	// and reports the ID that is actually stored.
	assert.Equal(t, "c-1", save(t, store, closure("c-2", date, "Foundation day", true)))

	_, err := store.GetClosure(ctx, "c-2")
	assert.True(t, generic.IsNotFound(err))

	all, err := store.ListClosures(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "c-1", all[0].ID)
	assert.True(t, all[0].Recurring)
}

func TestClosuresBetween_ExpandsRecurring(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	save(t, store, closure("c-1", generic.NewTimePoint(2020, time.June, 2), "Foundation day", true))
	save(t, store, closure("c-2", generic.NewTimePoint(2025, time.December, 29), "Shutdown", false))
	save(t, store, closure("c-3", generic.NewTimePoint(2023, time.January, 4), "Shutdown", false))
	save(t, store, closure("c-4", generic.NewTimePoint(2024, time.February, 29), "Leap day", true))

	got, err := store.ClosuresBetween(ctx,
		generic.NewTimePoint(2025, time.January, 1),
		generic.NewTimePoint(2026, time.December, 31),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-02", "2025-12-29", "2026-06-02"}, dates(got))

	got, err = store.ClosuresBetween(ctx,
		generic.NewTimePoint(2028, time.February, 1),
		generic.NewTimePoint(2028, time.March, 31),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"2028-02-29"}, dates(got))
}
