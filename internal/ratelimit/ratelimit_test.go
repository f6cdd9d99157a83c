package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldenaura/aura-server/internal/model"
	"github.com/goldenaura/aura-server/internal/store/memory"
)

func TestDay(t *testing.T) {
	// Eastern-hemisphere local times still key on the UTC calendar day.
	loc := time.FixedZone("UTC+13", 13*3600)
	local := time.Date(2026, 3, 1, 1, 30, 0, 0, loc)
	assert.Equal(t, "2026-02-28", Day(local))

	utc := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2026-03-01", Day(utc))
}

func TestRemaining(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	day1 := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return day1 }

	l := New(st.Counters(), 2, clock)
	assert.Equal(t, 2, l.Cap())
	assert.Equal(t, "2026-05-10", l.Today())

	left, err := l.Remaining(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, left)

	rec := &model.ActionRecord{UserID: "u1", Category: model.CategoryWellbeing, Points: 5}
	_, err = st.Events().AppendRateLimited(ctx, rec, l.Today(), l.Cap())
	require.NoError(t, err)

	left, err = l.Remaining(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, left)

	_, err = st.Events().AppendRateLimited(ctx, rec, l.Today(), l.Cap())
	require.NoError(t, err)

	left, err = l.Remaining(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, left)

	// The next UTC day starts a fresh counter.
	l2 := New(st.Counters(), 2, func() time.Time { return day1.Add(24 * time.Hour) })
	left, err = l2.Remaining(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, left)
}

func TestNewDefaultsClock(t *testing.T) {
	st := memory.New()
	l := New(st.Counters(), 1, nil)
	assert.Equal(t, Day(time.Now()), l.Today())
}
