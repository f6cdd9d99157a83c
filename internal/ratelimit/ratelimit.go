// Package ratelimit tracks per-user daily caps for rate-limited
// categories. Days roll over at UTC calendar boundaries, not a rolling
// 24h window; the next day implicitly starts a fresh counter.
package ratelimit

import (
	"context"
	"time"

	"github.com/goldenaura/aura-server/internal/store"
)

// Day formats t as the UTC calendar-day counter key.
func Day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Limiter answers read-only cap questions against the counter store.
// The authoritative check-and-increment happens inside the store's
// rate-limited append so the counter and the log move together.
type Limiter struct {
	counters store.Counters
	cap      int
	now      func() time.Time
}

// New builds a limiter with the given daily cap. now may be nil, in
// which case wall-clock time is used; tests inject a fixed clock.
func New(counters store.Counters, dailyCap int, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{counters: counters, cap: dailyCap, now: now}
}

// Cap returns the configured per-day cap.
func (l *Limiter) Cap() int { return l.cap }

// Today returns the current counter day key.
func (l *Limiter) Today() string { return Day(l.now()) }

// Remaining reports how many submissions the user has left today.
func (l *Limiter) Remaining(ctx context.Context, userID string) (int, error) {
	n, err := l.counters.Count(ctx, userID, l.Today())
	if err != nil {
		return 0, err
	}
	if n >= l.cap {
		return 0, nil
	}
	return l.cap - n, nil
}
