// Package storetest holds a compliance suite shared by store drivers.
package storetest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/goldenaura/aura-server/internal/model"
	"github.com/goldenaura/aura-server/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store
// implementation. Implementations should provide a clean, isolated store
// and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u-" + uuid.New().String()

	// Append preserves insertion order and assigns IDs/timestamps.
	r1, err := s.Events().Append(ctx, &model.ActionRecord{UserID: userID, Category: model.CategoryVerifiedWalk, Points: 20})
	if err != nil {
		t.Fatalf("Append r1: %v", err)
	}
	if r1.EventID == "" || r1.Timestamp.IsZero() {
		t.Fatalf("Append r1: missing id or timestamp: %+v", r1)
	}
	r2, err := s.Events().Append(ctx, &model.ActionRecord{
		UserID:   userID,
		Category: model.CategoryWalk,
		Points:   0,
		Metadata: map[string]interface{}{"source": "telemetry"},
	})
	if err != nil {
		t.Fatalf("Append r2: %v", err)
	}

	lst, err := s.Events().ListByUser(ctx, userID)
	if err != nil || len(lst) != 2 {
		t.Fatalf("ListByUser: n=%d err=%v", len(lst), err)
	}
	if lst[0].EventID != r1.EventID || lst[1].EventID != r2.EventID {
		t.Fatalf("ListByUser: order not preserved: %v %v", lst[0].EventID, lst[1].EventID)
	}
	if lst[1].Metadata["source"] != "telemetry" {
		t.Fatalf("ListByUser: metadata lost: %+v", lst[1].Metadata)
	}

	// Missing user id is malformed input.
	if _, err := s.Events().Append(ctx, &model.ActionRecord{Category: model.CategoryWalk}); err == nil {
		t.Fatalf("Append without user id should fail")
	}

	// Rate-limited appends stop at the cap and leave counter and log in step.
	day := "2025-06-01"
	for i := 0; i < 2; i++ {
		if _, err := s.Events().AppendRateLimited(ctx, &model.ActionRecord{UserID: userID, Category: model.CategoryWellbeing, Points: 5}, day, 2); err != nil {
			t.Fatalf("AppendRateLimited %d: %v", i+1, err)
		}
	}
	_, err = s.Events().AppendRateLimited(ctx, &model.ActionRecord{UserID: userID, Category: model.CategoryWellbeing, Points: 5}, day, 2)
	if !errors.Is(err, model.ErrDailyLimit) {
		t.Fatalf("AppendRateLimited over cap: want ErrDailyLimit, got %v", err)
	}
	if n, err := s.Counters().Count(ctx, userID, day); err != nil || n != 2 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}
	if lst, err := s.Events().ListByUser(ctx, userID); err != nil || len(lst) != 4 {
		t.Fatalf("ListByUser after cap: n=%d err=%v", len(lst), err)
	}

	// Next day starts a fresh counter.
	if _, err := s.Events().AppendRateLimited(ctx, &model.ActionRecord{UserID: userID, Category: model.CategoryWellbeing, Points: 5}, "2025-06-02", 2); err != nil {
		t.Fatalf("AppendRateLimited next day: %v", err)
	}

	// A concurrent first-of-day burst must accept exactly the cap. The
	// (user, day) row does not exist yet when the writers race, which is
	// the hardest case for the drivers to serialize.
	burstUser := "u-" + uuid.New().String()
	burstDay := "2025-06-03"
	var wg sync.WaitGroup
	var accepted, limited atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Events().AppendRateLimited(ctx, &model.ActionRecord{UserID: burstUser, Category: model.CategoryWellbeing, Points: 5}, burstDay, 2)
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, model.ErrDailyLimit):
				limited.Add(1)
			default:
				t.Errorf("AppendRateLimited burst: %v", err)
			}
		}()
	}
	wg.Wait()
	if accepted.Load() != 2 || limited.Load() != 8 {
		t.Fatalf("burst: accepted=%d limited=%d, want 2/8", accepted.Load(), limited.Load())
	}
	if n, err := s.Counters().Count(ctx, burstUser, burstDay); err != nil || n != 2 {
		t.Fatalf("burst Count: n=%d err=%v", n, err)
	}
	if lst, err := s.Events().ListByUser(ctx, burstUser); err != nil || len(lst) != 2 {
		t.Fatalf("burst ListByUser: n=%d err=%v", len(lst), err)
	}

	// Directory: Get on unknown user, Upsert, last-write-wins.
	if _, err := s.Directory().Get(ctx, userID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Directory.Get unknown: want ErrNotFound, got %v", err)
	}
	if _, err := s.Directory().Upsert(ctx, &model.DirectoryEntry{UserID: userID, Neighborhood: "harbor"}); err != nil {
		t.Fatalf("Directory.Upsert: %v", err)
	}
	if _, err := s.Directory().Upsert(ctx, &model.DirectoryEntry{UserID: userID, Neighborhood: "midtown"}); err != nil {
		t.Fatalf("Directory.Upsert overwrite: %v", err)
	}
	got, err := s.Directory().Get(ctx, userID)
	if err != nil || got.Neighborhood != "midtown" {
		t.Fatalf("Directory.Get: got=%+v err=%v", got, err)
	}
	if entries, err := s.Directory().List(ctx); err != nil || len(entries) == 0 {
		t.Fatalf("Directory.List: n=%d err=%v", len(entries), err)
	}

	// ListAll sees every user's records.
	other := "u-" + uuid.New().String()
	if _, err := s.Events().Append(ctx, &model.ActionRecord{UserID: other, Category: model.CategoryVerifiedWaste, Points: 25}); err != nil {
		t.Fatalf("Append other: %v", err)
	}
	all, err := s.Events().ListAll(ctx)
	if err != nil || len(all) < 6 {
		t.Fatalf("ListAll: n=%d err=%v", len(all), err)
	}
}
