package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/goldenaura/aura-server/internal/model"
	"github.com/goldenaura/aura-server/internal/store"
	"github.com/goldenaura/aura-server/internal/store/storetest"
)

func TestMemoryStore_Compliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	s := New()
	ctx := context.Background()

	const writers = 16
	const perWriter = 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				if _, err := s.Events().Append(ctx, &model.ActionRecord{UserID: "u1", Category: model.CategoryWalk}); err != nil {
					t.Errorf("Append: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	lst, err := s.Events().ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(lst) != writers*perWriter {
		t.Fatalf("lost appends: got %d want %d", len(lst), writers*perWriter)
	}
}

func TestMemoryStore_ConcurrentRateLimitedAppends(t *testing.T) {
	s := New()
	ctx := context.Background()

	const attempts = 20
	var wg sync.WaitGroup
	accepted := make(chan struct{}, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Events().AppendRateLimited(ctx, &model.ActionRecord{UserID: "u1", Category: model.CategoryWellbeing, Points: 5}, "2025-06-01", 2)
			if err == nil {
				accepted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(accepted)

	n := 0
	for range accepted {
		n++
	}
	if n != 2 {
		t.Fatalf("cap not enforced under concurrency: accepted %d", n)
	}
	lst, _ := s.Events().ListByUser(ctx, "u1")
	if len(lst) != 2 {
		t.Fatalf("log and counter out of step: %d records", len(lst))
	}
}
