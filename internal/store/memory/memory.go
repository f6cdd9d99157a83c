// Package memory provides an in-process store.Store used for tests and
// single-node deployments without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goldenaura/aura-server/internal/model"
	"github.com/goldenaura/aura-server/internal/store"
)

// New returns an empty in-memory store. All operations are guarded by a
// single mutex; appends and counter increments are atomic under it.
func New() store.Store {
	return &memStore{
		counters:  make(map[string]int),
		directory: make(map[string]*model.DirectoryEntry),
	}
}

type memStore struct {
	mu        sync.Mutex
	events    []*model.ActionRecord
	counters  map[string]int // userID + "|" + day
	directory map[string]*model.DirectoryEntry
	dirOrder  []string
}

func (s *memStore) Events() store.Events       { return (*memEvents)(s) }
func (s *memStore) Directory() store.Directory { return (*memDirectory)(s) }
func (s *memStore) Counters() store.Counters   { return (*memCounters)(s) }
func (s *memStore) Close() error               { return nil }

// HealthPing implements health.HealthPinger.
func (s *memStore) HealthPing(ctx context.Context) error { return nil }

func counterKey(userID, day string) string { return userID + "|" + day }

func stamp(rec *model.ActionRecord) *model.ActionRecord {
	out := *rec
	if out.EventID == "" {
		out.EventID = uuid.New().String()
	}
	if out.Timestamp.IsZero() {
		out.Timestamp = time.Now().UTC()
	}
	return &out
}

// --- Events ---

type memEvents memStore

func (e *memEvents) Append(ctx context.Context, rec *model.ActionRecord) (*model.ActionRecord, error) {
	if rec.UserID == "" {
		return nil, model.ErrValidation
	}
	out := stamp(rec)
	e.mu.Lock()
	e.events = append(e.events, out)
	e.mu.Unlock()
	return out, nil
}

func (e *memEvents) AppendRateLimited(ctx context.Context, rec *model.ActionRecord, day string, limit int) (*model.ActionRecord, error) {
	if rec.UserID == "" {
		return nil, model.ErrValidation
	}
	out := stamp(rec)
	e.mu.Lock()
	defer e.mu.Unlock()
	key := counterKey(rec.UserID, day)
	if e.counters[key] >= limit {
		return nil, model.ErrDailyLimit
	}
	e.counters[key]++
	e.events = append(e.events, out)
	return out, nil
}

func (e *memEvents) ListByUser(ctx context.Context, userID string) ([]*model.ActionRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*model.ActionRecord
	for _, r := range e.events {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (e *memEvents) ListAll(ctx context.Context) ([]*model.ActionRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*model.ActionRecord, 0, len(e.events))
	for _, r := range e.events {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

// --- Directory ---

type memDirectory memStore

func (d *memDirectory) Get(ctx context.Context, userID string) (*model.DirectoryEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.directory[userID]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (d *memDirectory) Upsert(ctx context.Context, e *model.DirectoryEntry) (*model.DirectoryEntry, error) {
	if e.UserID == "" || e.Neighborhood == "" {
		return nil, model.ErrValidation
	}
	out := *e
	out.UpdateTime = time.Now().UTC()
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.directory[out.UserID]; !ok {
		d.dirOrder = append(d.dirOrder, out.UserID)
	}
	d.directory[out.UserID] = &out
	cp := out
	return &cp, nil
}

func (d *memDirectory) List(ctx context.Context) ([]*model.DirectoryEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*model.DirectoryEntry, 0, len(d.dirOrder))
	for _, id := range d.dirOrder {
		cp := *d.directory[id]
		out = append(out, &cp)
	}
	return out, nil
}

// --- Counters ---

type memCounters memStore

func (c *memCounters) Count(ctx context.Context, userID, day string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[counterKey(userID, day)], nil
}
