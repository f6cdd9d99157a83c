package store

import (
	"context"

	"github.com/goldenaura/aura-server/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (memory, sqlite,
// postgres). The event log is append-only: no update or delete exists.
type Store interface {
	Events() Events
	Directory() Directory
	Counters() Counters
	Close() error
}

// Events is the append-only action log. List results preserve insertion
// order so aggregate output is deterministic.
type Events interface {
	Append(ctx context.Context, rec *model.ActionRecord) (*model.ActionRecord, error)

	// AppendRateLimited appends rec only if the (user, day) counter is
	// below limit, incrementing the counter in the same transaction.
	// Returns model.ErrDailyLimit when the cap is reached; neither the
	// log nor the counter changes in that case.
	AppendRateLimited(ctx context.Context, rec *model.ActionRecord, day string, limit int) (*model.ActionRecord, error)

	ListByUser(ctx context.Context, userID string) ([]*model.ActionRecord, error)
	ListAll(ctx context.Context) ([]*model.ActionRecord, error)
}

// Directory maps users to neighborhoods.
type Directory interface {
	Get(ctx context.Context, userID string) (*model.DirectoryEntry, error)
	Upsert(ctx context.Context, e *model.DirectoryEntry) (*model.DirectoryEntry, error)
	List(ctx context.Context) ([]*model.DirectoryEntry, error)
}

// Counters reads per-(user, day) wellbeing acceptance counts. Writes
// happen only through Events.AppendRateLimited so the counter can never
// drift from the log.
type Counters interface {
	Count(ctx context.Context, userID, day string) (int, error)
}
