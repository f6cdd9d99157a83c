// Package sqlite implements store.Store on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/goldenaura/aura-server/internal/model"
	"github.com/goldenaura/aura-server/internal/store"
)

// Open opens (or creates) a SQLite database at the given path and enables
// WAL journal mode for better read concurrency. Transactions start as
// writers (_txlock=immediate): a deferred transaction that upgrades from
// read to write mid-flight can fail with SQLITE_BUSY_SNAPSHOT under
// concurrency, which busy_timeout does not retry.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS action_events (
        event_id      TEXT PRIMARY KEY,
        user_id       TEXT NOT NULL,
        category      TEXT NOT NULL,
        points        INTEGER NOT NULL CHECK (points >= 0),
        metadata      TEXT,
        creation_time TIMESTAMP NOT NULL
    );`,
	`CREATE INDEX IF NOT EXISTS action_events_user_idx ON action_events(user_id);`,
	`CREATE TABLE IF NOT EXISTS directory (
        user_id      TEXT PRIMARY KEY,
        neighborhood TEXT NOT NULL,
        update_time  TIMESTAMP NOT NULL
    );`,
	`CREATE TABLE IF NOT EXISTS wellbeing_counters (
        user_id TEXT NOT NULL,
        day     TEXT NOT NULL,
        count   INTEGER NOT NULL DEFAULT 0,
        PRIMARY KEY (user_id, day)
    );`,
}

// New opens the database at path and applies the schema.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB allows wiring with an existing connection (used by factory and tests).
func NewWithDB(db *sql.DB) (store.Store, error) {
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return &sqlStore{db: db}, nil
}

type sqlStore struct{ db *sql.DB }

func (s *sqlStore) Events() store.Events       { return &events{db: s.db} }
func (s *sqlStore) Directory() store.Directory { return &directory{db: s.db} }
func (s *sqlStore) Counters() store.Counters   { return &counters{db: s.db} }
func (s *sqlStore) Close() error               { return s.db.Close() }

// HealthPing implements health.HealthPinger.
func (s *sqlStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

// --- Events ---

type events struct{ db *sql.DB }

func prepare(rec *model.ActionRecord) (*model.ActionRecord, []byte, error) {
	if rec.UserID == "" {
		return nil, nil, model.ErrValidation
	}
	out := *rec
	if out.EventID == "" {
		out.EventID = uuid.New().String()
	}
	if out.Timestamp.IsZero() {
		out.Timestamp = time.Now().UTC()
	}
	var meta []byte
	if len(out.Metadata) > 0 {
		b, err := json.Marshal(out.Metadata)
		if err != nil {
			return nil, nil, err
		}
		meta = b
	}
	return &out, meta, nil
}

func (e *events) Append(ctx context.Context, rec *model.ActionRecord) (*model.ActionRecord, error) {
	out, meta, err := prepare(rec)
	if err != nil {
		return nil, err
	}
	_, err = e.db.ExecContext(ctx, `INSERT INTO action_events (event_id, user_id, category, points, metadata, creation_time) VALUES (?,?,?,?,?,?)`,
		out.EventID, out.UserID, string(out.Category), out.Points, nullIfEmpty(meta), out.Timestamp)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *events) AppendRateLimited(ctx context.Context, rec *model.ActionRecord, day string, limit int) (*model.ActionRecord, error) {
	out, meta, err := prepare(rec)
	if err != nil {
		return nil, err
	}
	tx, err := e.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	err = tx.QueryRowContext(ctx, `SELECT count FROM wellbeing_counters WHERE user_id=? AND day=?`, out.UserID, day).Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if count >= limit {
		return nil, model.ErrDailyLimit
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO wellbeing_counters (user_id, day, count) VALUES (?,?,1)
        ON CONFLICT(user_id, day) DO UPDATE SET count = count + 1`, out.UserID, day); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO action_events (event_id, user_id, category, points, metadata, creation_time) VALUES (?,?,?,?,?,?)`,
		out.EventID, out.UserID, string(out.Category), out.Points, nullIfEmpty(meta), out.Timestamp); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *events) ListByUser(ctx context.Context, userID string) ([]*model.ActionRecord, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT event_id, user_id, category, points, metadata, creation_time
        FROM action_events WHERE user_id=? ORDER BY rowid`, userID)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

func (e *events) ListAll(ctx context.Context) ([]*model.ActionRecord, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT event_id, user_id, category, points, metadata, creation_time
        FROM action_events ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]*model.ActionRecord, error) {
	defer func() { _ = rows.Close() }()
	var out []*model.ActionRecord
	for rows.Next() {
		var r model.ActionRecord
		var cat string
		var meta sql.NullString
		if err := rows.Scan(&r.EventID, &r.UserID, &cat, &r.Points, &meta, &r.Timestamp); err != nil {
			return nil, err
		}
		r.Category = model.Category(cat)
		if meta.Valid {
			_ = json.Unmarshal([]byte(meta.String), &r.Metadata)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// --- Directory ---

type directory struct{ db *sql.DB }

func (d *directory) Get(ctx context.Context, userID string) (*model.DirectoryEntry, error) {
	var out model.DirectoryEntry
	err := d.db.QueryRowContext(ctx, `SELECT user_id, neighborhood, update_time FROM directory WHERE user_id=?`, userID).
		Scan(&out.UserID, &out.Neighborhood, &out.UpdateTime)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *directory) Upsert(ctx context.Context, e *model.DirectoryEntry) (*model.DirectoryEntry, error) {
	if e.UserID == "" || e.Neighborhood == "" {
		return nil, model.ErrValidation
	}
	out := *e
	out.UpdateTime = time.Now().UTC()
	_, err := d.db.ExecContext(ctx, `INSERT INTO directory (user_id, neighborhood, update_time) VALUES (?,?,?)
        ON CONFLICT(user_id) DO UPDATE SET neighborhood=excluded.neighborhood, update_time=excluded.update_time`,
		out.UserID, out.Neighborhood, out.UpdateTime)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *directory) List(ctx context.Context) ([]*model.DirectoryEntry, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT user_id, neighborhood, update_time FROM directory ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.DirectoryEntry
	for rows.Next() {
		var e model.DirectoryEntry
		if err := rows.Scan(&e.UserID, &e.Neighborhood, &e.UpdateTime); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// --- Counters ---

type counters struct{ db *sql.DB }

func (c *counters) Count(ctx context.Context, userID, day string) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT count FROM wellbeing_counters WHERE user_id=? AND day=?`, userID, day).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func nullIfEmpty(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
