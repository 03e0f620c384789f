package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/meenagpt/chat-service/internal/model"
	"github.com/meenagpt/chat-service/internal/store"
)

// Open opens (or creates) a SQLite database at the given path and enables
// WAL journal mode for better concurrency on read-heavy workloads.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	return openDSN(dsn)
}

// OpenInMemory opens a private in-memory database, used by tests.
func OpenInMemory() (*sql.DB, error) {
	return openDSN("file::memory:?_pragma=foreign_keys(ON)")
}

func openDSN(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single connection keeps the in-memory database alive and sidesteps
	// SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id       TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    creation_time TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS threads (
    thread_id  TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    title      TEXT NOT NULL,
    messages   TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS threads_user_updated ON threads (user_id, updated_at DESC);
`

// NewWithDB constructs a SQLite store backed by an existing connection.
func NewWithDB(db *sql.DB) store.Store { return &sqStore{db: db} }

type sqStore struct{ db *sql.DB }

func (s *sqStore) Users() store.Users     { return &users{db: s.db} }
func (s *sqStore) Threads() store.Threads { return &threads{db: s.db} }

// HealthPing implements store.HealthPinger for the SQLite-backed store.
func (s *sqStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	id := m.UserID
	if id == "" {
		id = uuid.New().String()
	}
	created := time.Now().UTC()
	_, err := u.db.ExecContext(ctx, `
        INSERT INTO users (user_id, name, email, password_hash, creation_time)
        VALUES (?,?,?,?,?)
    `, id, m.Name, m.Email, m.PasswordHash, created)
	if err != nil {
		if _, e := u.GetByEmail(ctx, m.Email); e == nil {
			return nil, model.ErrConflict
		}
		return nil, err
	}
	out := *m
	out.UserID = id
	out.CreationTime = created
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, name, email, password_hash, creation_time
        FROM users WHERE user_id=?
    `, userID)
	return scanUser(row)
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, name, email, password_hash, creation_time
        FROM users WHERE email=?
    `, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var out model.User
	if err := row.Scan(&out.UserID, &out.Name, &out.Email, &out.PasswordHash, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// --- Threads ---

type threads struct{ db *sql.DB }

func (t *threads) List(ctx context.Context, userID string) ([]model.ThreadSummary, error) {
	rows, err := t.db.QueryContext(ctx, `
        SELECT thread_id, title, created_at, updated_at
        FROM threads WHERE user_id=? ORDER BY updated_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	res := []model.ThreadSummary{}
	for rows.Next() {
		var s model.ThreadSummary
		if err := rows.Scan(&s.ThreadID, &s.Title, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (t *threads) Get(ctx context.Context, userID, threadID string) (*model.Thread, error) {
	var out model.Thread
	var raw []byte
	row := t.db.QueryRowContext(ctx, `
        SELECT thread_id, user_id, title, messages, created_at, updated_at
        FROM threads WHERE user_id=? AND thread_id=?
    `, userID, threadID)
	if err := row.Scan(&out.ThreadID, &out.UserID, &out.Title, &raw, &out.CreatedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &out.Messages); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *threads) Save(ctx context.Context, th *model.Thread) error {
	if len(th.Messages) == 0 {
		return fmt.Errorf("%w: thread must contain at least one message", model.ErrValidation)
	}
	raw, err := json.Marshal(th.Messages)
	if err != nil {
		return err
	}
	th.UpdatedAt = time.Now().UTC()
	if th.CreatedAt.IsZero() {
		th.CreatedAt = th.UpdatedAt
	}
	res, err := t.db.ExecContext(ctx, `
        INSERT INTO threads (thread_id, user_id, title, messages, created_at, updated_at)
        VALUES (?,?,?,?,?,?)
        ON CONFLICT (thread_id) DO UPDATE
        SET title=excluded.title, messages=excluded.messages, updated_at=excluded.updated_at
        WHERE threads.user_id = excluded.user_id
    `, th.ThreadID, th.UserID, th.Title, raw, th.CreatedAt, th.UpdatedAt)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrConflict
	}
	return nil
}

func (t *threads) Delete(ctx context.Context, userID, threadID string) (bool, error) {
	res, err := t.db.ExecContext(ctx, `
        DELETE FROM threads WHERE user_id=? AND thread_id=?
    `, userID, threadID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (t *threads) Rename(ctx context.Context, userID, threadID, title string) error {
	res, err := t.db.ExecContext(ctx, `
        UPDATE threads SET title=?, updated_at=? WHERE user_id=? AND thread_id=?
    `, title, time.Now().UTC(), userID, threadID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
