package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/meenagpt/chat-service/internal/model"
	"github.com/meenagpt/chat-service/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users     { return &users{db: s.db} }
func (s *pgStore) Threads() store.Threads { return &threads{db: s.db} }

// HealthPing implements store.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id       TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    creation_time TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS threads (
    thread_id  TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    title      TEXT NOT NULL,
    messages   JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS threads_user_updated ON threads (user_id, updated_at DESC);
`

// Bootstrap opens a connection and applies the schema. Safe to run repeatedly.
func Bootstrap(ctx context.Context, dsn string) error {
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	_, err = db.ExecContext(ctx, schema)
	return err
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	id := m.UserID
	if id == "" {
		id = uuid.New().String()
	}
	var created time.Time
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id, name, email, password_hash)
        VALUES ($1,$2,$3,$4)
        RETURNING creation_time
    `, id, m.Name, m.Email, m.PasswordHash)
	if err := row.Scan(&created); err != nil {
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
        FROM users WHERE user_id=$1
    `, userID)
	return scanUser(row)
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, name, email, password_hash, creation_time
        FROM users WHERE email=$1
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
        FROM threads WHERE user_id=$1 ORDER BY updated_at DESC
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
        FROM threads WHERE user_id=$1 AND thread_id=$2
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
	// The DO UPDATE guard keeps a thread id owned by one user from being
	// taken over by another.
	res, err := t.db.ExecContext(ctx, `
        INSERT INTO threads (thread_id, user_id, title, messages, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (thread_id) DO UPDATE
        SET title=EXCLUDED.title, messages=EXCLUDED.messages, updated_at=EXCLUDED.updated_at
        WHERE threads.user_id = EXCLUDED.user_id
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
        DELETE FROM threads WHERE user_id=$1 AND thread_id=$2
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
        UPDATE threads SET title=$1, updated_at=$2 WHERE user_id=$3 AND thread_id=$4
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
