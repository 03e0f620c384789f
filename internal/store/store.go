package store

import (
	"context"

	"github.com/meenagpt/chat-service/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Users() Users
	Threads() Threads
}

// Users owns the User lifecycle. Emails are unique; Create returns
// model.ErrConflict on a duplicate.
type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// Threads owns the Thread/Message lifecycle. All operations are scoped to
// the owning user; lookups for another user's thread report model.ErrNotFound.
type Threads interface {
	// List returns thread summaries sorted by most-recently-updated first.
	List(ctx context.Context, userID string) ([]model.ThreadSummary, error)
	// Get returns the full thread including its ordered message log.
	Get(ctx context.Context, userID, threadID string) (*model.Thread, error)
	// Save persists the thread: insert if new, else update, refreshing
	// UpdatedAt. A thread is only visible to List/Get after Save completes.
	Save(ctx context.Context, t *model.Thread) error
	// Delete removes the thread and reports whether one existed.
	Delete(ctx context.Context, userID, threadID string) (bool, error)
	// Rename updates the thread title; model.ErrNotFound if missing.
	Rename(ctx context.Context, userID, threadID, title string) error
}

// HealthPinger is implemented by stores that can report connectivity.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
