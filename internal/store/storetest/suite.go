package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meenagpt/chat-service/internal/model"
	"github.com/meenagpt/chat-service/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	// Unique test identifiers
	email := "u-" + uuid.New().String() + "@example.test"

	// Users
	u, err := s.Users().Create(ctx, &model.User{Name: "Test User", Email: email, PasswordHash: "x"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.UserID == "" {
		t.Fatalf("CreateUser: empty user id")
	}
	if got, err := s.Users().Get(ctx, u.UserID); err != nil || got.Email != email {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	if got, err := s.Users().GetByEmail(ctx, email); err != nil || got.UserID != u.UserID {
		t.Fatalf("GetUserByEmail: got=%v err=%v", got, err)
	}
	if _, err := s.Users().Create(ctx, &model.User{Name: "Dup", Email: email, PasswordHash: "y"}); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("CreateUser duplicate email: want ErrConflict, got %v", err)
	}
	if _, err := s.Users().GetByEmail(ctx, "nobody@example.test"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUserByEmail missing: want ErrNotFound, got %v", err)
	}

	// Threads: empty listing for a fresh user
	if lst, err := s.Threads().List(ctx, u.UserID); err != nil || len(lst) != 0 {
		t.Fatalf("ListThreads fresh user: n=%d err=%v", len(lst), err)
	}

	// A thread with zero messages is never persisted
	empty := &model.Thread{ThreadID: "t-" + uuid.New().String(), UserID: u.UserID, Title: "empty"}
	if err := s.Threads().Save(ctx, empty); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("Save empty thread: want ErrValidation, got %v", err)
	}

	// Save + Get round trip preserves append order
	th := &model.Thread{ThreadID: "t-" + uuid.New().String(), UserID: u.UserID, Title: "hello"}
	th.Append(model.RoleUser, "hello", time.Now().UTC())
	th.Append(model.RoleAssistant, "world", time.Now().UTC())
	if err := s.Threads().Save(ctx, th); err != nil {
		t.Fatalf("SaveThread: %v", err)
	}
	got, err := s.Threads().Get(ctx, u.UserID, th.ThreadID)
	if err != nil {
		t.Fatalf("GetThread: %v", err)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != model.RoleUser || got.Messages[1].Role != model.RoleAssistant {
		t.Fatalf("GetThread messages: %+v", got.Messages)
	}
	if got.Messages[0].Content != "hello" || got.Messages[1].Content != "world" {
		t.Fatalf("GetThread message order: %+v", got.Messages)
	}

	// Append + Save updates in place, prior entries unchanged
	got.Append(model.RoleUser, "again", time.Now().UTC())
	got.Append(model.RoleAssistant, "sure", time.Now().UTC())
	if err := s.Threads().Save(ctx, got); err != nil {
		t.Fatalf("SaveThread update: %v", err)
	}
	got2, err := s.Threads().Get(ctx, u.UserID, th.ThreadID)
	if err != nil || len(got2.Messages) != 4 {
		t.Fatalf("GetThread after update: n=%d err=%v", len(got2.Messages), err)
	}
	if got2.Messages[0].Content != "hello" || got2.Messages[1].Content != "world" {
		t.Fatalf("prior entries mutated: %+v", got2.Messages[:2])
	}

	// Ownership: another user cannot see or take over the thread
	other, err := s.Users().Create(ctx, &model.User{Name: "Other", Email: "o-" + uuid.New().String() + "@example.test", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("CreateUser other: %v", err)
	}
	if _, err := s.Threads().Get(ctx, other.UserID, th.ThreadID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("cross-user GetThread: want ErrNotFound, got %v", err)
	}
	steal := &model.Thread{ThreadID: th.ThreadID, UserID: other.UserID, Title: "mine now"}
	steal.Append(model.RoleUser, "hi", time.Now().UTC())
	if err := s.Threads().Save(ctx, steal); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("cross-user Save: want ErrConflict, got %v", err)
	}

	// Listing order: most recently updated first
	older := &model.Thread{ThreadID: "t-" + uuid.New().String(), UserID: u.UserID, Title: "older"}
	older.Append(model.RoleUser, "first", time.Now().UTC())
	if err := s.Threads().Save(ctx, older); err != nil {
		t.Fatalf("SaveThread older: %v", err)
	}
	// Touch the first thread so it sorts ahead again.
	time.Sleep(5 * time.Millisecond)
	got2.Append(model.RoleUser, "bump", time.Now().UTC())
	got2.Append(model.RoleAssistant, "ok", time.Now().UTC())
	if err := s.Threads().Save(ctx, got2); err != nil {
		t.Fatalf("SaveThread bump: %v", err)
	}
	lst, err := s.Threads().List(ctx, u.UserID)
	if err != nil || len(lst) != 2 {
		t.Fatalf("ListThreads: n=%d err=%v", len(lst), err)
	}
	if lst[0].ThreadID != th.ThreadID {
		t.Fatalf("ListThreads order: got %s first, want %s", lst[0].ThreadID, th.ThreadID)
	}

	// Rename
	if err := s.Threads().Rename(ctx, u.UserID, th.ThreadID, "renamed"); err != nil {
		t.Fatalf("RenameThread: %v", err)
	}
	if got, err := s.Threads().Get(ctx, u.UserID, th.ThreadID); err != nil || got.Title != "renamed" {
		t.Fatalf("GetThread after rename: got=%v err=%v", got, err)
	}
	if err := s.Threads().Rename(ctx, u.UserID, "no-such-thread", "x"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Rename missing: want ErrNotFound, got %v", err)
	}

	// Delete reports existence and removes the record
	if ok, err := s.Threads().Delete(ctx, u.UserID, th.ThreadID); err != nil || !ok {
		t.Fatalf("DeleteThread: ok=%v err=%v", ok, err)
	}
	if _, err := s.Threads().Get(ctx, u.UserID, th.ThreadID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetThread after delete: want ErrNotFound, got %v", err)
	}
	if ok, err := s.Threads().Delete(ctx, u.UserID, th.ThreadID); err != nil || ok {
		t.Fatalf("DeleteThread missing: ok=%v err=%v", ok, err)
	}
}
