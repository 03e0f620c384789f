package services

import (
	"context"

	"github.com/meenagpt/chat-service/internal/model"
	"github.com/meenagpt/chat-service/internal/store"
)

// ThreadService handles read/delete/rename operations on threads.
type ThreadService struct {
	store store.Store
}

func NewThreadService(s store.Store) *ThreadService { return &ThreadService{store: s} }

// ListThreads returns the caller's thread summaries, most recently updated first.
func (s *ThreadService) ListThreads(ctx context.Context, userID string) ([]model.ThreadSummary, error) {
	return s.store.Threads().List(ctx, userID)
}

// GetMessages returns the ordered message log of one thread.
func (s *ThreadService) GetMessages(ctx context.Context, userID, threadID string) ([]model.Message, error) {
	th, err := s.store.Threads().Get(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}
	return th.Messages, nil
}

// DeleteThread removes a thread; model.ErrNotFound when it does not exist.
func (s *ThreadService) DeleteThread(ctx context.Context, userID, threadID string) error {
	existed, err := s.store.Threads().Delete(ctx, userID, threadID)
	if err != nil {
		return err
	}
	if !existed {
		return model.ErrNotFound
	}
	return nil
}

// RenameThread updates a thread title; model.ErrNotFound when it does not exist.
func (s *ThreadService) RenameThread(ctx context.Context, userID, threadID, title string) error {
	return s.store.Threads().Rename(ctx, userID, threadID, title)
}
