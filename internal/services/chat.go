package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/meenagpt/chat-service/internal/genai"
	"github.com/meenagpt/chat-service/internal/model"
	"github.com/meenagpt/chat-service/internal/store"
)

// FallbackReply is the assistant text persisted and returned when the
// generation provider fails. A failed generation never fails the turn.
const FallbackReply = "AI failed to generate a response."

// ChatService orchestrates one chat turn: resolve the thread, append the
// user message, generate a reply, append it, persist.
type ChatService struct {
	store    store.Store
	provider genai.Provider
	locks    keyedMutex
}

func NewChatService(s store.Store, p genai.Provider) *ChatService {
	return &ChatService{store: s, provider: p}
}

// Converse runs one turn and returns the assistant reply text.
//
// Turns on the same threadID are serialized so that two concurrent turns
// cannot both read the same prior state and overwrite each other's appended
// messages. Turns on different threads proceed concurrently.
func (s *ChatService) Converse(ctx context.Context, userID, threadID, message string) (string, error) {
	unlock := s.locks.lock(threadID)
	defer unlock()

	now := time.Now().UTC()
	th, err := s.store.Threads().Get(ctx, userID, threadID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		// New thread: titled from the first user message.
		th = &model.Thread{ThreadID: threadID, UserID: userID, Title: message}
	case err != nil:
		return "", err
	}
	th.Append(model.RoleUser, message, now)

	// Only the latest user message is sent; the model sees each turn
	// without conversation history.
	reply, err := s.provider.Generate(ctx, message)
	if err != nil {
		log.Warn().Err(err).Str("thread_id", threadID).Msg("generation failed, using fallback reply")
		reply = FallbackReply
	}
	th.Append(model.RoleAssistant, reply, time.Now().UTC())

	if err := s.store.Threads().Save(ctx, th); err != nil {
		return "", err
	}
	return reply, nil
}
