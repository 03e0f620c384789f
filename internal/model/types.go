package model

import "time"

// Message roles. A thread only ever contains these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// User represents an account in the system.
type User struct {
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreationTime time.Time `json:"creationTime"`
}

// Message is one entry in a thread's log. Messages are immutable once
// appended; there is no edit path.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Thread is an ordered conversation between one user and the assistant.
// ThreadID is client-generated and globally unique.
type Thread struct {
	ThreadID  string    `json:"threadId"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Append adds a message with the given role to the end of the log.
func (t *Thread) Append(role, content string, at time.Time) {
	t.Messages = append(t.Messages, Message{Role: role, Content: content, Timestamp: at})
}

// ThreadSummary is the listing view of a thread: metadata without the
// message log.
type ThreadSummary struct {
	ThreadID  string    `json:"threadId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary returns the listing view of t.
func (t *Thread) Summary() ThreadSummary {
	return ThreadSummary{ThreadID: t.ThreadID, Title: t.Title, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}
