package genai

import (
	"context"
	"errors"
)

// Provider produces a single assistant reply for a prompt. One attempt per
// call; no retry, no streaming. Implementations signal failure with an
// error and never substitute fallback text themselves — the caller decides
// what the user sees.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyResponse is returned when the upstream call succeeds but carries
// no generated candidate.
var ErrEmptyResponse = errors.New("generation returned no candidates")
