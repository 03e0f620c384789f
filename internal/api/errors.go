package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/meenagpt/chat-service/internal/api/respond"
	"github.com/meenagpt/chat-service/internal/model"
)

// writeServiceError maps domain sentinel errors to HTTP responses. Unmapped
// errors are logged with a stack and surface as a generic 500 — internal
// details never cross the HTTP boundary.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "Thread not found")
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrConflict):
		respond.WriteError(w, http.StatusConflict, "conflict")
	case errors.Is(err, model.ErrInvalidCredentials):
		respond.WriteError(w, http.StatusUnauthorized, "invalid email or password")
	default:
		log.Error().Stack().Err(err).Msg("request failed")
		respond.WriteInternalError(w, "internal server error")
	}
}
