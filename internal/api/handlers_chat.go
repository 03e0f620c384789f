package api

import (
	"encoding/json"
	"net/http"

	"github.com/meenagpt/chat-service/internal/api/respond"
	"github.com/meenagpt/chat-service/internal/api/validate"
	"github.com/meenagpt/chat-service/internal/auth"
	"github.com/meenagpt/chat-service/internal/services"
)

// ChatHandler is a thin HTTP transport over ChatService.
type ChatHandler struct {
	svc *services.ChatService
}

func NewChatHandler(svc *services.ChatService) *ChatHandler { return &ChatHandler{svc: svc} }

// Chat POST /api/chat — runs one turn and returns the assistant reply.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "no token provided")
		return
	}
	var req struct {
		ThreadID string `json:"threadId"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.ChatTurn(req.ThreadID, req.Message); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	reply, err := h.svc.Converse(r.Context(), id.UserID, req.ThreadID, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
