package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/meenagpt/chat-service/internal/api/respond"
	"github.com/meenagpt/chat-service/internal/api/validate"
	"github.com/meenagpt/chat-service/internal/auth"
	"github.com/meenagpt/chat-service/internal/services"
)

// ThreadHandler is a thin HTTP transport over ThreadService.
type ThreadHandler struct {
	svc *services.ThreadService
}

func NewThreadHandler(svc *services.ThreadService) *ThreadHandler { return &ThreadHandler{svc: svc} }

// ListThreads GET /api/threads
func (h *ThreadHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "no token provided")
		return
	}
	out, err := h.svc.ListThreads(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// GetThread GET /api/threads/{threadId} — returns the message log only.
func (h *ThreadHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "no token provided")
		return
	}
	msgs, err := h.svc.GetMessages(r.Context(), id.UserID, mux.Vars(r)["threadId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, msgs)
}

// DeleteThread DELETE /api/threads/{threadId}
func (h *ThreadHandler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "no token provided")
		return
	}
	if err := h.svc.DeleteThread(r.Context(), id.UserID, mux.Vars(r)["threadId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"success": "Thread deleted successfully"})
}

// RenameThread PATCH /api/threads/{threadId}
func (h *ThreadHandler) RenameThread(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "no token provided")
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.NonEmpty("title", req.Title); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.svc.RenameThread(r.Context(), id.UserID, mux.Vars(r)["threadId"], req.Title); err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"success": "Thread renamed successfully"})
}
