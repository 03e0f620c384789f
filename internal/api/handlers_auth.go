package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meenagpt/chat-service/internal/api/respond"
	"github.com/meenagpt/chat-service/internal/api/validate"
	"github.com/meenagpt/chat-service/internal/model"
	"github.com/meenagpt/chat-service/internal/services"
)

// AuthHandler is a thin HTTP transport over AuthService.
type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

type sessionResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.Register(req.Name, req.Email, req.Password); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	u, tok, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			respond.WriteError(w, http.StatusConflict, "email already registered")
			return
		}
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, sessionResponse{User: u, Token: tok})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.WriteBadRequest(w, "email and password are required")
		return
	}
	u, tok, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			respond.WriteError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, sessionResponse{User: u, Token: tok})
}
