package api

import (
	"github.com/gorilla/mux"

	"github.com/meenagpt/chat-service/internal/api/recovery"
	"github.com/meenagpt/chat-service/internal/auth"
	"github.com/meenagpt/chat-service/internal/genai"
	"github.com/meenagpt/chat-service/internal/services"
	"github.com/meenagpt/chat-service/internal/store"
)

// NewRouter wires all HTTP routes to handlers.
func NewRouter(st store.Store, issuer *auth.TokenIssuer, provider genai.Provider) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	// Auth (public)
	authSvc := services.NewAuthService(st, issuer)
	authHandler := NewAuthHandler(authSvc)
	root.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	root.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Health (public)
	pinger, _ := st.(store.HealthPinger)
	healthHandler := NewHealthHandler(pinger)
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Protected routes
	protected := root.PathPrefix("/api").Subrouter()
	protected.Use(auth.Middleware(issuer))

	threadSvc := services.NewThreadService(st)
	thread := NewThreadHandler(threadSvc)
	protected.HandleFunc("/threads", thread.ListThreads).Methods("GET")
	protected.HandleFunc("/threads/{threadId}", thread.GetThread).Methods("GET")
	protected.HandleFunc("/threads/{threadId}", thread.DeleteThread).Methods("DELETE")
	protected.HandleFunc("/threads/{threadId}", thread.RenameThread).Methods("PATCH")

	chatSvc := services.NewChatService(st, provider)
	chat := NewChatHandler(chatSvc)
	protected.HandleFunc("/chat", chat.Chat).Methods("POST")

	return root
}
