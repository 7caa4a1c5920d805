package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries the settings the router needs beyond its handlers.
type RouterConfig struct {
	JWTSecret         []byte
	ChatRatePerMinute int
}

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(chatHandler *ChatHandler, weddingHandler *WeddingHandler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Liveness probe.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.JWTSecret))

		// JSON routes get a request timeout so clients cannot hang forever.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/chats", chatHandler.GetChats)
			r.Get("/chats/{chatID}", chatHandler.GetChat)
			r.Delete("/chats/{chatID}", chatHandler.HandleDeleteChat)

			r.Get("/weddings", weddingHandler.GetWeddings)
			r.Post("/weddings", weddingHandler.CreateWedding)
			r.Post("/weddings/refresh", weddingHandler.RefreshWeddings)
			r.Get("/weddings/selected", weddingHandler.GetSelected)
			r.Put("/weddings/selected", weddingHandler.PutSelected)
		})

		// Model-backed routes. Streaming must NOT have a timeout.
		r.Group(func(r chi.Router) {
			r.Use(RateLimitMiddleware(cfg.ChatRatePerMinute))

			r.Post("/chat/stream", chatHandler.HandleStreamPrompt)
			r.With(middleware.Timeout(60*time.Second)).Post("/chat", chatHandler.HandleComplete)
		})
	})

	return r
}
