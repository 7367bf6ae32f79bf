package server

import (
	"net/http"

	"github.com/javobly/javob/internal/api"
	"github.com/javobly/javob/internal/api/handlers"
	"github.com/javobly/javob/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	AuthValidator    middleware.AuthValidator
	KnowledgeHandler *handlers.KnowledgeHandler
	ChatHandler      *handlers.ChatHandler
	BotHandler       *handlers.BotHandler
	WebhookHandler   *handlers.WebhookHandler
	AuthHandler      *handlers.AuthHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Slightly above the 10 MiB stored-file limit so multipart framing
	// does not push a maximal upload over the transport cap.
	const maxBodyBytes int64 = 12 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.AuthValidator))

		r.Route("/kb", func(r chi.Router) {
			r.Post("/", cfg.KnowledgeHandler.Upload)
			r.Get("/", cfg.KnowledgeHandler.Get)
			r.Delete("/", cfg.KnowledgeHandler.Delete)
			r.Get("/download", cfg.KnowledgeHandler.Download)
		})

		r.Post("/chat", cfg.ChatHandler.Send)
		r.Get("/chat/history", cfg.ChatHandler.History)
		r.Delete("/chat/history", cfg.ChatHandler.ClearHistory)

		r.Route("/bot", func(r chi.Router) {
			r.Post("/", cfg.BotHandler.Register)
			r.Get("/", cfg.BotHandler.Get)
			r.Delete("/", cfg.BotHandler.Unregister)
		})
	})

	// Telegram authenticates with the per-binding secret token, not an API key.
	r.Post("/webhook/{tenantID}", cfg.WebhookHandler.Receive)

	r.Post("/tenants", cfg.AuthHandler.CreateTenant)
	r.Post("/apikeys", cfg.AuthHandler.CreateAPIKey)

	return r
}
