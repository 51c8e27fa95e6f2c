package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rodrigoscoelho/ClaudeSync/internal/config"
	"github.com/rodrigoscoelho/ClaudeSync/internal/middleware"
)

type Server struct {
	Router http.Handler
}

// NewServer wires the route layer. provider may be nil when the upstream
// client could not be constructed; chat requests then fail with 500
// instead of taking the process down.
func NewServer(cfg config.Config, sessions SessionStore, settings Settings, provider Provider, logger zerolog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.CORS)

	// Bootstrap surface: reachable without a stored session key.
	r.Get("/", Index())
	r.Get("/login", LoginPage())
	r.Post("/login", LoginSubmit(sessions, settings, provider, logger))
	r.Get("/check_login", CheckLogin(sessions, settings, provider, logger))
	r.Get("/config", ConfigPage())
	r.Post("/config", ConfigSubmit(sessions, logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	// Everything below talks to Claude.ai and needs a session key.
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionGuard(sessions))

		r.Route("/v1", func(r chi.Router) {
			r.Get("/models", ListModels())
			r.Post("/chat/completions", ChatCompletions(settings, provider, logger))
		})

		r.Get("/list_chats", ListChats(settings, provider, logger))
		r.Get("/list_projects", ListProjects(settings, provider, logger))
		r.Get("/list_organizations", ListOrganizations(provider, logger))
	})

	return &Server{Router: r}
}
