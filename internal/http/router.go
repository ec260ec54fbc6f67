package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/preston-bernstein/courtside/internal/http/handlers"
	"github.com/preston-bernstein/courtside/internal/http/middleware"
)

// RouterOptions configures the API routes.
type RouterOptions struct {
	// APIKey guards /api when set.
	APIKey string
	Logger *slog.Logger
}

// NewRouter registers the health probes and the /api resource routes.
func NewRouter(h *handlers.Handler, opts RouterOptions) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKey(opts.APIKey, opts.Logger))

		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.ListPlayers)
			r.Post("/", h.SavePlayers)
			r.Delete("/", h.DeletePlayer)
		})
		r.Route("/games", func(r chi.Router) {
			r.Get("/", h.ListGames)
			r.Post("/", h.SaveGames)
			r.Delete("/", h.DeleteGame)
		})
		r.Route("/logs", func(r chi.Router) {
			r.Get("/", h.ListLogs)
			r.Post("/", h.SaveLogs)
			r.Delete("/", h.DeleteLogs)
		})
		r.Route("/game-players", func(r chi.Router) {
			r.Get("/", h.ListGamePlayers)
			r.Post("/", h.SaveGamePlayers)
			r.Delete("/", h.DeleteGamePlayers)
		})
	})
	return r
}
