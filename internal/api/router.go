package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// events, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(runner CommandRunner, ws ActiveNote, panel SettingsPanel, authEnabled bool, token string, events http.Handler) chi.Router {
	h := NewHandler(runner, ws, panel)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Command palette.
	r.Get("/commands", h.ListCommands)
	r.Post("/commands/{id}", h.RunCommand)

	// Active document.
	r.Get("/workspace/active", h.GetActive)
	r.Put("/workspace/active", h.SetActive)

	// Settings tab.
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)

	if events != nil {
		r.Get("/events", events.ServeHTTP)
	}

	return r
}
