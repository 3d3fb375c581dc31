package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/kanekilink/internal/apperr"
	"github.com/starford/kanekilink/internal/commands"
	"github.com/starford/kanekilink/internal/settings"
)

// CommandRunner resolves palette commands.
type CommandRunner interface {
	Commands() []commands.Command
	Lookup(id string) (commands.Command, bool)
}

// ActiveNote reads and selects the active document.
type ActiveNote interface {
	ActiveFile() (string, error)
	SetActive(path string) error
}

// SettingsPanel is the settings tab.
type SettingsPanel interface {
	Current() settings.Settings
	SetRootPath(ctx context.Context, value string) error
	SetLabel(ctx context.Context, value string) error
}

// Handler holds API route handlers.
type Handler struct {
	runner CommandRunner
	ws     ActiveNote
	panel  SettingsPanel
}

// NewHandler creates a new Handler.
func NewHandler(runner CommandRunner, ws ActiveNote, panel SettingsPanel) *Handler {
	return &Handler{runner: runner, ws: ws, panel: panel}
}

// ListCommands handles GET /api/commands.
func (h *Handler) ListCommands(w http.ResponseWriter, _ *http.Request) {
	cmds := h.runner.Commands()
	items := make([]CommandItem, len(cmds))
	for i, c := range cmds {
		items[i] = CommandItem{ID: c.ID, Name: c.Name}
	}
	writeJSON(w, http.StatusOK, CommandListResponse{Commands: items})
}

// RunCommand handles POST /api/commands/{id}.
func (h *Handler) RunCommand(w http.ResponseWriter, r *http.Request) {
	cmd, ok := h.runner.Lookup(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown command"))
		return
	}
	if err := cmd.Run(r.Context()); err != nil {
		status := http.StatusBadGateway
		if apperr.IsValidation(err) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// GetActive handles GET /api/workspace/active.
func (h *Handler) GetActive(w http.ResponseWriter, _ *http.Request) {
	path, err := h.ws.ActiveFile()
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, ActiveNoteResponse{Path: path})
}

// SetActive handles PUT /api/workspace/active.
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req ActiveNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.ws.SetActive(req.Path); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("note not found"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, ActiveNoteResponse{Path: req.Path})
}

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.panel.Current())
}

// UpdateSettings handles PUT /api/settings. Each field is saved as it is applied.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}
	if req.RootPath != nil {
		if err := h.panel.SetRootPath(r.Context(), *req.RootPath); err != nil {
			slog.Error("save settings failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
	}
	if req.FreeformLabel != nil {
		if err := h.panel.SetLabel(r.Context(), *req.FreeformLabel); err != nil {
			slog.Error("save settings failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
	}
	writeJSON(w, http.StatusOK, h.panel.Current())
}
