package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/store"
)

// SettingsHandler reads and updates the hand tracker options.
type SettingsHandler struct {
	app *app.App
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(a *app.App) *SettingsHandler {
	return &SettingsHandler{app: a}
}

// ServeHTTP handles GET, PUT and DELETE on /api/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.app.TrackerOptions())
	case http.MethodPut:
		h.update(w, r)
	case http.MethodDelete:
		h.reset(w)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// update handles PUT /api/settings. Fields left out of the body keep their
// current values.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	cfg := h.app.TrackerOptions()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.app.SetTrackerOptions(cfg); err != nil {
		if errors.Is(err, detector.ErrInvalidConfig) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	writeJSON(w, http.StatusOK, h.app.TrackerOptions())
}

// reset handles DELETE /api/settings, going back to the default options.
func (h *SettingsHandler) reset(w http.ResponseWriter) {
	if err := h.app.ResetTrackerOptions(); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No saved settings")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to reset settings")
		return
	}

	writeJSON(w, http.StatusOK, h.app.TrackerOptions())
}
