package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/mudra/internal/app"
)

// StateHandler serves the live display state.
type StateHandler struct {
	app *app.App
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(a *app.App) *StateHandler {
	return &StateHandler{app: a}
}

// ServeHTTP handles GET /api/state.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.app.State())
}

// DetectionHandler switches gesture detection on and off.
type DetectionHandler struct {
	app *app.App
}

// NewDetectionHandler creates a new DetectionHandler.
func NewDetectionHandler(a *app.App) *DetectionHandler {
	return &DetectionHandler{app: a}
}

type detectionRequest struct {
	Enabled *bool `json:"enabled"`
}

type detectionResponse struct {
	Enabled bool `json:"enabled"`
}

// ServeHTTP handles GET and PUT on /api/detection.
func (h *DetectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req detectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		h.app.SetEnabled(*req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, detectionResponse{Enabled: h.app.IsEnabled()})
}

// CameraHandler starts and stops the capture pipeline.
type CameraHandler struct {
	app *app.App
}

// NewCameraHandler creates a new CameraHandler.
func NewCameraHandler(a *app.App) *CameraHandler {
	return &CameraHandler{app: a}
}

type cameraResponse struct {
	Running bool `json:"running"`
}

// ServeHTTP handles POST /api/camera/start and POST /api/camera/stop.
func (h *CameraHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/api/camera/start":
		if err := h.app.Start(); err != nil {
			if errors.Is(err, app.ErrCameraUnavailable) {
				writeError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to start camera")
			return
		}
	case "/api/camera/stop":
		h.app.Stop()
	default:
		http.NotFound(w, r)
		return
	}

	writeJSON(w, http.StatusOK, cameraResponse{Running: h.app.Running()})
}
