package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/app"
)

// LogHandler serves the event log, most recent entry first.
type LogHandler struct {
	app *app.App
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(a *app.App) *LogHandler {
	return &LogHandler{app: a}
}

// ServeHTTP handles GET and DELETE on /api/log.
func (h *LogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodDelete:
		h.clear(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/log?limit=N.
func (h *LogHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, entriesResponse{Entries: toEntryResponses(h.app.Entries(limit))})
}

// clear handles DELETE /api/log.
func (h *LogHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.app.ClearLog()
	writeJSON(w, http.StatusOK, entriesResponse{Entries: toEntryResponses(h.app.Entries(0))})
}

// ExportHandler downloads the log as a text file, oldest entry first.
type ExportHandler struct {
	app *app.App
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(a *app.App) *ExportHandler {
	return &ExportHandler{app: a}
}

// ServeHTTP handles GET /api/log/export.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name, content := h.app.ExportLog()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}
