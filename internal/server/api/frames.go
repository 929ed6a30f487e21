package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/detector"
)

// maxFrameBody bounds a submitted frame; 21 points for a handful of hands
// fits in a few kilobytes.
const maxFrameBody = 1 << 16

// FramesHandler accepts tracker output from an external tracker, such as a
// browser running MediaPipe, and feeds it through the classifier.
type FramesHandler struct {
	app *app.App
	now func() time.Time
}

// NewFramesHandler creates a new FramesHandler.
func NewFramesHandler(a *app.App) *FramesHandler {
	return &FramesHandler{app: a, now: time.Now}
}

type frameRequest struct {
	// Timestamp is the frame time in epoch milliseconds. Zero means now.
	Timestamp int64              `json:"timestamp"`
	Hands     []detector.RawHand `json:"hands"`
}

type frameResponse struct {
	Entries []entryResponse `json:"entries"`
	Display app.Display     `json:"display"`
}

// ServeHTTP handles POST /api/frames.
func (h *FramesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req frameRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFrameBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	now := h.now()
	if req.Timestamp > 0 {
		now = time.UnixMilli(req.Timestamp)
	}

	entries, err := h.app.ProcessPoints(now, req.Hands)
	switch {
	case errors.Is(err, detector.ErrIncompleteLandmarks):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, app.ErrDetectionDisabled):
		writeError(w, http.StatusConflict, "Detection is disabled")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to process frame")
		return
	}

	writeJSON(w, http.StatusOK, frameResponse{
		Entries: toEntryResponses(entries),
		Display: h.app.State(),
	})
}
