// Package api provides the JSON HTTP handlers for mudra.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/events"
)

type errorResponse struct {
	Error string `json:"error"`
}

// entryResponse is a log entry as sent to HTTP clients.
type entryResponse struct {
	Time    string `json:"time"`
	Stamp   string `json:"stamp"`
	Message string `json:"message"`
}

type entriesResponse struct {
	Entries []entryResponse `json:"entries"`
}

// toEntryResponses converts log entries, keeping their order.
func toEntryResponses(entries []events.Entry) []entryResponse {
	out := make([]entryResponse, len(entries))
	for i, e := range entries {
		out[i] = entryResponse{
			Time:    e.Time.Format(time.RFC3339Nano),
			Stamp:   e.Time.Format(events.StampLayout),
			Message: e.Message,
		}
	}
	return out
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
