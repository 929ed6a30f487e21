package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/events"
)

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Message types sent on the updates stream.
const (
	MessageSnapshot = "snapshot"
	MessageUpdate   = "update"
)

// UpdateMessage is one message on the /api/updates stream. The first
// message on a connection is a snapshot carrying the whole log, oldest
// first; every later message carries only the entries logged since.
type UpdateMessage struct {
	Type    string         `json:"type"`
	Display app.Display    `json:"display"`
	Entries []events.Entry `json:"entries"`
	Cleared bool           `json:"cleared,omitempty"`
}

// UpdatesHandler streams display and log updates over WebSocket.
type UpdatesHandler struct {
	app *app.App
}

// NewUpdatesHandler creates a new UpdatesHandler.
func NewUpdatesHandler(a *app.App) *UpdatesHandler {
	return &UpdatesHandler{app: a}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *UpdatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	state, updates, cancel := h.app.SubscribeWithSnapshot()
	defer cancel()

	snapshot := UpdateMessage{
		Type:    MessageSnapshot,
		Display: state.Display,
		Entries: state.Entries,
	}
	if err := writeMessage(conn, snapshot); err != nil {
		return
	}

	// Drain client messages so close frames are seen.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			msg := UpdateMessage{
				Type:    MessageUpdate,
				Display: u.Display,
				Entries: u.Entries,
				Cleared: u.Cleared,
			}
			if err := writeMessage(conn, msg); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeMessage(conn *websocket.Conn, msg UpdateMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
