package app

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// Display is the live status shown by the UI collaborators: the web page,
// the tray menu and the websocket stream. It follows every frame and is
// never debounced.
type Display struct {
	// Gesture, Color and Proximity describe the first hand. Gesture is "-"
	// until the first frame; Proximity is "-" while no hand is visible.
	Gesture   string `json:"gesture"`
	Color     string `json:"color"`
	Proximity string `json:"proximity"`

	Hands []HandView `json:"hands"`

	FPS           float64         `json:"fps"`
	Enabled       bool            `json:"enabled"`
	CameraRunning bool            `json:"camera_running"`
	LastError     string          `json:"last_error,omitempty"`
	SessionID     string          `json:"session_id"`
	Tracker       detector.Config `json:"tracker"`
}

// HandView is the per-frame classification of one hand.
type HandView struct {
	Gesture    gesture.Label  `json:"gesture"`
	Color      string         `json:"color"`
	Proximity  gesture.Report `json:"proximity"`
	Handedness string         `json:"handedness,omitempty"`
	Score      float64        `json:"score,omitempty"`
}

func (d *Display) setHands(hands []detector.HandLandmarks, results []gesture.Result) {
	d.Hands = make([]HandView, len(results))
	for i, r := range results {
		d.Hands[i] = HandView{
			Gesture:    r.Label,
			Color:      r.Label.Color(),
			Proximity:  r.Proximity,
			Handedness: hands[i].Handedness,
			Score:      hands[i].Score,
		}
	}

	if len(results) == 0 {
		d.Gesture = gesture.NoHand.String()
		d.Color = gesture.NoHand.Color()
		d.Proximity = "-"
		return
	}
	d.Gesture = results[0].Label.String()
	d.Color = results[0].Label.Color()
	d.Proximity = results[0].Proximity.Names()
}

func (d Display) clone() Display {
	if d.Hands != nil {
		hands := make([]HandView, len(d.Hands))
		copy(hands, d.Hands)
		d.Hands = hands
	}
	return d
}

// fpsMeter reports processed frames per second, recomputed about once a
// second.
type fpsMeter struct {
	start  time.Time
	frames int
	fps    float64
}

func (m *fpsMeter) tick(now time.Time) float64 {
	if m.start.IsZero() {
		m.start = now
	}
	m.frames++

	if elapsed := now.Sub(m.start); elapsed >= time.Second {
		m.fps = float64(m.frames) / elapsed.Seconds()
		m.start = now
		m.frames = 0
	}
	return m.fps
}

func (m *fpsMeter) reset() {
	*m = fpsMeter{}
}
