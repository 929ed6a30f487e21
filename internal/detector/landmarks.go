// Package detector provides hand tracking interfaces and landmark types.
package detector

import (
	"errors"
	"fmt"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrIncompleteLandmarks is returned when a landmark set is neither empty
// nor a full 21-point hand.
var ErrIncompleteLandmarks = errors.New("incomplete landmark set")

// Point3D is a landmark in normalized image space. X and Y are roughly in
// [0,1] relative to the frame, Y grows downward. Z is relative depth and
// decodes as 0 when the tracker omits it.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns p translated by d.
func (p Point3D) Add(d Point3D) Point3D {
	return Point3D{X: p.X + d.X, Y: p.Y + d.Y, Z: p.Z + d.Z}
}

// HandLandmarks represents the 21 hand landmarks reported for one hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Translate returns a copy of the hand with every point moved by d.
func (h HandLandmarks) Translate(d Point3D) HandLandmarks {
	out := h
	for i := range out.Points {
		out.Points[i] = out.Points[i].Add(d)
	}
	return out
}

// CheckLandmarks reports whether points is usable: either empty (no hand)
// or exactly NumLandmarks long.
func CheckLandmarks(points []Point3D) error {
	if len(points) == 0 || len(points) == NumLandmarks {
		return nil
	}
	return fmt.Errorf("%w: got %d points, want %d", ErrIncompleteLandmarks, len(points), NumLandmarks)
}

// FromPoints builds a HandLandmarks from a full 21-point slice.
func FromPoints(points []Point3D, handedness string, score float64) (HandLandmarks, error) {
	h := HandLandmarks{Handedness: handedness, Score: score}
	if len(points) != NumLandmarks {
		return h, fmt.Errorf("%w: got %d points, want %d", ErrIncompleteLandmarks, len(points), NumLandmarks)
	}
	copy(h.Points[:], points)
	return h, nil
}

// RawHand is one hand as reported by a tracker: a landmark list with the
// handedness label and detection score. An empty point list means no hand.
type RawHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness,omitempty"`
	Score      float64   `json:"score,omitempty"`
}

// Landmarks validates the point list and builds the landmark set.
func (r RawHand) Landmarks() (HandLandmarks, error) {
	return FromPoints(r.Points, r.Handedness, r.Score)
}
