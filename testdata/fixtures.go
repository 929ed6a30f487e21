// Package testdata provides recorded hand landmark fixtures for tests.
package testdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

//go:embed hands/*.json
var handsFS embed.FS

type handFile struct {
	Handedness string             `json:"handedness"`
	Points     []detector.Point3D `json:"points"`
}

// LoadHand loads a recorded pose as a validated landmark set.
func LoadHand(name string) (detector.HandLandmarks, error) {
	hf, err := loadHandFile(name)
	if err != nil {
		return detector.HandLandmarks{}, err
	}
	h, err := detector.FromPoints(hf.Points, hf.Handedness, 1)
	if err != nil {
		return detector.HandLandmarks{}, fmt.Errorf("hand %s: %w", name, err)
	}
	return h, nil
}

func loadHandFile(name string) (handFile, error) {
	var hf handFile
	data, err := handsFS.ReadFile("hands/" + name + ".json")
	if err != nil {
		return hf, fmt.Errorf("load hand %s: %w", name, err)
	}
	if err := json.Unmarshal(data, &hf); err != nil {
		return hf, fmt.Errorf("decode hand %s: %w", name, err)
	}
	return hf, nil
}

// LoadRaw loads a recorded pose in the shape a tracker reports it.
func LoadRaw(name string) (detector.RawHand, error) {
	hf, err := loadHandFile(name)
	if err != nil {
		return detector.RawHand{}, err
	}
	return detector.RawHand{Points: hf.Points, Handedness: hf.Handedness, Score: 1}, nil
}

// Frame is one step of a recorded session.
type Frame struct {
	At    time.Duration
	Hands []detector.RawHand
}

// LoadSession loads the recorded session: a short sequence of poses with
// a stretch of empty frames in the middle.
func LoadSession() ([]Frame, error) {
	data, err := handsFS.ReadFile("hands/session.json")
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var raw struct {
		Frames []struct {
			TimeMs int64    `json:"t_ms"`
			Poses  []string `json:"poses"`
		} `json:"frames"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	frames := make([]Frame, len(raw.Frames))
	for i, f := range raw.Frames {
		frames[i].At = time.Duration(f.TimeMs) * time.Millisecond
		frames[i].Hands = make([]detector.RawHand, 0, len(f.Poses))
		for _, pose := range f.Poses {
			raw, err := LoadRaw(pose)
			if err != nil {
				return nil, err
			}
			frames[i].Hands = append(frames[i].Hands, raw)
		}
	}
	return frames, nil
}
