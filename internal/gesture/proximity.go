package gesture

import (
	"fmt"
	"math"
	"strings"

	"github.com/ayusman/mudra/internal/detector"
)

// Proximity tuning. The threshold is proportional to hand size with an
// absolute floor so a distant hand does not shrink it to nothing.
const (
	defaultHandScale  = 0.15
	minNearThreshold  = 0.04
	nearThresholdRate = 0.28
)

// Finger names a non-thumb finger.
type Finger int

const (
	Index Finger = iota
	Middle
	Ring
	Pinky
)

var fingerNames = [...]string{"Index", "Middle", "Ring", "Pinky"}

var fingerTips = [...]int{detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}

func (f Finger) String() string {
	if f >= Index && f <= Pinky {
		return fingerNames[f]
	}
	return fmt.Sprintf("Finger(%d)", int(f))
}

// MarshalText encodes the finger as its name.
func (f Finger) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText parses a finger name.
func (f *Finger) UnmarshalText(b []byte) error {
	for i, n := range fingerNames {
		if n == string(b) {
			*f = Finger(i)
			return nil
		}
	}
	return fmt.Errorf("unknown finger %q", b)
}

// Near is a finger whose tip is within the threshold of the thumb tip.
type Near struct {
	Finger   Finger  `json:"finger"`
	Distance float64 `json:"distance"`
}

// Report lists the fingers near the thumb, in index-to-pinky order, and the
// threshold used to decide.
type Report struct {
	Near      []Near  `json:"near"`
	Threshold float64 `json:"threshold"`
}

// Names joins the near finger names with ", ", or returns "None".
func (r Report) Names() string {
	if len(r.Near) == 0 {
		return "None"
	}
	names := make([]string, len(r.Near))
	for i, n := range r.Near {
		names[i] = n.Finger.String()
	}
	return strings.Join(names, ", ")
}

// Has reports whether f is in the near set.
func (r Report) Has(f Finger) bool {
	for _, n := range r.Near {
		if n.Finger == f {
			return true
		}
	}
	return false
}

// Threshold returns the near distance for a hand: 0.28 times the
// wrist to middle-MCP distance, never below 0.04. A degenerate hand with
// zero scale uses 0.15 as its scale.
func Threshold(points []detector.Point3D) float64 {
	if len(points) < detector.NumLandmarks {
		return 0
	}
	scale := Distance(points[detector.Wrist], points[detector.MiddleMCP])
	if scale == 0 {
		scale = defaultHandScale
	}
	return math.Max(minNearThreshold, nearThresholdRate*scale)
}

// Proximity reports which fingertips are within the threshold of the thumb
// tip. An empty landmark set yields an empty report with threshold 0.
func Proximity(points []detector.Point3D) (Report, error) {
	if err := detector.CheckLandmarks(points); err != nil {
		return Report{}, err
	}
	if len(points) == 0 {
		return Report{}, nil
	}
	return proximity(points), nil
}

func proximity(points []detector.Point3D) Report {
	threshold := Threshold(points)
	thumb := points[detector.ThumbTip]

	var near []Near
	for i, tip := range fingerTips {
		d := Distance(thumb, points[tip])
		if d <= threshold {
			near = append(near, Near{Finger: Finger(i), Distance: d})
		}
	}

	return Report{Near: near, Threshold: threshold}
}
