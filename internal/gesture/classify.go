package gesture

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/mudra/internal/detector"
)

// thumbUpMargin is how far above the wrist, in normalized image units, the
// thumb tip must be to count as raised. It is absolute and does not scale
// with hand size, unlike the proximity threshold.
const thumbUpMargin = 0.05

// fingerJoints lists tip and PIP indices for index, middle, ring and pinky.
var fingerJoints = [4]struct{ tip, pip int }{
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

// Distance returns the Euclidean distance between two landmarks.
func Distance(a, b detector.Point3D) float64 {
	return r3.Norm(r3.Sub(vec(a), vec(b)))
}

func vec(p detector.Point3D) r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// CountExtended returns how many of the four non-thumb fingers are
// extended. A finger counts as extended when its tip is strictly higher on
// screen (smaller Y) than its PIP joint. This only holds for a roughly
// upright hand; a hand pointing sideways or down will read as curled.
func CountExtended(points []detector.Point3D) (int, error) {
	if err := detector.CheckLandmarks(points); err != nil {
		return 0, err
	}
	if len(points) == 0 {
		return 0, nil
	}
	return countExtended(points), nil
}

func countExtended(points []detector.Point3D) int {
	count := 0
	for _, f := range fingerJoints {
		if points[f.tip].Y < points[f.pip].Y {
			count++
		}
	}
	return count
}

// Classify maps a landmark set to a gesture label. An empty set is NoHand.
// Rules are checked in order and the first match wins:
//
//	4 fingers extended                 -> OpenPalm
//	at most 1 extended and thumb raised -> ThumbsUp
//	at most 1 extended                 -> Fist
//	anything else                      -> Unknown
func Classify(points []detector.Point3D) (Label, error) {
	if err := detector.CheckLandmarks(points); err != nil {
		return NoHand, err
	}
	if len(points) == 0 {
		return NoHand, nil
	}
	return classify(points), nil
}

func classify(points []detector.Point3D) Label {
	extended := countExtended(points)
	thumbUp := points[detector.ThumbTip].Y < points[detector.Wrist].Y-thumbUpMargin

	switch {
	case extended >= 4:
		return OpenPalm
	case extended <= 1 && thumbUp:
		return ThumbsUp
	case extended <= 1:
		return Fist
	default:
		return Unknown
	}
}

// Result is the full per-hand classification for one frame.
type Result struct {
	Label     Label  `json:"gesture"`
	Proximity Report `json:"proximity"`
}

// Analyze classifies a tracked hand. The fixed-size landmark array is
// always complete, so no error is possible.
func Analyze(h *detector.HandLandmarks) Result {
	if h == nil {
		return Result{Label: NoHand}
	}
	points := h.Points[:]
	return Result{
		Label:     classify(points),
		Proximity: proximity(points),
	}
}
