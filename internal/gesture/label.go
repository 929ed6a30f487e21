// Package gesture classifies a single frame's hand landmarks into a coarse
// gesture label and a thumb proximity report. Every function here is pure:
// the result depends only on the landmarks passed in.
package gesture

import "fmt"

// Label is the gesture recognised for one hand in one frame.
type Label int

const (
	NoHand Label = iota
	OpenPalm
	ThumbsUp
	Fist
	Unknown
)

var labelNames = map[Label]string{
	NoHand:   "No hand",
	OpenPalm: "Open Palm",
	ThumbsUp: "Thumbs Up",
	Fist:     "Fist",
	Unknown:  "Unknown",
}

// Indicator colours shown next to the current gesture.
const (
	ColorTeal  = "#0ea5a5"
	ColorGreen = "#10b981"
	ColorRed   = "#ef4444"
	ColorBlue  = "#60a5fa"
	ColorGray  = "#6b7280"
)

func (l Label) String() string {
	if n, ok := labelNames[l]; ok {
		return n
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

// Color returns the indicator colour for the label. NoHand and anything
// unrecognised map to gray.
func (l Label) Color() string {
	switch l {
	case OpenPalm:
		return ColorTeal
	case ThumbsUp:
		return ColorGreen
	case Fist:
		return ColorRed
	case Unknown:
		return ColorBlue
	default:
		return ColorGray
	}
}

// MarshalText encodes the label as its display name.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses a display name produced by MarshalText.
func (l *Label) UnmarshalText(b []byte) error {
	for k, v := range labelNames {
		if v == string(b) {
			*l = k
			return nil
		}
	}
	return fmt.Errorf("unknown gesture label %q", b)
}
