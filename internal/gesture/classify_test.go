package gesture

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

const epsilon = 1e-9

// scaleHand shrinks or grows a hand about its wrist.
func scaleHand(h detector.HandLandmarks, k float64) detector.HandLandmarks {
	w := h.Points[detector.Wrist]
	for i := range h.Points {
		p := h.Points[i]
		h.Points[i] = detector.Point3D{
			X: w.X + (p.X-w.X)*k,
			Y: w.Y + (p.Y-w.Y)*k,
			Z: w.Z + (p.Z-w.Z)*k,
		}
	}
	return h
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b detector.Point3D
		want float64
	}{
		{name: "same point", a: detector.Point3D{X: 0.3, Y: 0.3}, b: detector.Point3D{X: 0.3, Y: 0.3}, want: 0},
		{name: "planar 3-4-5", a: detector.Point3D{}, b: detector.Point3D{X: 0.3, Y: 0.4}, want: 0.5},
		{name: "depth counts", a: detector.Point3D{}, b: detector.Point3D{X: 0.2, Y: 0.3, Z: 0.6}, want: 0.7},
		{name: "symmetric", a: detector.Point3D{X: 0.2, Y: 0.3, Z: 0.6}, b: detector.Point3D{}, want: 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); math.Abs(got-tt.want) > epsilon {
				t.Errorf("Distance() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCountExtended(t *testing.T) {
	t.Run("empty set counts zero", func(t *testing.T) {
		n, err := CountExtended(nil)
		if err != nil || n != 0 {
			t.Errorf("CountExtended(nil) = %d, %v; want 0, nil", n, err)
		}
	})

	t.Run("presets", func(t *testing.T) {
		tests := []struct {
			name string
			hand detector.HandLandmarks
			want int
		}{
			{"open palm", detector.OpenPalmLandmarks(), 4},
			{"thumbs up", detector.ThumbsUpLandmarks(), 0},
			{"fist", detector.FistLandmarks(), 0},
			{"OK sign", detector.OKSignLandmarks(), 3},
		}
		for _, tt := range tests {
			n, err := CountExtended(tt.hand.Points[:])
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tt.name, err)
			}
			if n != tt.want {
				t.Errorf("%s: CountExtended() = %d, want %d", tt.name, n, tt.want)
			}
		}
	})

	t.Run("tip level with PIP is not extended", func(t *testing.T) {
		h := detector.OpenPalmLandmarks()
		h.Points[detector.IndexTip].Y = h.Points[detector.IndexPIP].Y
		n, _ := CountExtended(h.Points[:])
		if n != 3 {
			t.Errorf("CountExtended() = %d, want 3", n)
		}
	})

	t.Run("incomplete set errors", func(t *testing.T) {
		_, err := CountExtended(make([]detector.Point3D, 9))
		if !errors.Is(err, detector.ErrIncompleteLandmarks) {
			t.Errorf("expected ErrIncompleteLandmarks, got %v", err)
		}
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Label
	}{
		{"open palm", detector.OpenPalmLandmarks(), OpenPalm},
		{"thumbs up", detector.ThumbsUpLandmarks(), ThumbsUp},
		{"fist", detector.FistLandmarks(), Fist},
		{"three fingers is unknown", detector.OKSignLandmarks(), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.hand.Points[:])
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("no landmarks is NoHand", func(t *testing.T) {
		got, err := Classify([]detector.Point3D{})
		if err != nil || got != NoHand {
			t.Errorf("Classify(empty) = %v, %v; want NoHand, nil", got, err)
		}
	})

	t.Run("incomplete set fails fast", func(t *testing.T) {
		h := detector.OpenPalmLandmarks()
		_, err := Classify(h.Points[:detector.MiddleMCP+1])
		if !errors.Is(err, detector.ErrIncompleteLandmarks) {
			t.Errorf("expected ErrIncompleteLandmarks, got %v", err)
		}
	})

	t.Run("two extended fingers is unknown", func(t *testing.T) {
		h := detector.OpenPalmLandmarks()
		h.Points[detector.RingTip].Y = 0.70
		h.Points[detector.PinkyTip].Y = 0.72
		if got := classifyHand(t, h); got != Unknown {
			t.Errorf("Classify() = %v, want Unknown", got)
		}
	})

	t.Run("one extended finger with thumb raised is thumbs up", func(t *testing.T) {
		h := detector.ThumbsUpLandmarks()
		h.Points[detector.IndexTip].Y = 0.60
		if got := classifyHand(t, h); got != ThumbsUp {
			t.Errorf("Classify() = %v, want ThumbsUp", got)
		}
	})
}

func classifyHand(t *testing.T, h detector.HandLandmarks) Label {
	t.Helper()
	l, err := Classify(h.Points[:])
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	return l
}

func TestClassify_OpenPalmIgnoresThumb(t *testing.T) {
	thumbs := []detector.Point3D{
		{X: 0.73, Y: 0.60},
		{X: 0.58, Y: 0.20},
		{X: 0.50, Y: 0.95},
		{X: 0.40, Y: 0.80},
	}
	for _, thumb := range thumbs {
		h := detector.OpenPalmLandmarks()
		h.Points[detector.ThumbTip] = thumb
		n, _ := CountExtended(h.Points[:])
		if n != 4 {
			t.Fatalf("CountExtended() = %d, want 4", n)
		}
		if got := classifyHand(t, h); got != OpenPalm {
			t.Errorf("thumb at %+v: Classify() = %v, want OpenPalm", thumb, got)
		}
	}
}

func TestClassify_TranslationInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	presets := []detector.HandLandmarks{
		detector.OpenPalmLandmarks(),
		detector.ThumbsUpLandmarks(),
		detector.FistLandmarks(),
		detector.OKSignLandmarks(),
	}

	for _, h := range presets {
		want := classifyHand(t, h)
		for i := 0; i < 50; i++ {
			offset := detector.Point3D{
				X: rng.Float64() - 0.5,
				Y: rng.Float64() - 0.5,
				Z: rng.Float64()*0.2 - 0.1,
			}
			if got := classifyHand(t, h.Translate(offset)); got != want {
				t.Errorf("offset %+v: Classify() = %v, want %v", offset, got, want)
			}
		}
	}
}

func TestClassify_ThumbMarginIsAbsolute(t *testing.T) {
	base := detector.FistLandmarks()
	wristY := base.Points[detector.Wrist].Y

	t.Run("just above margin", func(t *testing.T) {
		h := base
		h.Points[detector.ThumbTip].Y = wristY - 0.051
		if got := classifyHand(t, h); got != ThumbsUp {
			t.Errorf("Classify() = %v, want ThumbsUp", got)
		}
	})

	t.Run("just below margin", func(t *testing.T) {
		h := base
		h.Points[detector.ThumbTip].Y = wristY - 0.049
		if got := classifyHand(t, h); got != Fist {
			t.Errorf("Classify() = %v, want Fist", got)
		}
	})

	// A hand a tenth of the size still needs the full 0.05 lift.
	t.Run("small hand is not rescaled", func(t *testing.T) {
		h := scaleHand(detector.ThumbsUpLandmarks(), 0.1)
		lift := h.Points[detector.Wrist].Y - h.Points[detector.ThumbTip].Y
		if lift >= thumbUpMargin {
			t.Fatalf("test setup: lift %f should be below margin", lift)
		}
		if got := classifyHand(t, h); got != Fist {
			t.Errorf("Classify() = %v, want Fist", got)
		}
	})
}

func TestAnalyze(t *testing.T) {
	t.Run("nil hand", func(t *testing.T) {
		r := Analyze(nil)
		if r.Label != NoHand || len(r.Proximity.Near) != 0 || r.Proximity.Threshold != 0 {
			t.Errorf("Analyze(nil) = %+v, want neutral", r)
		}
	})

	t.Run("OK sign", func(t *testing.T) {
		h := detector.OKSignLandmarks()
		r := Analyze(&h)
		if r.Label != Unknown {
			t.Errorf("Label = %v, want Unknown", r.Label)
		}
		if r.Proximity.Names() != "Index" {
			t.Errorf("Names() = %q, want Index", r.Proximity.Names())
		}
	})

	t.Run("matches Classify and Proximity", func(t *testing.T) {
		h := detector.ThumbsUpLandmarks()
		r := Analyze(&h)
		l, _ := Classify(h.Points[:])
		p, _ := Proximity(h.Points[:])
		if r.Label != l || r.Proximity.Threshold != p.Threshold || r.Proximity.Names() != p.Names() {
			t.Errorf("Analyze() = %+v, want %v / %+v", r, l, p)
		}
	})
}

func TestLabel(t *testing.T) {
	tests := []struct {
		label Label
		name  string
		color string
	}{
		{OpenPalm, "Open Palm", ColorTeal},
		{ThumbsUp, "Thumbs Up", ColorGreen},
		{Fist, "Fist", ColorRed},
		{Unknown, "Unknown", ColorBlue},
		{NoHand, "No hand", ColorGray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.label.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.label.String(), tt.name)
			}
			if tt.label.Color() != tt.color {
				t.Errorf("Color() = %q, want %q", tt.label.Color(), tt.color)
			}

			b, err := json.Marshal(tt.label)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			var back Label
			if err := json.Unmarshal(b, &back); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", b, err)
			}
			if back != tt.label {
				t.Errorf("round trip = %v, want %v", back, tt.label)
			}
		})
	}

	if Label(42).Color() != ColorGray {
		t.Error("unrecognised label should be gray")
	}
}
