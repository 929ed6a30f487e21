// Package app wires the camera, hand tracker, classifier and event log
// into the running mudra application.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/events"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

var (
	// ErrCameraUnavailable wraps any failure to open the camera.
	ErrCameraUnavailable = errors.New("camera unavailable")

	// ErrDetectionDisabled is returned when frames are submitted while
	// detection is switched off.
	ErrDetectionDisabled = errors.New("detection disabled")
)

// subscriberBuffer is how many updates a slow subscriber may fall behind
// before updates to it are dropped.
const subscriberBuffer = 16

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	CameraID int

	// Camera and Detector override the real devices, mainly for tests.
	Camera   capture.Camera
	Detector detector.Detector

	// Logf receives operational messages. Defaults to log.Printf.
	Logf func(format string, args ...any)

	// Now supplies frame timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Update is pushed to subscribers after every processed frame or control
// change.
type Update struct {
	Display Display        `json:"display"`
	Entries []events.Entry `json:"entries"`

	// Cleared is set when the log was emptied; Entries then holds the
	// whole new log.
	Cleared bool `json:"cleared,omitempty"`
}

// App owns the gesture event state. Every frame is processed under a single
// mutex so the debouncer and log see frames one at a time, whichever
// goroutine submits them.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	logf     func(format string, args ...any)
	now      func() time.Time

	mu        sync.Mutex
	debouncer *events.Debouncer
	display   Display
	fps       fpsMeter
	subs      map[int]chan Update
	nextSub   int

	// lifecycle serializes Start and Stop without holding mu while the
	// pipeline drains.
	lifecycle sync.Mutex
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// New creates a new App. Tracker options are loaded from the store when
// one is configured.
func New(config Config) *App {
	a := &App{
		config:    config,
		camera:    config.Camera,
		detector:  config.Detector,
		logf:      config.Logf,
		now:       config.Now,
		debouncer: events.NewDebouncer(),
		subs:      make(map[int]chan Update),
	}
	if a.logf == nil {
		a.logf = log.Printf
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.camera == nil {
		a.camera = capture.NewCamera(config.CameraID)
	}

	tracker := detector.DefaultConfig()
	if config.Store != nil {
		cfg, err := config.Store.Settings().Tracker()
		if err != nil {
			a.logf("Failed to load tracker options, using defaults: %v", err)
		}
		tracker = cfg
	}

	if a.detector == nil {
		// Try MediaPipe first, fall back to mock detector
		if mp, err := detector.NewMediaPipeDetector(tracker); err == nil {
			a.detector = mp
			a.logf("Using MediaPipe hand detection")
		} else {
			a.logf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}
	if err := a.detector.Configure(tracker); err != nil {
		a.logf("Failed to configure detector: %v", err)
	}

	a.display = Display{
		Gesture:   "-",
		Color:     gesture.ColorGray,
		Proximity: "-",
		Enabled:   true,
		SessionID: uuid.NewString(),
		Tracker:   tracker,
	}

	return a
}

// ProcessHands classifies one frame of tracker output, updates the display
// and logs whatever the debouncer lets through. The logged entries are
// returned.
func (a *App) ProcessHands(now time.Time, hands []detector.HandLandmarks) ([]events.Entry, error) {
	results := make([]gesture.Result, len(hands))
	for i := range hands {
		results[i] = gesture.Analyze(&hands[i])
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.display.Enabled {
		return nil, ErrDetectionDisabled
	}

	emitted := a.debouncer.Observe(now, results)
	a.display.setHands(hands, results)
	a.display.FPS = a.fps.tick(now)
	a.notifyLocked(emitted)

	return emitted, nil
}

// ProcessPoints is ProcessHands for raw tracker output, as submitted over
// HTTP. Hands with no points are treated as absent and hands beyond the
// tracker's MaxHands are ignored. A point list of any length other than 0
// or 21 rejects the whole frame before any state changes.
func (a *App) ProcessPoints(now time.Time, frame []detector.RawHand) ([]events.Entry, error) {
	maxHands := a.TrackerOptions().MaxHands
	hands := make([]detector.HandLandmarks, 0, len(frame))
	for i, raw := range frame {
		if len(raw.Points) == 0 {
			continue
		}
		h, err := raw.Landmarks()
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		hands = append(hands, h)
	}
	if len(hands) > maxHands {
		hands = hands[:maxHands]
	}
	return a.ProcessHands(now, hands)
}

// State returns a copy of the current display state.
func (a *App) State() Display {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.display.clone()
}

// Entries returns up to limit log entries, most recent first. limit <= 0
// returns the whole log.
func (a *App) Entries(limit int) []events.Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.debouncer.Log().Recent(limit)
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.display.Enabled == enabled {
		return
	}
	a.display.Enabled = enabled

	msg := "Detection disabled"
	if enabled {
		msg = "Detection enabled"
	}
	a.noteLocked(msg)
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.display.Enabled
}

// SetTrackerOptions validates, applies and persists new tracker options.
func (a *App) SetTrackerOptions(cfg detector.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := a.detector.Configure(cfg); err != nil {
		return fmt.Errorf("configure tracker: %w", err)
	}
	if a.config.Store != nil {
		if err := a.config.Store.Settings().SetTracker(cfg); err != nil {
			return fmt.Errorf("save tracker options: %w", err)
		}
	}

	a.applyTracker(cfg)
	return nil
}

// ResetTrackerOptions drops the saved tracker options and goes back to
// detector.DefaultConfig. It returns store.ErrNotFound when no options were
// saved.
func (a *App) ResetTrackerOptions() error {
	if a.config.Store != nil {
		if err := a.config.Store.Settings().Delete(store.TrackerKey); err != nil {
			return fmt.Errorf("reset tracker options: %w", err)
		}
	}

	cfg := detector.DefaultConfig()
	if err := a.detector.Configure(cfg); err != nil {
		return fmt.Errorf("configure tracker: %w", err)
	}
	a.applyTracker(cfg)
	return nil
}

func (a *App) applyTracker(cfg detector.Config) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev := a.display.Tracker
	a.display.Tracker = cfg
	if prev.MaxHands != cfg.MaxHands {
		a.noteLocked(fmt.Sprintf("Max hands set to %d", cfg.MaxHands))
	} else {
		a.notifyLocked(nil)
	}
}

// TrackerOptions returns the tracker options in effect.
func (a *App) TrackerOptions() detector.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.display.Tracker
}

// ClearLog empties the event log, leaving a "Log cleared" marker.
func (a *App) ClearLog() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.debouncer.Log().Clear(a.now())
	a.sendLocked(Update{
		Display: a.display.clone(),
		Entries: a.debouncer.Log().Entries(),
		Cleared: true,
	})
}

// ExportLog returns the export filename and the log rendered oldest first.
func (a *App) ExportLog() (string, []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return events.ExportFilename(a.now()), a.debouncer.Log().Export()
}

// SubscribeWithSnapshot registers for updates and returns the current
// display and the whole log, oldest first. Both are taken under the lock
// that registers the subscriber, so every entry is in exactly one of the
// snapshot or a later update. The returned function unsubscribes and closes
// the channel. Updates are dropped for subscribers that fall behind.
func (a *App) SubscribeWithSnapshot() (Update, <-chan Update, func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	snapshot := Update{
		Display: a.display.clone(),
		Entries: a.debouncer.Log().Entries(),
	}

	id := a.nextSub
	a.nextSub++
	ch := make(chan Update, subscriberBuffer)
	a.subs[id] = ch

	var once sync.Once
	return snapshot, ch, func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			delete(a.subs, id)
			close(ch)
		})
	}
}

// Close stops the camera and releases the hand tracker.
func (a *App) Close() error {
	a.Stop()
	return a.detector.Close()
}

// recordError surfaces a collaborator failure without touching event state.
func (a *App) recordError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.display.LastError = err.Error()
	a.notifyLocked(nil)
}

func (a *App) noteLocked(msg string) {
	e := a.debouncer.Note(a.now(), msg)
	a.notifyLocked([]events.Entry{e})
}

func (a *App) notifyLocked(entries []events.Entry) {
	if len(a.subs) == 0 {
		return
	}
	a.sendLocked(Update{Display: a.display.clone(), Entries: entries})
}

func (a *App) sendLocked(u Update) {
	for _, ch := range a.subs {
		select {
		case ch <- u:
		default:
		}
	}
}
