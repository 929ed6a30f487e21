// Package tray provides a system tray menu for mudra.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle   func(enabled bool)
	onCamera   func(running bool)
	onClear    func()
	onExport   func()
	onSettings func()
	onQuit     func()
	enabled    bool
	running    bool
	gesture    string
	proximity  string
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuCamera    *systray.MenuItem
	menuGesture   *systray.MenuItem
	menuProximity *systray.MenuItem
}

// New creates a new Tray with detection enabled and the camera stopped.
func New() *Tray {
	return &Tray{
		enabled:   true,
		gesture:   "-",
		proximity: "-",
	}
}

// OnToggle sets the callback called when detection is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnCamera sets the callback called when the camera item is clicked, with
// the state the user asked for.
func (t *Tray) OnCamera(fn func(running bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCamera = fn
}

// OnClearLog sets the callback called when "Clear log" is clicked.
func (t *Tray) OnClearLog(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnExportLog sets the callback called when "Export log…" is clicked.
func (t *Tray) OnExportLog(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onExport = fn
}

// OnSettings sets the callback called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Detection on"
	}
	return "○ Detection off"
}

func cameraTitle(running bool) string {
	if running {
		return "Stop camera"
	}
	return "Start camera"
}

func gestureTitle(gesture string) string {
	return "Gesture: " + gesture
}

func proximityTitle(names string) string {
	return "Thumb near: " + names
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra hand gesture tracker")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture detection")
	t.menuCamera = systray.AddMenuItem(cameraTitle(t.running), "Start or stop the webcam")
	systray.AddSeparator()

	t.menuGesture = systray.AddMenuItem(gestureTitle(t.gesture), "Current gesture")
	t.menuGesture.Disable()
	t.menuProximity = systray.AddMenuItem(proximityTitle(t.proximity), "Fingers touching the thumb")
	t.menuProximity.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuClear := systray.AddMenuItem("Clear log", "Clear the event log")
	menuExport := systray.AddMenuItem("Export log…", "Save the event log to a text file")
	menuSettings := systray.AddMenuItem("Open settings…", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuCamera.ClickedCh:
				t.handleCamera()
			case <-menuClear.ClickedCh:
				t.call(func() func() { return t.onClear })
			case <-menuExport.ClickedCh:
				t.call(func() func() { return t.onExport })
			case <-menuSettings.ClickedCh:
				t.call(func() func() { return t.onSettings })
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.menuToggle.SetTitle(toggleTitle(enabled))
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleCamera asks for the opposite of the current camera state. The menu
// title follows SetStatus, so a camera that fails to start keeps showing
// "Start camera".
func (t *Tray) handleCamera() {
	t.mu.RLock()
	want := !t.running
	callback := t.onCamera
	t.mu.RUnlock()

	if callback != nil {
		callback(want)
	}
}

// call runs the callback picked under the read lock.
func (t *Tray) call(pick func() func()) {
	t.mu.RLock()
	callback := pick()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.call(func() func() { return t.onQuit })
	systray.Quit()
}

// Status is the live state mirrored in the menu.
type Status struct {
	Gesture       string
	Proximity     string
	Enabled       bool
	CameraRunning bool
}

// SetStatus updates the menu from the application's display state.
func (t *Tray) SetStatus(s Status) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gesture = s.Gesture
	t.proximity = s.Proximity
	t.enabled = s.Enabled
	t.running = s.CameraRunning

	// Menu items exist only once the tray is ready
	if t.menuGesture == nil {
		return
	}
	t.menuGesture.SetTitle(gestureTitle(s.Gesture))
	t.menuProximity.SetTitle(proximityTitle(s.Proximity))
	t.menuToggle.SetTitle(toggleTitle(s.Enabled))
	t.menuCamera.SetTitle(cameraTitle(s.CameraRunning))
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
