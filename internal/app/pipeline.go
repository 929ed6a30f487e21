package app

import (
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/capture"
)

// Start opens the camera and begins feeding frames to the tracker. It is a
// no-op when the pipeline is already running. A camera failure is wrapped
// in ErrCameraUnavailable and shown as the display error; the event log
// and debouncer are left as they were.
func (a *App) Start() error {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		err = fmt.Errorf("%w: %w", ErrCameraUnavailable, err)
		a.logf("Failed to start camera: %v", err)
		a.recordError(err)
		return err
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.mu.Lock()
	a.display.CameraRunning = true
	a.display.LastError = ""
	a.noteLocked("Camera started")
	a.mu.Unlock()

	a.logf("Detection pipeline started")
	return nil
}

// Stop halts the pipeline and releases the camera. Stopping a pipeline
// that is not running does nothing.
func (a *App) Stop() {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()

	if a.stopCh == nil {
		return
	}

	// The pipeline takes mu for every frame, so wait for it unlocked.
	close(a.stopCh)
	<-a.doneCh
	a.stopCh = nil
	a.doneCh = nil

	if err := a.camera.Close(); err != nil {
		a.logf("Error closing camera: %v", err)
	}

	a.mu.Lock()
	a.display.CameraRunning = false
	a.display.FPS = 0
	a.fps.reset()
	a.noteLocked("Camera stopped")
	a.mu.Unlock()

	a.logf("Detection pipeline stopped")
}

// Running reports whether the capture pipeline is active.
func (a *App) Running() bool {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()
	return a.stopCh != nil
}

// frameInterval is the ticker period for the camera's frame rate.
func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

// runPipeline is the capture loop: read a frame, run the tracker, process
// the hands. Read and tracker errors are logged and shown on the display
// but never reach the debouncer, so a flaky tracker cannot produce a
// spurious "No hand".
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	fps := a.camera.FPS()
	ticker := time.NewTicker(frameInterval(fps))
	defer ticker.Stop()

	failing := false

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if detection is disabled
			if !a.IsEnabled() {
				continue
			}

			if current := a.camera.FPS(); current != fps {
				fps = current
				ticker.Reset(frameInterval(fps))
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				if !failing {
					a.logf("Error reading frame: %v", err)
				}
				failing = true
				a.recordError(fmt.Errorf("read frame: %w", err))
				continue
			}

			hands, err := a.detector.Detect(frame)
			frame.Close()

			if err != nil {
				if !failing {
					a.logf("Error detecting hands: %v", err)
				}
				failing = true
				a.recordError(fmt.Errorf("detect hands: %w", err))
				continue
			}

			if failing {
				a.logf("Hand tracking recovered")
				failing = false
				a.clearError()
			}

			// ErrDetectionDisabled here only means a toggle raced the frame.
			_, _ = a.ProcessHands(a.now(), hands)
		}
	}
}

func (a *App) clearError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.display.LastError = ""
}
