package events

import (
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

const (
	// GestureInterval is how long a steady gesture goes before it is
	// logged again, confirming the tracker is still live.
	GestureInterval = 1000 * time.Millisecond

	// NoHandInterval is the minimum time since the last gesture event
	// before losing the hand is reported.
	NoHandInterval = 800 * time.Millisecond
)

// signal is the last emitted value of one tracked stream. The zero value
// is the Unset state.
type signal[T comparable] struct {
	set   bool
	value T
	at    time.Time
}

func (s *signal[T]) observe(v T, now time.Time) {
	s.set = true
	s.value = v
	s.at = now
}

// elapsed reports whether more than d passed since the last emission.
// An unset signal has always elapsed.
func (s *signal[T]) elapsed(now time.Time, d time.Duration) bool {
	return !s.set || now.Sub(s.at) > d
}

// slot holds the debounce state for one tracked hand position.
type slot struct {
	gesture   signal[gesture.Label]
	proximity signal[string]
}

// Debouncer decides which classifier results are worth logging. Each hand
// position in the frame (first hand, second hand, ...) is debounced on its
// own so two hands with different gestures do not trigger each other.
// A Debouncer is not safe for concurrent use.
type Debouncer struct {
	log   *Log
	slots []slot
}

// NewDebouncer creates a debouncer writing to a fresh Log.
func NewDebouncer() *Debouncer {
	return &Debouncer{log: NewLog()}
}

// Log returns the log the debouncer writes to.
func (d *Debouncer) Log() *Log {
	return d.log
}

// Reset returns every tracked signal to Unset. The log is kept.
func (d *Debouncer) Reset() {
	d.slots = nil
}

// Note appends a free-form message such as a camera lifecycle event.
func (d *Debouncer) Note(now time.Time, msg string) Entry {
	e := Entry{Time: now, Message: msg}
	d.log.Append(e)
	return e
}

// Observe feeds one frame of classifier output and returns the entries it
// logged. An empty results slice means no hand was detected.
func (d *Debouncer) Observe(now time.Time, results []gesture.Result) []Entry {
	if len(results) == 0 {
		return d.observeNoHand(now)
	}

	for len(d.slots) < len(results) {
		d.slots = append(d.slots, slot{})
	}
	// Positions no longer filled start over when a hand returns.
	for i := len(results); i < len(d.slots); i++ {
		d.slots[i] = slot{}
	}

	var emitted []Entry
	for i, r := range results {
		s := &d.slots[i]

		if !s.gesture.set || s.gesture.value != r.Label || s.gesture.elapsed(now, GestureInterval) {
			emitted = append(emitted, d.Note(now, handPrefix(i)+"Detected: "+r.Label.String()))
			s.gesture.observe(r.Label, now)
		}

		names := r.Proximity.Names()
		if !s.proximity.set || s.proximity.value != names {
			emitted = append(emitted, d.Note(now, handPrefix(i)+"Thumb near: "+names))
			s.proximity.observe(names, now)
		}
	}

	return emitted
}

func (d *Debouncer) observeNoHand(now time.Time) []Entry {
	if len(d.slots) == 0 {
		d.slots = append(d.slots, slot{})
	}

	var emitted []Entry
	primary := &d.slots[0]
	if (!primary.gesture.set || primary.gesture.value != gesture.NoHand) && primary.gesture.elapsed(now, NoHandInterval) {
		emitted = append(emitted, d.Note(now, gesture.NoHand.String()))
		primary.gesture.observe(gesture.NoHand, now)
	}

	for i := range d.slots {
		d.slots[i].proximity = signal[string]{}
		if i > 0 {
			d.slots[i].gesture = signal[gesture.Label]{}
		}
	}

	return emitted
}

// handPrefix tags messages for every hand after the first.
func handPrefix(i int) string {
	if i == 0 {
		return ""
	}
	return fmt.Sprintf("[hand %d] ", i+1)
}
