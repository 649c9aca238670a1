// Package clock holds the time sources the sequencer runs against: an audio
// domain clock that can play a voice at an exact time, and a coarse timer used
// for polling.
package clock

import (
	"time"

	"github.com/faiface/beep"
)

// Clock reports monotonically increasing audio time in seconds
type Clock interface {
	Now() float64
}

// Event is one voice handed to a Source. Kind groups voices for the per-kind
// cap, Peak ranks them when one has to be dropped.
type Event struct {
	Kind     string
	Streamer beep.Streamer
	Peak     float64
}

// Source is a Clock that can start a voice at an exact time on itself.
// Events scheduled in the past start immediately.
type Source interface {
	Clock
	ScheduleAt(t float64, e Event)
}

// Stopper cancels a pending callback. *time.Timer satisfies it.
type Stopper interface {
	Stop() bool
}

// Timer runs f once after d has elapsed
type Timer interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

// Wall is the real-time Timer
type Wall struct{}

func (Wall) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}
