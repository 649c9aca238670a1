package engine

import (
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"

	"tjweldon/runbeat/src/clock"
	"tjweldon/runbeat/src/streams"
	"tjweldon/runbeat/src/util"
)

// Output is somewhere the master bus can be played. Open may fail when the
// host has not granted audio yet; the engine retries on the next Initialize.
type Output interface {
	Open(s beep.Streamer, f beep.Format) error
	Close() error
}

// Speaker plays through the default audio device
type Speaker struct {
	// Buffer is the device latency, 50ms when zero
	Buffer time.Duration

	mu   sync.Mutex
	rate beep.SampleRate
}

func (s *Speaker) Open(st beep.Streamer, f beep.Format) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rate != f.SampleRate {
		buffer := s.Buffer
		if buffer <= 0 {
			buffer = 50 * time.Millisecond
		}
		if err := speaker.Init(f.SampleRate, f.SampleRate.N(buffer)); err != nil {
			return errors.Wrap(err, "initialising speaker")
		}
		s.rate = f.SampleRate
	}
	speaker.Play(st)
	return nil
}

// Close silences the device. It stays initialised so a later Open is cheap.
func (s *Speaker) Close() error {
	speaker.Clear()
	return nil
}

// Offline renders faster than real time. Its Manual timer stands in for the
// wall clock, and Render moves the timer and the audio in lockstep so the
// scheduler sees the same timing it would live.
type Offline struct {
	// Quantum is how much audio each Render step pulls, 10ms when zero
	Quantum time.Duration
	// Fail, when set, is returned by Open
	Fail error

	mu    sync.Mutex
	timer *clock.Manual
	rec   *streams.Recorder
}

// NewOffline returns an offline output with its own simulated timer
func NewOffline() *Offline {
	return &Offline{timer: clock.NewManual(0)}
}

// Timer is the simulated timer to hand the engine with WithTimer
func (o *Offline) Timer() *clock.Manual { return o.timer }

func (o *Offline) Open(s beep.Streamer, f beep.Format) error {
	if o.Fail != nil {
		return o.Fail
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.rec == nil {
		o.rec = streams.NewRecorder(s, f)
	} else {
		o.rec.Incoming = s
	}
	return nil
}

// Close detaches the bus. Rendering carries on recording silence, the same
// as a device that has been suspended.
func (o *Offline) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.rec != nil {
		o.rec.Incoming = beep.Silence(-1)
	}
	return nil
}

func (o *Offline) quantum() time.Duration {
	if o.Quantum <= 0 {
		return 10 * time.Millisecond
	}
	return o.Quantum
}

// Render advances the session by d, firing due timers before each quantum
// of audio is pulled
func (o *Offline) Render(d time.Duration) {
	q := o.quantum()
	logger := logger.Ctx("Offline.Render").Vol(util.Quiet)
	for done := time.Duration(0); done < d; done += q {
		o.timer.Advance(q)
		o.mu.Lock()
		if o.rec != nil {
			o.rec.Pull(q)
		}
		o.mu.Unlock()
	}
	logger.Log("rendered", d, "total", o.Duration())
}

// Buffer is everything rendered so far, nil before the first Open
func (o *Offline) Buffer() *beep.Buffer {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.rec == nil {
		return nil
	}
	return o.rec.Buffer()
}

// Duration is the length of audio rendered so far
func (o *Offline) Duration() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.rec == nil {
		return 0
	}
	return o.rec.Duration()
}

// Trim plays through Output with the volume shifted by Volume doublings
type Trim struct {
	Output
	Volume float64
}

func (t Trim) Open(s beep.Streamer, f beep.Format) error {
	return t.Output.Open(&effects.Volume{Streamer: s, Base: 2, Volume: t.Volume, Silent: t.Volume <= -10}, f)
}
