// Package sequencer drives the 16 step transport. A coarse timer polls every
// Lookahead; each poll hands every step falling inside the ScheduleAhead
// window to the precise audio clock, so timer jitter never reaches the ear.
package sequencer

import (
	"sync"
	"time"

	"tjweldon/runbeat/src/clock"
	"tjweldon/runbeat/src/pattern"
	"tjweldon/runbeat/src/tempo"
	"tjweldon/runbeat/src/util"
)

var logger = util.Logger{}.Ctx("sequencer")

// Transport is the scheduler's view of where the music is
type Transport struct {
	Running       bool
	BPM           tempo.BPM
	BaseBPM       tempo.BPM
	Target        tempo.BPM
	Step          int
	NextEventTime float64
}

// Settings are the scheduler's timing constants
type Settings struct {
	BaseBPM       tempo.BPM
	Bounds        tempo.Bounds
	Lookahead     time.Duration
	ScheduleAhead float64 // seconds
	StartOffset   float64 // seconds
	Smoothing     float64 // alpha per tick
}

// Emit receives one step at its audio clock time
type Emit func(step int, at float64)

// Scheduler owns the Transport. All of its methods are safe to call from any
// goroutine; ticks run to completion under the same lock.
type Scheduler struct {
	mu       sync.Mutex
	settings Settings
	clock    clock.Clock
	timer    clock.Timer
	emit     Emit

	tr      Transport
	pending clock.Stopper
	gen     uint64
}

// New returns a stopped scheduler. The clock may be attached later with
// SetClock; until then Start does nothing.
func New(s Settings, c clock.Clock, timer clock.Timer, emit Emit) *Scheduler {
	base := s.Bounds.Clamp(s.BaseBPM)
	return &Scheduler{
		settings: s,
		clock:    c,
		timer:    timer,
		emit:     emit,
		tr:       Transport{BPM: base, BaseBPM: base, Target: base},
	}
}

// SetClock attaches or detaches (nil) the audio clock. Detaching stops the
// transport.
func (s *Scheduler) SetClock(c clock.Clock) {
	if c == nil {
		s.Stop()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = c
}

// Start begins playback from step 0. It reports whether the transport was
// started; a missing clock or an already running transport is a no-op.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	logger := logger.Ctx("Start").Vol(util.Normal)

	if s.clock == nil {
		logger.Log("no clock attached, deferring")
		return false
	}
	if s.tr.Running {
		return false
	}

	s.gen++
	s.tr.Running = true
	s.tr.Step = 0
	s.tr.NextEventTime = s.clock.Now() + s.settings.StartOffset
	logger.Log("transport running at", float64(s.tr.BPM), "bpm, first step at", s.tr.NextEventTime)

	s.tickLocked()
	return true
}

// Stop halts polling. Voices already handed to the clock play out.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tr.Running {
		return
	}
	s.tr.Running = false
	s.gen++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	logger.Ctx("Stop").Vol(util.Normal).Log("transport stopped at step", s.tr.Step)
}

// SetTempo retargets the live tempo. The transport glides there one
// smoothing step per tick; it never jumps.
func (s *Scheduler) SetTempo(target tempo.BPM) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !util.Finite(float64(target)) {
		return
	}
	s.tr.Target = s.settings.Bounds.Clamp(target)
}

// Transport returns a snapshot of the transport
func (s *Scheduler) Transport() Transport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tr
}

// Running reports whether the transport is running
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tr.Running
}

func (s *Scheduler) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || !s.tr.Running {
		return
	}
	s.tickLocked()
}

func (s *Scheduler) tickLocked() {
	logger := logger.Ctx("tick").Vol(util.Quieter)

	s.tr.BPM = s.settings.Bounds.Clamp(s.tr.BPM.Smooth(s.tr.Target, s.settings.Smoothing))

	now := s.clock.Now()
	horizon := now + s.settings.ScheduleAhead

	// after a stall, rejoin the clock rather than bursting every missed step
	if s.tr.NextEventTime < now-s.settings.ScheduleAhead {
		logger.Vol(util.Normal).Log("transport fell behind by", now-s.tr.NextEventTime, "s, skipping ahead")
		s.tr.NextEventTime = now
	}

	for s.tr.NextEventTime < horizon {
		if logger.Enabled() {
			logger.Log("step", s.tr.Step, "at", s.tr.NextEventTime)
		}
		s.emit(s.tr.Step, s.tr.NextEventTime)
		s.tr.NextEventTime += s.tr.BPM.Sixteenth()
		s.tr.Step = (s.tr.Step + 1) % pattern.Steps
	}

	if s.tr.Running {
		gen := s.gen
		s.pending = s.timer.AfterFunc(s.settings.Lookahead, func() { s.tick(gen) })
	}
}
