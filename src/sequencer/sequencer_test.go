package sequencer

import (
	"math"
	"testing"
	"time"

	"tjweldon/runbeat/src/clock"
	"tjweldon/runbeat/src/tempo"
)

const lookahead = 25 * time.Millisecond

func settings(base tempo.BPM) Settings {
	return Settings{
		BaseBPM:       base,
		Bounds:        tempo.Bounds{Min: 88, Max: 220},
		Lookahead:     lookahead,
		ScheduleAhead: 0.1,
		StartOffset:   0.05,
		Smoothing:     0.1,
	}
}

type emitted struct {
	step   int
	at     float64
	atTime float64 // clock reading when the step was handed over
}

type recorder struct {
	c      clock.Clock
	events []emitted
}

func (r *recorder) emit(step int, at float64) {
	r.events = append(r.events, emitted{step, at, r.c.Now()})
}

func newScheduler(base tempo.BPM) (*Scheduler, *clock.Manual, *recorder) {
	m := clock.NewManual(time.Second)
	r := &recorder{c: m}
	return New(settings(base), m, m, r.emit), m, r
}

func TestFixedTempoSpacing(t *testing.T) {
	s, m, r := newScheduler(120)
	s.Start()
	m.Advance(3 * time.Second)

	if len(r.events) < 20 {
		t.Fatalf("expected steady output, got %d events", len(r.events))
	}
	want := 60.0 / 120 / 4
	for i := 1; i < len(r.events); i++ {
		if d := r.events[i].at - r.events[i-1].at; math.Abs(d-want) > 1e-9 {
			t.Fatalf("event %d: spacing %v, expected %v", i, d, want)
		}
	}
}

func TestStepCyclesWithPeriodSixteen(t *testing.T) {
	for _, bpm := range []tempo.BPM{90, 128, 200} {
		s, m, r := newScheduler(bpm)
		s.Start()
		m.Advance(5 * time.Second)
		for i, e := range r.events {
			if e.step != i%16 {
				t.Fatalf("bpm %v: event %d has step %d", bpm, i, e.step)
			}
		}
	}
}

func TestFirstEventsAt128(t *testing.T) {
	s, m, r := newScheduler(128)
	t0 := m.Now()
	s.Start()
	if len(r.events) < 1 {
		t.Fatal("start should schedule the first step immediately")
	}
	m.Advance(200 * time.Millisecond)
	if got := r.events[0].at; math.Abs(got-(t0+0.05)) > 1e-9 {
		t.Errorf("first event at %v, expected %v", got, t0+0.05)
	}
	if got, want := r.events[1].at, t0+0.05+0.1171875; math.Abs(got-want) > 1e-9 {
		t.Errorf("second event at %v, expected %v", got, want)
	}
}

func TestEventsAreScheduledAheadOfTime(t *testing.T) {
	s, m, r := newScheduler(150)
	s.Start()
	m.Advance(4 * time.Second)
	for i, e := range r.events {
		lead := e.at - e.atTime
		if lead < 0 || lead > 0.1+1e-9 {
			t.Fatalf("event %d handed over %.4fs ahead, outside [0, 0.1]", i, lead)
		}
	}
}

func TestStopHaltsEmission(t *testing.T) {
	s, m, r := newScheduler(120)
	s.Start()
	m.Advance(time.Second)
	s.Stop()
	n := len(r.events)
	m.Advance(5 * time.Second)
	if len(r.events) != n {
		t.Errorf("%d events emitted after stop", len(r.events)-n)
	}
	if m.Pending() != 0 {
		t.Errorf("stop left %d timers armed", m.Pending())
	}
	if s.Running() {
		t.Error("transport still running")
	}
	s.Stop() // stopping twice is a no-op
}

func TestStartTwiceIsIdempotent(t *testing.T) {
	once, m1, r1 := newScheduler(120)
	once.Start()
	m1.Advance(2 * time.Second)

	twice, m2, r2 := newScheduler(120)
	if !twice.Start() {
		t.Fatal("first start should report true")
	}
	if twice.Start() {
		t.Error("second start should report false")
	}
	m2.Advance(2 * time.Second)

	if len(r1.events) != len(r2.events) {
		t.Errorf("double start produced %d events, single start %d", len(r2.events), len(r1.events))
	}
	if m2.Pending() != 1 {
		t.Errorf("expected a single armed poll, got %d", m2.Pending())
	}
}

func TestTempoSmoothing(t *testing.T) {
	s, m, _ := newScheduler(120)
	s.Start()
	s.SetTempo(180)
	for n := 1; n <= 40; n++ {
		m.Advance(lookahead)
		got := float64(s.Transport().BPM)
		want := 180 - 60*math.Pow(0.9, float64(n))
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("after %d ticks: bpm %v, expected %v", n, got, want)
		}
		if got >= 180 {
			t.Fatalf("tempo jumped to the target after %d ticks", n)
		}
	}
}

func TestTempoBounds(t *testing.T) {
	s, m, r := newScheduler(120)
	s.SetTempo(0)
	if got := s.Transport().Target; got != 88 {
		t.Errorf("zero target should clamp to the floor, got %v", got)
	}
	s.SetTempo(tempo.BPM(math.NaN()))
	if got := s.Transport().Target; got != 88 {
		t.Errorf("NaN target should be ignored, got %v", got)
	}
	s.Start()
	m.Advance(30 * time.Second)
	if bpm := s.Transport().BPM; bpm < 88 {
		t.Errorf("tempo fell below the floor: %v", bpm)
	}
	last := r.events[len(r.events)-1].at - r.events[len(r.events)-2].at
	if math.Abs(last-60.0/88/4) > 1e-6 {
		t.Errorf("expected floor tempo spacing, got %v", last)
	}
}

func TestStartWithoutClockDefers(t *testing.T) {
	m := clock.NewManual(0)
	r := &recorder{c: m}
	s := New(settings(120), nil, m, r.emit)
	if s.Start() {
		t.Fatal("start without a clock should be a no-op")
	}
	m.Advance(time.Second)
	if len(r.events) != 0 || m.Pending() != 0 {
		t.Fatal("scheduler ran without a clock")
	}
	s.SetClock(m)
	if !s.Start() {
		t.Fatal("start should succeed once a clock is attached")
	}
	m.Advance(time.Second)
	if len(r.events) == 0 {
		t.Error("no events after attaching the clock")
	}
	s.SetClock(nil)
	if s.Running() {
		t.Error("detaching the clock should stop the transport")
	}
}

func TestRestartResetsTransport(t *testing.T) {
	s, m, r := newScheduler(120)
	s.Start()
	m.Advance(730 * time.Millisecond)
	s.Stop()
	m.Advance(time.Second)
	r.events = nil
	restart := m.Now()
	s.Start()
	if r.events[0].step != 0 {
		t.Errorf("restart should begin at step 0, got %d", r.events[0].step)
	}
	if math.Abs(r.events[0].at-(restart+0.05)) > 1e-9 {
		t.Errorf("restart should begin at now+offset, got %v", r.events[0].at)
	}
}

// jumpClock lets a test move audio time without firing the poll timer
type jumpClock struct{ now float64 }

func (c *jumpClock) Now() float64 { return c.now }

func TestStallSkipsAhead(t *testing.T) {
	timer := clock.NewManual(0)
	c := &jumpClock{}
	r := &recorder{c: c}
	s := New(settings(120), c, timer, r.emit)
	s.Start()
	timer.Advance(lookahead)
	n := len(r.events)
	prev := r.events[n-1].at

	c.now = 10 // host stalled for ten seconds
	timer.Advance(lookahead)

	burst := r.events[n:]
	if len(burst) > 2 {
		t.Errorf("stall caused a burst of %d steps", len(burst))
	}
	for _, e := range burst {
		if e.at < prev || e.at < c.now {
			t.Errorf("event at %v went backwards or into the past", e.at)
		}
		prev = e.at
	}
}
