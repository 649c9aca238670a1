package clock

import (
	"sort"
	"sync"
	"time"
)

// Scheduled records an event handed to a Manual source
type Scheduled struct {
	At float64
	Event
}

// Manual is a simulated Source and Timer. Time only moves when Advance is
// called, and pending callbacks fire in due order as it passes them.
type Manual struct {
	mu        sync.Mutex
	now       time.Duration
	seq       int
	timers    []*manualTimer
	scheduled []Scheduled
}

type manualTimer struct {
	m       *Manual
	due     time.Duration
	seq     int
	f       func()
	stopped bool
}

// NewManual returns a Manual clock reading start
func NewManual(start time.Duration) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now.Seconds()
}

func (m *Manual) ScheduleAt(t float64, e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduled = append(m.scheduled, Scheduled{At: t, Event: e})
}

// Scheduled returns a copy of everything handed to ScheduleAt so far
func (m *Manual) Scheduled() []Scheduled {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Scheduled(nil), m.scheduled...)
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Stopper {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, due: m.now + d, seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due == m.timers[j].due {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].due < m.timers[j].due
	})
	return t
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	for i, other := range t.m.timers {
		if other == t {
			t.m.timers = append(t.m.timers[:i], t.m.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Pending is the number of callbacks waiting to fire
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Advance moves time forward by d, firing every callback that falls due on
// the way. Callbacks run without the lock held and may re-arm themselves.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	end := m.now + d
	for len(m.timers) > 0 && m.timers[0].due <= end {
		t := m.timers[0]
		m.timers = m.timers[1:]
		t.stopped = true
		if t.due > m.now {
			m.now = t.due
		}
		m.mu.Unlock()
		t.f()
		m.mu.Lock()
	}
	m.now = end
	m.mu.Unlock()
}
