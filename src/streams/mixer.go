package streams

import (
	"math"
	"sync"

	"github.com/faiface/beep"

	"tjweldon/runbeat/src/clock"
	"tjweldon/runbeat/src/util"
)

type entry struct {
	start int
	seq   int
	clock.Event
}

// Timeline is a beep.Streamer that mixes voices starting at exact sample
// positions. The number of samples it has streamed is the audio clock, so it
// also implements clock.Source.
type Timeline struct {
	mu         sync.Mutex
	format     beep.Format
	pos        int
	seq        int
	maxPerKind int
	voices     []*entry
	scratch    [][2]float64
	dropped    int
}

// NewTimeline returns an empty timeline. maxPerKind bounds how many voices of
// one kind may be alive at once; zero means unbounded.
func NewTimeline(format beep.Format, maxPerKind int) *Timeline {
	return &Timeline{format: format, maxPerKind: maxPerKind}
}

// Now is the time in seconds of the next sample to be streamed
func (t *Timeline) Now() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(t.pos) / float64(t.format.SampleRate)
}

// ScheduleAt starts e.Streamer at time at. Times in the past start on the
// next streamed sample.
func (t *Timeline) ScheduleAt(at float64, e clock.Event) {
	if e.Streamer == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	logger := logger.Ctx("Timeline.ScheduleAt").Vol(util.Quieter)

	start := t.pos
	if util.Finite(at) {
		if s := int(math.Round(at * float64(t.format.SampleRate))); s > start {
			start = s
		}
	}

	if t.maxPerKind > 0 && t.countLocked(e.Kind) >= t.maxPerKind {
		t.dropLocked(e.Kind)
	}

	t.seq++
	t.voices = append(t.voices, &entry{start: start, seq: t.seq, Event: e})
	if logger.Enabled() {
		logger.Log(e.Kind, "at sample", start, "live voices", len(t.voices))
	}
}

func (t *Timeline) countLocked(kind string) (n int) {
	for _, v := range t.voices {
		if v.Kind == kind {
			n++
		}
	}
	return n
}

// dropLocked removes the quietest voice of kind, the oldest among equals
func (t *Timeline) dropLocked(kind string) {
	victim := -1
	for i, v := range t.voices {
		if v.Kind != kind {
			continue
		}
		if victim < 0 || v.Peak < t.voices[victim].Peak ||
			(v.Peak == t.voices[victim].Peak && v.seq < t.voices[victim].seq) {
			victim = i
		}
	}
	if victim >= 0 {
		t.voices = append(t.voices[:victim], t.voices[victim+1:]...)
		t.dropped++
		logger.Ctx("Timeline.drop").Vol(util.Quiet).Log("voice cap reached for", kind)
	}
}

// Stream mixes every voice that overlaps this block. It never runs dry: with
// no voices it produces silence and the clock keeps moving.
func (t *Timeline) Stream(samples [][2]float64) (n int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	zero(samples)
	if cap(t.scratch) < len(samples) {
		t.scratch = make([][2]float64, len(samples))
	}
	end := t.pos + len(samples)

	live := t.voices[:0]
	for _, v := range t.voices {
		if v.start >= end {
			live = append(live, v)
			continue
		}
		offset := 0
		if v.start > t.pos {
			offset = v.start - t.pos
		}
		want := len(samples) - offset
		buf := t.scratch[:want]
		got, more := v.Streamer.Stream(buf)
		addInto(samples[offset:offset+got], buf[:got])
		if more && got == want {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(t.voices); i++ {
		t.voices[i] = nil
	}
	t.voices = live
	t.pos = end

	return len(samples), true
}

func (t *Timeline) Err() error { return nil }

// Active is the number of voices waiting or playing
func (t *Timeline) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.voices)
}

// ActiveKind is the number of voices of one kind waiting or playing
func (t *Timeline) ActiveKind(kind string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.countLocked(kind)
}

// Dropped counts voices discarded by the per-kind cap
func (t *Timeline) Dropped() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped
}
