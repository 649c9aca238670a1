package streams

import (
	"time"

	"github.com/faiface/beep"

	"tjweldon/runbeat/src/util"
)

// Recorder pulls audio from Incoming in fixed quanta and keeps it in a
// buffer. It is how offline renders move the audio clock: nothing advances
// until a quantum is pulled.
type Recorder struct {
	Incoming beep.Streamer
	Format   beep.Format
	buf      *beep.Buffer
}

// NewRecorder returns a recorder with an empty buffer
func NewRecorder(incoming beep.Streamer, format beep.Format) *Recorder {
	return &Recorder{Incoming: incoming, Format: format, buf: beep.NewBuffer(format)}
}

// Pull renders d worth of audio into the buffer and returns the number of
// samples appended
func (r *Recorder) Pull(d time.Duration) int {
	logger := logger.Ctx("Recorder.Pull").Vol(util.Quieter)
	n := r.Format.SampleRate.N(d)
	before := r.buf.Len()
	r.buf.Append(beep.Take(n, r.Incoming))
	if logger.Enabled() {
		logger.Log("pulled", r.buf.Len()-before, "samples, buffer now", r.buf.Len())
	}
	return r.buf.Len() - before
}

// Buffer is everything pulled so far
func (r *Recorder) Buffer() *beep.Buffer { return r.buf }

// Len is the number of samples pulled so far
func (r *Recorder) Len() int { return r.buf.Len() }

// Duration is the length of audio pulled so far
func (r *Recorder) Duration() time.Duration {
	return r.Format.SampleRate.D(r.buf.Len())
}
