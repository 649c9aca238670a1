package synth

import (
	"math"
	"math/rand"
	"time"

	"github.com/faiface/beep"
)

type layerState struct {
	Layer
	osc    oscillator
	filter *Biquad
	detune float64
}

// Voice is a one-shot beep.Streamer built from a Program. It owns all of its
// oscillator, noise, filter and delay state, and stops streaming once the
// program's duration has elapsed.
type Voice struct {
	name       string
	sampleRate float64
	duration   float64
	n, total   int
	peak       float64
	layers     []layerState

	echo  *Echo
	delay []float64
	di    int
}

// Render builds a fresh voice for p. A nil noise source gets a private one.
func Render(p Program, sr beep.SampleRate, noise Rand) *Voice {
	if noise == nil {
		noise = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	v := &Voice{
		name:       p.Name,
		sampleRate: float64(sr),
		duration:   p.Duration(),
		total:      int(math.Ceil(p.Duration() * float64(sr))),
		peak:       p.Peak(),
		layers:     make([]layerState, len(p.Layers)),
		echo:       p.Echo,
	}
	for i, l := range p.Layers {
		v.layers[i] = layerState{
			Layer:  l,
			osc:    oscillator{wave: l.Wave, noise: noise},
			filter: NewBiquad(l.Filter.Type, v.sampleRate),
			detune: detuneRatio(l.Detune),
		}
	}
	if p.Echo != nil && p.Echo.Delay > 0 {
		v.delay = make([]float64, int(p.Echo.Delay*v.sampleRate)+1)
	}
	return v
}

func (v *Voice) Stream(samples [][2]float64) (n int, ok bool) {
	if v.n >= v.total {
		return 0, false
	}
	for i := range samples {
		if v.n >= v.total {
			break
		}
		x := v.sample(float64(v.n) / v.sampleRate)
		samples[i][0] = x
		samples[i][1] = x
		v.n++
		n++
	}
	return n, true
}

func (v *Voice) sample(t float64) (out float64) {
	for i := range v.layers {
		l := &v.layers[i]
		if t < l.Start || t >= l.Stop {
			continue
		}
		lt := t - l.Start
		x := l.osc.next(l.Freq.At(lt)*l.detune, v.sampleRate)
		if l.Filter.Type != NoFilter {
			l.filter.Set(l.Filter.Cutoff.At(lt), l.Filter.Q)
			x = l.filter.Filter(x)
		}
		out += x * l.Gain.At(lt) * release(l.Stop-t, l.Stop-l.Start)
	}
	if v.delay != nil {
		delayed := v.delay[v.di]
		v.delay[v.di] = out + delayed*v.echo.Feedback
		v.di = (v.di + 1) % len(v.delay)
		out += delayed * v.echo.Mix
	}
	return out * release(v.duration-t, v.duration)
}

// declick is the fade applied before anything stops sounding
const declick = 0.005

// release is the fade multiplier with left seconds to go in a span of length
// seconds. It reaches zero as left does.
func release(left, length float64) float64 {
	fade := math.Min(declick, length/2)
	if fade <= 0 || left >= fade {
		return 1
	}
	return math.Max(left, 0) / fade
}

func (v *Voice) Err() error { return nil }

// Len is the total length of the voice in samples
func (v *Voice) Len() int { return v.total }

// Done reports whether the voice has streamed its last sample
func (v *Voice) Done() bool { return v.n >= v.total }

// Peak is the program's loudest gain
func (v *Voice) Peak() float64 { return v.peak }

func (v *Voice) Name() string { return v.name }
