package synth

import "math"

type FilterType int

const (
	NoFilter FilterType = iota
	LowPass
	HighPass
	BandPass
)

func (ft FilterType) String() string {
	switch ft {
	case LowPass:
		return "lowpass"
	case HighPass:
		return "highpass"
	case BandPass:
		return "bandpass"
	default:
		return "none"
	}
}

// defaultQ gives a Butterworth response
const defaultQ = math.Sqrt2 / 2

// Biquad is a second order IIR filter with cookbook coefficients. Coefficients
// are only recomputed when the cutoff or Q actually change.
type Biquad struct {
	Type FilterType

	sampleRate float64
	freq, q    float64

	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

// NewBiquad returns a filter of the given type running at sampleRate
func NewBiquad(ft FilterType, sampleRate float64) *Biquad {
	return &Biquad{Type: ft, sampleRate: sampleRate}
}

// Set retunes the filter. The cutoff is held inside the audible band so an
// enveloped cutoff can never make the filter unstable.
func (f *Biquad) Set(freq, q float64) {
	if q <= 0 {
		q = defaultQ
	}
	freq = math.Min(math.Max(freq, 10), 0.49*f.sampleRate)
	if freq == f.freq && q == f.q {
		return
	}
	f.freq, f.q = freq, q

	w0 := 2 * math.Pi * freq / f.sampleRate
	cos, sin := math.Cos(w0), math.Sin(w0)
	alpha := sin / (2 * q)
	a0 := 1 + alpha

	switch f.Type {
	case LowPass:
		f.b0 = (1 - cos) / 2
		f.b1 = 1 - cos
		f.b2 = (1 - cos) / 2
	case HighPass:
		f.b0 = (1 + cos) / 2
		f.b1 = -(1 + cos)
		f.b2 = (1 + cos) / 2
	case BandPass:
		f.b0 = alpha
		f.b1 = 0
		f.b2 = -alpha
	default:
		f.b0, f.b1, f.b2, f.a1, f.a2 = 1, 0, 0, 0, 0
		return
	}
	f.a1 = -2 * cos / a0
	f.a2 = (1 - alpha) / a0
	f.b0 /= a0
	f.b1 /= a0
	f.b2 /= a0
}

// Cutoff is the frequency the filter is currently tuned to
func (f *Biquad) Cutoff() float64 { return f.freq }

func (f *Biquad) Filter(x float64) float64 {
	if f.Type == NoFilter {
		return x
	}
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}
