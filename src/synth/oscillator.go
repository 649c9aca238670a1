package synth

import "math"

type Wave int

const (
	Sine Wave = iota
	Square
	Saw
	Triangle
	Noise
)

func (w Wave) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Saw:
		return "sawtooth"
	case Triangle:
		return "triangle"
	case Noise:
		return "noise"
	default:
		return "unknown"
	}
}

// Rand is the noise source. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// oscillator is a phase accumulator; phase is kept in [0, 1)
type oscillator struct {
	wave  Wave
	phase float64
	noise Rand
}

func (o *oscillator) next(freq, sampleRate float64) float64 {
	if o.wave == Noise {
		return o.noise.Float64()*2 - 1
	}
	p := o.phase
	_, o.phase = math.Modf(o.phase + freq/sampleRate)
	switch o.wave {
	case Square:
		if p < 0.5 {
			return 1
		}
		return -1
	case Saw:
		return 2*p - 1
	case Triangle:
		return 1 - 4*math.Abs(p-0.5)
	default:
		return math.Sin(2 * math.Pi * p)
	}
}

// detuneRatio converts cents into a frequency multiplier
func detuneRatio(cents float64) float64 {
	return math.Exp2(cents / 1200)
}
