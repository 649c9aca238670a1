package tempo

import (
	"math"

	"tjweldon/runbeat/src/util"
)

// BPM is a tempo in beats per minute
type BPM float64

// Quantum returns the duration of a single beat in seconds
func (b BPM) Quantum() float64 {
	return 60 / float64(b)
}

// Step returns the length in seconds of one subdivision of the beat
func (b BPM) Step(q Quantisation) float64 {
	return b.Quantum() / float64(q)
}

// Sixteenth is the sequencer's step length in seconds
func (b BPM) Sixteenth() float64 { return b.Step(Sixteenth) }

// Quantisation is the number of steps a beat is divided into
type Quantisation int

const (
	Quarter   Quantisation = 1
	Eighth    Quantisation = 2
	Sixteenth Quantisation = 4
)

// Smooth moves b one exponential step of weight alpha towards target.
func (b BPM) Smooth(target BPM, alpha float64) BPM {
	alpha = util.Clamp(alpha, 0, 1)
	return BPM(float64(b)*(1-alpha) + float64(target)*alpha)
}

// Bounds keeps a tempo in a range that never stalls the transport
type Bounds struct {
	Min, Max BPM
}

// Clamp pins b into the bounds. NaN collapses to Min, infinities to the
// nearer end.
func (r Bounds) Clamp(b BPM) BPM {
	return BPM(util.Clamp(float64(b), float64(r.Min), float64(r.Max)))
}

// MapSpeed converts a gameplay speed into a target tempo. The ratio against
// baseSpeed is floored so that standing still never stops the music, and the
// result is capped at base*ceiling. NaN speeds get the floor.
func MapSpeed(speed, baseSpeed float64, base BPM, floor, ceiling float64) BPM {
	ratio := floor
	if baseSpeed > 0 && !math.IsNaN(speed) {
		ratio = math.Max(floor, speed/baseSpeed)
	}
	return BPM(math.Min(float64(base)*ceiling, float64(base)*ratio))
}
