package synth

import "math"

// expFloor is the smallest magnitude an exponential ramp may touch; a true
// exponential can never reach zero.
const expFloor = 1e-4

type RampKind int

const (
	SetValue RampKind = iota
	Linear
	Exponential
)

// Ramp moves a Curve to Value, arriving At seconds after the layer starts
type Ramp struct {
	Kind  RampKind
	At    float64
	Value float64
}

// Curve is a piecewise automation lane: a starting value followed by ramps in
// time order. After the last ramp the final value is held.
type Curve struct {
	Start float64
	Ramps []Ramp
}

// Const is a curve that never moves
func Const(v float64) Curve { return Curve{Start: v} }

func (c Curve) with(r Ramp) Curve {
	ramps := make([]Ramp, 0, len(c.Ramps)+1)
	ramps = append(ramps, c.Ramps...)
	return Curve{Start: c.Start, Ramps: append(ramps, r)}
}

// SetAt jumps to v at time t
func (c Curve) SetAt(v, t float64) Curve { return c.with(Ramp{SetValue, t, v}) }

// LinearTo ramps linearly from the previous point to v at time t
func (c Curve) LinearTo(v, t float64) Curve { return c.with(Ramp{Linear, t, v}) }

// ExpTo ramps exponentially from the previous point to v at time t
func (c Curve) ExpTo(v, t float64) Curve { return c.with(Ramp{Exponential, t, v}) }

// At evaluates the curve t seconds after the layer starts
func (c Curve) At(t float64) float64 {
	v0, t0 := c.Start, 0.0
	for _, r := range c.Ramps {
		if t < r.At {
			span := r.At - t0
			if r.Kind == SetValue || span <= 0 {
				return v0
			}
			frac := (t - t0) / span
			if r.Kind == Linear {
				return v0 + (r.Value-v0)*frac
			}
			return expInterp(v0, r.Value, frac)
		}
		v0, t0 = r.Value, r.At
	}
	return v0
}

// End is the time of the last ramp
func (c Curve) End() float64 {
	if len(c.Ramps) == 0 {
		return 0
	}
	return c.Ramps[len(c.Ramps)-1].At
}

// Max is the largest value the curve ever takes
func (c Curve) Max() float64 {
	m := c.Start
	for _, r := range c.Ramps {
		m = math.Max(m, r.Value)
	}
	return m
}

// Scale multiplies every point of the curve by g
func (c Curve) Scale(g float64) Curve {
	out := Curve{Start: c.Start * g, Ramps: make([]Ramp, len(c.Ramps))}
	for i, r := range c.Ramps {
		r.Value *= g
		out.Ramps[i] = r
	}
	return out
}

func expInterp(from, to, frac float64) float64 {
	from = math.Max(from, expFloor)
	to = math.Max(to, expFloor)
	return from * math.Pow(to/from, frac)
}
