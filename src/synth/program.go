package synth

import "math"

// Filter describes the filter stage of one layer. The cutoff may be enveloped.
type Filter struct {
	Type   FilterType
	Cutoff Curve
	Q      float64
}

// Layer is one source in a voice: oscillator or noise, through an optional
// filter and a gain envelope. Curves are relative to Start; the layer is
// silent outside [Start, Stop).
type Layer struct {
	Wave   Wave
	Freq   Curve
	Detune float64 // cents
	Filter Filter
	Gain   Curve
	Start  float64
	Stop   float64
}

// Echo feeds the whole voice through a delay line. Repeats bounds the tail so
// the voice still terminates; with Feedback above zero any repeat past that
// is faded out with the rest of the voice.
type Echo struct {
	Delay    float64
	Feedback float64
	Mix      float64
	Repeats  int
}

func (e *Echo) tail() float64 {
	if e == nil {
		return 0
	}
	return e.Delay * float64(e.Repeats)
}

// Program is the declarative description of one sound: everything the
// executor needs to build a fresh, self-terminating voice.
type Program struct {
	Name   string
	Layers []Layer
	Echo   *Echo
}

// Duration is the time after trigger at which the voice falls silent
func (p Program) Duration() float64 {
	end := 0.0
	for _, l := range p.Layers {
		end = math.Max(end, l.Stop)
	}
	return end + p.Echo.tail()
}

// Peak is the loudest gain any layer reaches
func (p Program) Peak() float64 {
	peak := 0.0
	for _, l := range p.Layers {
		peak += l.Gain.Max()
	}
	return peak
}

// Scale returns a copy of the program with every gain envelope multiplied by g
func (p Program) Scale(g float64) Program {
	layers := make([]Layer, len(p.Layers))
	for i, l := range p.Layers {
		l.Gain = l.Gain.Scale(g)
		layers[i] = l
	}
	p.Layers = layers
	return p
}
