package mix

import "math"

// Param is a control value that glides to its target one sample at a time.
// Exponential params move by a constant ratio per sample, which sounds even
// for frequencies; linear ones by a constant amount.
type Param struct {
	Exp bool

	value     float64
	target    float64
	step      float64
	ratio     bool
	remaining int
}

// NewParam returns a param resting at v
func NewParam(v float64, exp bool) Param {
	return Param{Exp: exp, value: v, target: v}
}

// Set jumps straight to v, cancelling any ramp
func (p *Param) Set(v float64) {
	p.value, p.target, p.remaining = v, v, 0
}

// RampTo starts a ramp from the current value to target over n samples.
// A ramp already in flight is replaced, starting from wherever it got to.
func (p *Param) RampTo(target float64, n int) {
	if n <= 0 || target == p.value {
		p.Set(target)
		return
	}
	p.target, p.remaining = target, n
	p.ratio = p.Exp && p.value > 0 && target > 0
	if p.ratio {
		p.step = math.Pow(target/p.value, 1/float64(n))
	} else {
		p.step = (target - p.value) / float64(n)
	}
}

// Next advances one sample and returns the new value
func (p *Param) Next() float64 {
	if p.remaining == 0 {
		return p.value
	}
	p.remaining--
	switch {
	case p.remaining == 0:
		p.value = p.target
	case p.ratio:
		p.value *= p.step
	default:
		p.value += p.step
	}
	return p.value
}

// Advance moves n samples along the ramp at once
func (p *Param) Advance(n int) {
	for i := 0; i < n && p.remaining > 0; i++ {
		p.Next()
	}
}

func (p *Param) Value() float64  { return p.value }
func (p *Param) Target() float64 { return p.target }
func (p *Param) Ramping() bool   { return p.remaining > 0 }
