// Package mix owns the master bus every voice passes through: a tone shaping
// low-pass followed by the master gain. Mode switches glide both over about a
// second instead of jumping.
package mix

import (
	"sync"
	"time"

	"github.com/faiface/beep"

	"tjweldon/runbeat/src/synth"
	"tjweldon/runbeat/src/tempo"
	"tjweldon/runbeat/src/util"
)

var logger = util.Logger{}.Ctx("mix")

// Preset is a bus setting and how long it takes to get there
type Preset struct {
	Gain   float64
	Cutoff float64 // Hz
	Ramp   time.Duration
}

var (
	// Menu is muffled and quiet
	Menu = Preset{Gain: 0.2, Cutoff: 900, Ramp: 1500 * time.Millisecond}
	// Play is open and louder
	Play = Preset{Gain: 0.35, Cutoff: 18000, Ramp: time.Second}
)

// State is a snapshot of the bus parameters
type State struct {
	Menu         bool
	Gain, Cutoff float64
	Ramping      bool
}

// Bus is a beep.Streamer applying the tone filter and master gain to Incoming
type Bus struct {
	mu       sync.Mutex
	incoming beep.Streamer
	rate     beep.SampleRate

	menu, play Preset
	isMenu     bool

	gain, cutoff Param
	filters      [2]*synth.Biquad
	q            float64
}

// NewBus wraps incoming. The bus starts at rest on the menu or play preset.
func NewBus(incoming beep.Streamer, rate beep.SampleRate, menu, play Preset, startInMenu bool) *Bus {
	b := &Bus{
		incoming: incoming,
		rate:     rate,
		menu:     menu,
		play:     play,
		isMenu:   startInMenu,
	}
	at := b.preset(startInMenu)
	b.gain = NewParam(at.Gain, false)
	b.cutoff = NewParam(at.Cutoff, true)
	for i := range b.filters {
		b.filters[i] = synth.NewBiquad(synth.LowPass, float64(rate))
		b.filters[i].Set(at.Cutoff, b.q)
	}
	return b
}

func (b *Bus) preset(isMenu bool) Preset {
	if isMenu {
		return b.menu
	}
	return b.play
}

// SetMode glides the bus towards the menu or gameplay preset. Calling it
// again mid-ramp retargets from wherever the ramp has got to.
func (b *Bus) SetMode(isMenu bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.preset(isMenu)
	n := b.rate.N(p.Ramp)
	b.isMenu = isMenu
	b.gain.RampTo(p.Gain, n)
	b.cutoff.RampTo(p.Cutoff, n)
	logger.Ctx("Bus.SetMode").Vol(util.Normal).Log("menu:", isMenu, "gain ->", p.Gain, "cutoff ->", p.Cutoff, "over", p.Ramp)
}

// State returns the current bus parameters
func (b *Bus) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{
		Menu:    b.isMenu,
		Gain:    b.gain.Value(),
		Cutoff:  b.cutoff.Value(),
		Ramping: b.gain.Ramping() || b.cutoff.Ramping(),
	}
}

func (b *Bus) Stream(samples [][2]float64) (n int, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok = b.incoming.Stream(samples)
	for i := range samples[:n] {
		g := b.gain.Next()
		c := b.cutoff.Next()
		for ch, f := range b.filters {
			f.Set(c, b.q)
			samples[i][ch] = f.Filter(samples[i][ch]) * g
		}
	}
	return n, ok
}

func (b *Bus) Err() error { return b.incoming.Err() }

// SpeedMap converts gameplay speed into a tempo target
type SpeedMap struct {
	BaseSpeed float64
	BaseBPM   tempo.BPM
	Floor     float64
	Cap       float64
}

// Tempo is the target tempo for speed: never below BaseBPM*Floor, never
// above BaseBPM*Cap.
func (m SpeedMap) Tempo(speed float64) tempo.BPM {
	return tempo.MapSpeed(speed, m.BaseSpeed, m.BaseBPM, m.Floor, m.Cap)
}
