package mix

import (
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"
)

const rate = beep.SampleRate(44100)

func run(b *Bus, d time.Duration) [][2]float64 {
	buf := make([][2]float64, rate.N(d))
	b.Stream(buf)
	return buf
}

func TestParamLinearRamp(t *testing.T) {
	p := NewParam(0, false)
	p.RampTo(1, 4)
	var got []float64
	for i := 0; i < 6; i++ {
		got = append(got, p.Next())
	}
	want := []float64{0.25, 0.5, 0.75, 1, 1, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestParamExpRampLandsExactly(t *testing.T) {
	p := NewParam(18000, true)
	p.RampTo(900, 1000)
	p.Advance(500)
	if mid := p.Value(); math.Abs(mid-math.Sqrt(18000*900)) > 1e-6 {
		t.Errorf("exponential midpoint %v, expected geometric mean", mid)
	}
	p.Advance(1000)
	if p.Value() != 900 || p.Ramping() {
		t.Errorf("expected to rest exactly on 900, got %v", p.Value())
	}
}

func TestParamRetargetStartsFromCurrent(t *testing.T) {
	p := NewParam(0, false)
	p.RampTo(1, 10)
	p.Advance(5)
	p.RampTo(0, 5)
	if first := p.Next(); math.Abs(first-0.4) > 1e-12 {
		t.Errorf("retarget jumped: expected 0.4, got %v", first)
	}
}

func TestSetModeRampsRatherThanJumps(t *testing.T) {
	b := NewBus(beep.Silence(-1), rate, Menu, Play, false)
	b.SetMode(true)
	run(b, 10*time.Millisecond)
	s := b.State()
	if !s.Ramping || s.Gain >= Play.Gain || s.Gain <= Menu.Gain {
		t.Errorf("expected gain between presets while ramping, got %+v", s)
	}
	run(b, Menu.Ramp)
	s = b.State()
	if s.Ramping || s.Gain != Menu.Gain || s.Cutoff != Menu.Cutoff {
		t.Errorf("expected to settle on the menu preset, got %+v", s)
	}
}

func TestBackToBackModeSwitchesSettleOnTheLast(t *testing.T) {
	b := NewBus(beep.Silence(-1), rate, Menu, Play, false)
	b.SetMode(true)
	b.SetMode(false)
	run(b, 2*time.Second)
	s := b.State()
	if s.Menu || s.Gain != Play.Gain || s.Cutoff != Play.Cutoff {
		t.Errorf("expected the gameplay preset, got %+v", s)
	}
}

func TestMenuMuffles(t *testing.T) {
	tone := func(freq float64) beep.Streamer {
		i := 0
		return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
			for j := range samples {
				x := math.Sin(2 * math.Pi * freq * float64(i) / float64(rate))
				samples[j] = [2]float64{x, x}
				i++
			}
			return len(samples), true
		})
	}
	level := func(isMenu bool) float64 {
		b := NewBus(tone(6000), rate, Menu, Play, isMenu)
		out := run(b, 200*time.Millisecond)
		peak := 0.0
		for _, s := range out[len(out)/2:] {
			peak = math.Max(peak, math.Abs(s[0]))
		}
		return peak
	}
	menu, play := level(true), level(false)
	if menu > play/10 {
		t.Errorf("menu preset should muffle highs: menu %.4f play %.4f", menu, play)
	}
	if math.Abs(play-Play.Gain) > 0.05 {
		t.Errorf("play preset should pass 6kHz at master gain, got %.4f", play)
	}
}

func TestSpeedMap(t *testing.T) {
	m := SpeedMap{BaseSpeed: 22.5, BaseBPM: 110, Floor: 0.8, Cap: 2}
	if got := m.Tempo(0); math.Abs(float64(got)-88) > 1e-9 {
		t.Errorf("speed 0: expected the floor tempo 88, got %v", got)
	}
	if got := m.Tempo(225); got != 220 {
		t.Errorf("10x speed: expected the capped 220, got %v", got)
	}
	if got := m.Tempo(math.NaN()); math.IsNaN(float64(got)) {
		t.Error("NaN speed leaked into the tempo")
	}
}
