package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsAlreadyNormal(t *testing.T) {
	c := Default()
	c.Normalize()
	if c != Default() {
		t.Errorf("normalizing the defaults changed them:\n%+v\n%+v", c, Default())
	}
}

func TestNormalizeClamps(t *testing.T) {
	c := Default()
	c.BaseBPM = math.NaN()
	c.BaseSpeed = -3
	c.SpeedFloor = 0
	c.SpeedCap = 100
	c.Lookahead = 0.05
	c.ScheduleAhead = 0.01
	c.MaxVoicesPerKind = 0
	c.Feel = "polka"
	c.Menu.Gain = 3
	c.Play.Cutoff = math.Inf(1)
	c.Normalize()

	def := Default()
	for _, tc := range []struct {
		name      string
		got, want float64
	}{
		{"base bpm", c.BaseBPM, def.BaseBPM},
		{"base speed", c.BaseSpeed, def.BaseSpeed},
		{"floor", c.SpeedFloor, 0.1},
		{"cap", c.SpeedCap, 4},
		{"schedule ahead", c.ScheduleAhead, 0.1},
		{"menu gain", c.Menu.Gain, 1},
		{"play cutoff", c.Play.Cutoff, def.Play.Cutoff},
	} {
		if tc.got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, tc.got)
		}
	}
	if c.MaxVoicesPerKind != 1 {
		t.Errorf("voice cap: expected 1, got %d", c.MaxVoicesPerKind)
	}
	if c.Feel != def.Feel {
		t.Errorf("unknown feel should fall back to %q, got %q", def.Feel, c.Feel)
	}
}

func TestScheduleAheadOutlastsLookahead(t *testing.T) {
	for _, tc := range []struct {
		name             string
		lookahead, ahead float64
		wantAhead        float64
	}{
		{"equal to the poll", 0.025, 0.025, 0.05},
		{"NaN window, long poll", 0.1, math.NaN(), 0.2},
		{"already wide enough", 0.025, 0.3, 0.3},
	} {
		c := Default()
		c.Lookahead, c.ScheduleAhead = tc.lookahead, tc.ahead
		c.Normalize()
		if c.ScheduleAhead != tc.wantAhead {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.wantAhead, c.ScheduleAhead)
		}
		if !(c.ScheduleAhead > c.Lookahead) {
			t.Errorf("%s: window %v does not exceed lookahead %v", tc.name, c.ScheduleAhead, c.Lookahead)
		}
	}
}

func TestLoadOverridesOnlyWhatIsSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runbeat.json")
	if err := os.WriteFile(path, []byte(`{"baseBpm": 128, "feel": "driving", "menu": {"cutoff": 600}}`), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.BaseBPM != 128 || c.Feel != "driving" || c.Menu.Cutoff != 600 {
		t.Errorf("overrides not applied: %+v", c)
	}
	if c.Menu.Gain != Default().Menu.Gain || c.Smoothing != Default().Smoothing {
		t.Errorf("unset fields lost their defaults: %+v", c)
	}
	if c.Table().Name != "driving" {
		t.Errorf("expected the driving table, got %q", c.Table().Name)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runbeat.json")
	c := Default()
	c.SpeedCap = 1.5
	if err := c.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != c {
		t.Errorf("expected %+v, got %+v", c, got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{not json"), 0644)
	c, err := Load(path)
	if err == nil {
		t.Error("expected an error for malformed json")
	}
	if c != Default() {
		t.Error("a failed load should still hand back the defaults")
	}
}

func TestDerivedSettings(t *testing.T) {
	c := Default()
	s := c.Sequencer()
	if s.Lookahead != 25*time.Millisecond || s.ScheduleAhead != 0.1 || s.StartOffset != 0.05 {
		t.Errorf("unexpected scheduler settings %+v", s)
	}
	if math.Abs(float64(s.Bounds.Min)-88) > 1e-9 || math.Abs(float64(s.Bounds.Max)-220) > 1e-9 {
		t.Errorf("expected tempo bounds 88..220, got %+v", s.Bounds)
	}
	menu, play := c.Presets()
	if menu.Ramp != 1500*time.Millisecond || play.Ramp != time.Second {
		t.Errorf("unexpected ramps %v %v", menu.Ramp, play.Ramp)
	}
	if got := c.SpeedMap().Tempo(22.5 * 1.5); math.Abs(float64(got)-165) > 1e-9 {
		t.Errorf("1.5x speed should be 165 bpm, got %v", got)
	}
}
