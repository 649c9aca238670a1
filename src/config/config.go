// Package config collects the soundtrack's tunable constants. Values load from
// a JSON file over the defaults, and Normalize pulls anything out of range
// back to something playable.
package config

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"tjweldon/runbeat/src/mix"
	"tjweldon/runbeat/src/pattern"
	"tjweldon/runbeat/src/sequencer"
	"tjweldon/runbeat/src/tempo"
	"tjweldon/runbeat/src/util"
)

// BusConfig is one mix preset. Times are in seconds.
type BusConfig struct {
	Gain   float64 `json:"gain"`
	Cutoff float64 `json:"cutoff"`
	Ramp   float64 `json:"ramp"`
}

// Config is the full set of engine constants. Times are in seconds.
type Config struct {
	BaseBPM    float64 `json:"baseBpm"`
	BaseSpeed  float64 `json:"baseSpeed"`
	SpeedFloor float64 `json:"speedFloor"`
	SpeedCap   float64 `json:"speedCap"`

	Lookahead     float64 `json:"lookahead"`
	ScheduleAhead float64 `json:"scheduleAhead"`
	StartOffset   float64 `json:"startOffset"`
	Smoothing     float64 `json:"smoothing"`

	MaxVoicesPerKind int    `json:"maxVoicesPerKind"`
	Feel             string `json:"feel"`

	Menu BusConfig `json:"menu"`
	Play BusConfig `json:"play"`
}

// Default returns the tuning the game ships with
func Default() Config {
	return Config{
		BaseBPM:    110,
		BaseSpeed:  22.5,
		SpeedFloor: 0.8,
		SpeedCap:   2,

		Lookahead:     0.025,
		ScheduleAhead: 0.1,
		StartOffset:   0.05,
		Smoothing:     0.1,

		MaxVoicesPerKind: 8,
		Feel:             pattern.Retro.Name,

		Menu: BusConfig{Gain: mix.Menu.Gain, Cutoff: mix.Menu.Cutoff, Ramp: mix.Menu.Ramp.Seconds()},
		Play: BusConfig{Gain: mix.Play.Gain, Cutoff: mix.Play.Cutoff, Ramp: mix.Play.Ramp.Seconds()},
	}
}

// Load reads path over the defaults. Fields missing from the file keep their
// default value. The result is normalized.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrapf(err, "parsing config %s", path)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes c to path as indented JSON, creating the directory if needed
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "writing config %s", path)
}

func within(x, lo, hi, fallback float64) float64 {
	if !util.Finite(x) {
		return fallback
	}
	return util.Clamp(x, lo, hi)
}

func (b *BusConfig) normalize(def BusConfig) {
	b.Gain = within(b.Gain, 0, 1, def.Gain)
	b.Cutoff = within(b.Cutoff, 20, 20000, def.Cutoff)
	b.Ramp = within(b.Ramp, 0, 10, def.Ramp)
}

// Normalize clamps every field into its playable range. Non-finite values
// fall back to the default.
func (c *Config) Normalize() {
	def := Default()
	logger := logger.Ctx("Normalize").Vol(util.Quiet)

	c.BaseBPM = within(c.BaseBPM, 30, 300, def.BaseBPM)
	if !(c.BaseSpeed > 0) || !util.Finite(c.BaseSpeed) {
		logger.Log("base speed", c.BaseSpeed, "is unusable, using", def.BaseSpeed)
		c.BaseSpeed = def.BaseSpeed
	}
	c.SpeedFloor = within(c.SpeedFloor, 0.1, 1, def.SpeedFloor)
	c.SpeedCap = within(c.SpeedCap, 1, 4, def.SpeedCap)

	c.Lookahead = within(c.Lookahead, 0.005, 0.1, def.Lookahead)
	// the window must outlast the poll or steps fall between ticks
	c.ScheduleAhead = math.Max(within(c.ScheduleAhead, 0, 1, def.ScheduleAhead), 2*c.Lookahead)
	c.StartOffset = within(c.StartOffset, 0, 1, def.StartOffset)
	c.Smoothing = within(c.Smoothing, 0.001, 1, def.Smoothing)

	if c.MaxVoicesPerKind < 1 {
		c.MaxVoicesPerKind = 1
	} else if c.MaxVoicesPerKind > 64 {
		c.MaxVoicesPerKind = 64
	}
	if _, ok := pattern.Feels[c.Feel]; !ok {
		logger.Log("unknown feel", c.Feel, "using", def.Feel)
		c.Feel = def.Feel
	}

	c.Menu.normalize(def.Menu)
	c.Play.normalize(def.Play)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Bounds is the tempo range the speed map and scheduler are held to
func (c Config) Bounds() tempo.Bounds {
	return tempo.Bounds{
		Min: tempo.BPM(c.BaseBPM * c.SpeedFloor),
		Max: tempo.BPM(c.BaseBPM * c.SpeedCap),
	}
}

// Sequencer returns the scheduler timing settings
func (c Config) Sequencer() sequencer.Settings {
	return sequencer.Settings{
		BaseBPM:       tempo.BPM(c.BaseBPM),
		Bounds:        c.Bounds(),
		Lookahead:     seconds(c.Lookahead),
		ScheduleAhead: c.ScheduleAhead,
		StartOffset:   c.StartOffset,
		Smoothing:     c.Smoothing,
	}
}

// SpeedMap returns the gameplay speed to tempo mapping
func (c Config) SpeedMap() mix.SpeedMap {
	return mix.SpeedMap{
		BaseSpeed: c.BaseSpeed,
		BaseBPM:   tempo.BPM(c.BaseBPM),
		Floor:     c.SpeedFloor,
		Cap:       c.SpeedCap,
	}
}

// Presets returns the menu and gameplay bus presets
func (c Config) Presets() (menu, play mix.Preset) {
	convert := func(b BusConfig) mix.Preset {
		return mix.Preset{Gain: b.Gain, Cutoff: b.Cutoff, Ramp: seconds(b.Ramp)}
	}
	return convert(c.Menu), convert(c.Play)
}

// Table returns the pattern table for the configured feel
func (c Config) Table() *pattern.Table {
	if t, ok := pattern.Feels[c.Feel]; ok {
		return t
	}
	return &pattern.Retro
}

var logger = util.Logger{}.Ctx("config")
