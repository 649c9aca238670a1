// Package engine is the game facing surface of the soundtrack. An Engine
// wires the sequencer, pattern generator, synth voices and master bus to an
// Output, and every call on it is safe at any time: before the output opens,
// after it is suspended, or after Dispose, calls quietly do nothing.
package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"

	"tjweldon/runbeat/src/clock"
	"tjweldon/runbeat/src/config"
	"tjweldon/runbeat/src/mix"
	"tjweldon/runbeat/src/pattern"
	"tjweldon/runbeat/src/sequencer"
	"tjweldon/runbeat/src/streams"
	"tjweldon/runbeat/src/synth"
	"tjweldon/runbeat/src/tempo"
	"tjweldon/runbeat/src/util"
)

var logger = util.Logger{}.Ctx("engine")

// Option configures an Engine
type Option func(*Engine)

// WithTimer replaces the wall clock timer used for scheduler polling
func WithTimer(t clock.Timer) Option {
	return func(e *Engine) { e.timer = t }
}

// WithSeed makes ghost notes and noise repeatable
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithLogger replaces the engine's logger
func WithLogger(l util.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithFeel overrides the configured pattern table
func WithFeel(t *pattern.Table) Option {
	return func(e *Engine) {
		if t != nil {
			e.table = t
		}
	}
}

// State is a snapshot of the engine for diagnostics and tests
type State struct {
	Ready     bool
	Disposed  bool
	Transport sequencer.Transport
	Bus       mix.State
	Voices    int
	Dropped   int
	// Err is why the last Initialize failed, nil once ready
	Err error
}

// Engine is one soundtrack instance. Create it with New, then Initialize it
// once the host allows audio.
type Engine struct {
	mu     sync.Mutex
	cfg    config.Config
	out    Output
	timer  clock.Timer
	seed   int64
	logger util.Logger
	table  *pattern.Table

	speed  mix.SpeedMap
	target tempo.BPM
	menu   bool
	seeds  *rand.Rand
	gen    *pattern.Generator

	ready    bool
	disposed bool
	openErr  error
	timeline *streams.Timeline
	bus      *mix.Bus
	seq      *sequencer.Scheduler
	voices   voicer
}

// New returns an uninitialised engine playing to out. Nothing touches the
// output until Initialize.
func New(cfg config.Config, out Output, opts ...Option) *Engine {
	cfg.Normalize()
	e := &Engine{
		cfg:    cfg,
		out:    out,
		timer:  clock.Wall{},
		seed:   time.Now().UnixNano(),
		logger: logger,
		table:  cfg.Table(),
		speed:  cfg.SpeedMap(),
		target: tempo.BPM(cfg.BaseBPM),
		menu:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.seeds = rand.New(rand.NewSource(e.seed))
	e.gen = pattern.NewGenerator(e.table, rand.New(rand.NewSource(e.seeds.Int63())))
	return e
}

// Initialize opens the output. It is idempotent, and reports whether the
// engine is ready; a failure is logged and may be retried.
func (e *Engine) Initialize() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initializeLocked()
}

func (e *Engine) initializeLocked() bool {
	logger := e.logger.Ctx("Initialize").Vol(util.Quiet)
	if e.disposed {
		return false
	}
	if e.ready {
		return true
	}

	menu, play := e.cfg.Presets()
	timeline := streams.NewTimeline(streams.Format, e.cfg.MaxVoicesPerKind)
	bus := mix.NewBus(timeline, streams.Format.SampleRate, menu, play, e.menu)
	if err := e.out.Open(bus, streams.Format); err != nil {
		e.openErr = errors.Wrap(err, "opening output")
		logger.Vol(util.Loud).Log(e.openErr)
		return false
	}
	e.openErr = nil

	e.timeline, e.bus = timeline, bus
	e.voices = voicer{
		source: timeline,
		rate:   streams.Format.SampleRate,
		noise:  rand.New(rand.NewSource(e.seeds.Int63())),
	}
	e.seq = sequencer.New(e.cfg.Sequencer(), timeline, e.timer, e.voices.emitter(e.gen))
	e.seq.SetTempo(e.target)
	e.ready = true
	logger.Vol(util.Normal).Log("ready, feel", e.table.Name)
	return true
}

// Suspend is for when the host revokes audio. The transport stops and the
// output closes; everything is a no-op until Initialize succeeds again.
func (e *Engine) Suspend() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.releaseLocked()
	e.logger.Ctx("Suspend").Vol(util.Normal).Log("suspended")
}

// Dispose releases the output for good. Later calls do nothing.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.releaseLocked()
	e.disposed = true
	e.logger.Ctx("Dispose").Vol(util.Normal).Log("disposed")
}

func (e *Engine) releaseLocked() {
	if !e.ready {
		return
	}
	e.seq.Stop()
	if err := e.out.Close(); err != nil {
		e.logger.Ctx("release").Vol(util.Quiet).Log(errors.Wrap(err, "closing output"))
	}
	e.ready = false
	e.timeline, e.bus, e.seq = nil, nil, nil
	e.voices = voicer{}
}

// StartBGM starts the music from the top of the loop. Before Initialize it
// does nothing, and the caller should start it again once ready.
func (e *Engine) StartBGM() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		e.logger.Ctx("StartBGM").Vol(util.Quiet).Log("not initialised, ignoring")
		return
	}
	e.seq.Start()
}

// StopBGM stops scheduling. Notes already scheduled ring out.
func (e *Engine) StopBGM() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready {
		e.seq.Stop()
	}
}

// SetGameSpeed retargets the tempo from the player's run speed. It is
// remembered across Initialize.
func (e *Engine) SetGameSpeed(speed float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}
	e.target = e.speed.Tempo(speed)
	if e.ready {
		e.seq.SetTempo(e.target)
	}
}

// SetMenuMode glides the mix between the muffled menu sound and gameplay.
// It is remembered across Initialize.
func (e *Engine) SetMenuMode(isMenu bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}
	e.menu = isMenu
	if e.ready {
		e.bus.SetMode(isMenu)
	}
}

// PlayPickup plays the coin blip
func (e *Engine) PlayPickup() { e.fire("sfx:pickup", synth.Pickup()) }

// PlayCollectSet plays the rising triad for a completed set
func (e *Engine) PlayCollectSet() { e.fire("sfx:collect", synth.CollectSet()) }

// PlayJump plays the jump sweep, higher for a double jump
func (e *Engine) PlayJump(isDouble bool) { e.fire("sfx:jump", synth.Jump(isDouble)) }

// PlayDamage plays the crash
func (e *Engine) PlayDamage() { e.fire("sfx:damage", synth.Damage()) }

// fire plays p now, initialising the engine first if needed
func (e *Engine) fire(kind string, p synth.Program) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initializeLocked() {
		return
	}
	e.voices.play(kind, p, e.timeline.Now())
}

// State returns a snapshot of the engine
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := State{Ready: e.ready, Disposed: e.disposed, Err: e.openErr}
	if e.ready {
		s.Transport = e.seq.Transport()
		s.Bus = e.bus.State()
		s.Voices = e.timeline.Active()
		s.Dropped = e.timeline.Dropped()
	}
	return s
}

// Now is the audio clock in seconds, zero when not initialised
func (e *Engine) Now() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return 0
	}
	return e.timeline.Now()
}
