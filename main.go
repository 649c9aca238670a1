package main

import (
	"log"
	"os"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"

	"tjweldon/runbeat/src/config"
	"tjweldon/runbeat/src/engine"
	"tjweldon/runbeat/src/examples"
	"tjweldon/runbeat/src/pattern"
	"tjweldon/runbeat/src/streams"
	"tjweldon/runbeat/src/util"
)

var args struct {
	Mode     string        `arg:"positional" default:"play" help:"play through the speaker, or render to a wav file"`
	Out      string        `arg:"-o,--out" default:"runbeat.wav" help:"wav file written in render mode"`
	Length   time.Duration `arg:"-l,--length" default:"30s" help:"length of the demo session"`
	Seed     int64         `arg:"--seed" help:"seed for ghost notes and noise, time based when zero"`
	Feel     string        `arg:"-f,--feel" help:"pattern feel: retro or driving"`
	Config   string        `arg:"-c,--config" help:"json file of engine constants"`
	Volume   float64       `arg:"-v,--volume" help:"output trim in doublings, e.g. -1 halves the level"`
	LogLevel string        `arg:"--log" default:"normal" help:"log volume: silent, quieter, quiet, normal, loud"`
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if args.Config != "" {
		var err error
		if cfg, err = config.Load(args.Config); err != nil {
			return cfg, err
		}
	}
	if args.Feel != "" {
		if _, ok := pattern.Feels[args.Feel]; !ok {
			return cfg, errors.Errorf("unknown feel %q", args.Feel)
		}
		cfg.Feel = args.Feel
	}
	return cfg, nil
}

func render(cfg config.Config, opts []engine.Option) error {
	off := engine.NewOffline()
	e := engine.New(cfg, engine.Trim{Output: off, Volume: args.Volume}, append(opts, engine.WithTimer(off.Timer()))...)
	defer e.Dispose()
	if !e.Initialize() {
		return errors.Wrap(e.State().Err, "rendering")
	}
	examples.Demo(args.Length, cfg.BaseSpeed).Play(e, off.Render)

	f, err := os.Create(args.Out)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	defer f.Close()
	buf := off.Buffer()
	if err := wav.Encode(f, buf.Streamer(0, buf.Len()), streams.Format); err != nil {
		return errors.Wrapf(err, "encoding %s", args.Out)
	}
	log.Println("wrote", off.Duration(), "to", args.Out)
	return nil
}

func play(cfg config.Config, opts []engine.Option) error {
	e := engine.New(cfg, engine.Trim{Output: &engine.Speaker{}, Volume: args.Volume}, opts...)
	defer e.Dispose()
	if !e.Initialize() {
		return errors.Wrap(e.State().Err, "no audio device")
	}
	examples.Demo(args.Length, cfg.BaseSpeed).Play(e, time.Sleep)
	return nil
}

func main() {
	arg.MustParse(&args)
	util.ParseLogVolume(args.LogLevel).FilterBelow()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	var opts []engine.Option
	if args.Seed != 0 {
		opts = append(opts, engine.WithSeed(args.Seed))
	}

	switch args.Mode {
	case "render":
		err = render(cfg, opts)
	case "play":
		err = play(cfg, opts)
	default:
		err = errors.Errorf("unknown mode %q, expected play or render", args.Mode)
	}
	if err != nil {
		log.Fatal(err)
	}
}
