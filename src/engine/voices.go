package engine

import (
	"github.com/faiface/beep"

	"tjweldon/runbeat/src/clock"
	"tjweldon/runbeat/src/pattern"
	"tjweldon/runbeat/src/synth"
	"tjweldon/runbeat/src/util"
)

// Program is the synth program a trigger asks for, scaled to its level
func Program(tr pattern.Trigger) synth.Program {
	var p synth.Program
	switch tr.Kind {
	case pattern.Kick:
		p = synth.Kick(tr.Accent)
	case pattern.Snare:
		p = synth.Snare()
	case pattern.HiHat:
		p = synth.HiHat(tr.Accent)
	case pattern.Bass:
		p = synth.Bass(tr.Freq, tr.Accent)
	case pattern.Lead:
		p = synth.Lead(tr.Freq)
	}
	if tr.Level > 0 && tr.Level != 1 {
		p = p.Scale(tr.Level)
	}
	return p
}

// voicer renders programs onto one timeline. Every voice it makes shares the
// noise source, which is only ever read from the timeline's Stream.
type voicer struct {
	source clock.Source
	rate   beep.SampleRate
	noise  synth.Rand
}

func (v voicer) play(kind string, p synth.Program, at float64) {
	voice := synth.Render(p, v.rate, v.noise)
	v.source.ScheduleAt(at, clock.Event{Kind: kind, Streamer: voice, Peak: voice.Peak()})
}

// emitter turns each sequencer step into voices on the timeline
func (v voicer) emitter(gen *pattern.Generator) func(step int, at float64) {
	logger := logger.Ctx("emit").Vol(util.Quieter)
	return func(step int, at float64) {
		triggers := gen.Generate(step, at)
		for i, p := range util.Map(Program, triggers) {
			tr := triggers[i]
			if logger.Enabled() {
				logger.Log(tr.Kind, "step", step, "at", tr.Time, "for", p.Duration())
			}
			v.play(tr.Kind.String(), p, tr.Time)
		}
	}
}
