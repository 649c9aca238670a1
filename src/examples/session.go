// Package examples scripts a short run of the game against an engine, so
// the soundtrack can be heard, or rendered, without the game itself.
package examples

import (
	"fmt"
	"sort"
	"time"

	"tjweldon/runbeat/src/engine"
	"tjweldon/runbeat/src/util"
)

var logger = util.Logger{}.Ctx("examples/session")

// Cue is one game event at a point in the session
type Cue struct {
	At   time.Duration
	Name string
	Do   func(e *engine.Engine)
}

// Session is a timed list of cues
type Session struct {
	Length time.Duration
	Cues   []Cue
}

// Demo is a run of the given length: a few seconds of menu, a run that speeds
// up from the base speed to double it with pickups, jumps and the odd crash,
// then back to the menu.
func Demo(length time.Duration, baseSpeed float64) Session {
	if length < 10*time.Second {
		length = 10 * time.Second
	}
	s := Session{Length: length}
	add := func(at time.Duration, name string, do func(*engine.Engine)) {
		s.Cues = append(s.Cues, Cue{At: at, Name: name, Do: do})
	}

	menu := 2 * time.Second
	end := length - 3*time.Second
	run := end - menu

	add(0, "menu", func(e *engine.Engine) {
		e.SetMenuMode(true)
		e.SetGameSpeed(0)
		e.StartBGM()
	})
	add(menu, "run", func(e *engine.Engine) {
		e.SetMenuMode(false)
		e.SetGameSpeed(baseSpeed)
	})

	// speed ramps up every half second
	steps := int(run / (500 * time.Millisecond))
	for i := 1; i <= steps; i++ {
		speed := baseSpeed * (1 + float64(i)/float64(steps))
		add(menu+time.Duration(i)*500*time.Millisecond, fmt.Sprintf("speed %.1f", speed), func(e *engine.Engine) {
			e.SetGameSpeed(speed)
		})
	}

	for at, i := menu+700*time.Millisecond, 0; at < end; at, i = at+1300*time.Millisecond, i+1 {
		switch {
		case i%7 == 6:
			add(at, "damage", (*engine.Engine).PlayDamage)
		case i%5 == 4:
			add(at, "collect set", (*engine.Engine).PlayCollectSet)
		case i%3 == 1:
			add(at, "double jump", func(e *engine.Engine) { e.PlayJump(true) })
		case i%2 == 0:
			add(at, "jump", func(e *engine.Engine) { e.PlayJump(false) })
		default:
			add(at, "pickup", (*engine.Engine).PlayPickup)
		}
	}

	add(end, "game over", func(e *engine.Engine) {
		e.PlayDamage()
		e.SetMenuMode(true)
		e.StopBGM()
	})

	sort.SliceStable(s.Cues, func(i, j int) bool { return s.Cues[i].At < s.Cues[j].At })
	return s
}

// Play runs the session against e. advance moves time on: time.Sleep plays
// it live, an Offline output's Render plays it as fast as possible.
func (s Session) Play(e *engine.Engine, advance func(time.Duration)) {
	logger := logger.Ctx("Play").Vol(util.Normal)
	var now time.Duration
	for _, cue := range s.Cues {
		if cue.At > now {
			advance(cue.At - now)
			now = cue.At
		}
		logger.Log(now, cue.Name)
		cue.Do(e)
	}
	if s.Length > now {
		advance(s.Length - now)
	}
}
