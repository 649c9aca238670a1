// Package pattern maps a position in the 16 step loop to the voices that
// should sound there.
package pattern

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Steps is the length of the loop
const Steps = 16

type Kind int

const (
	Kick Kind = iota
	Snare
	HiHat
	Bass
	Lead
)

func (k Kind) String() string {
	switch k {
	case Kick:
		return "kick"
	case Snare:
		return "snare"
	case HiHat:
		return "hihat"
	case Bass:
		return "bass"
	case Lead:
		return "lead"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Trigger asks for one voice at Time. Accent means "accented" for kicks,
// "open" for hats and "pop" for bass. Level scales the voice's gain. How long
// the voice lasts is up to the program it is rendered with.
type Trigger struct {
	Kind   Kind
	Time   float64
	Freq   float64
	Accent bool
	Level  float64
}

// Rand decides whether ghost notes fire. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Table is the static description of one musical feel. Step masks are indexed
// by step; a zero BassRoots entry mutes that quarter of the bar.
type Table struct {
	Name string

	KickSteps   [Steps]bool
	AccentSteps [Steps]bool

	SnareSteps  [Steps]bool
	GhostSteps  [Steps]bool
	GhostChance float64
	GhostLevel  float64

	HatSteps  [Steps]bool
	OpenSteps [Steps]bool

	BassRoots [Steps / 4]float64
	BassRests [Steps]bool
	PopSteps  [Steps]bool

	LeadSteps  [Steps]bool
	Scale      []float64
	LeadStride int
}

func mask(steps ...int) (m [Steps]bool) {
	for _, s := range steps {
		m[s] = true
	}
	return m
}

func everyN(n, offset int) (m [Steps]bool) {
	for s := offset; s < Steps; s += n {
		m[s] = true
	}
	return m
}

func union(a, b [Steps]bool) (m [Steps]bool) {
	for i := range m {
		m[i] = a[i] || b[i]
	}
	return m
}

// Retro is the default feel: four on the floor with a double kick at the
// end of the bar, a C-F-G-C rolling bass and a sparse C major arpeggio lead.
var Retro = Table{
	Name: "retro",

	KickSteps:   union(everyN(4, 0), mask(14)),
	AccentSteps: mask(0),

	SnareSteps:  mask(4, 12),
	GhostSteps:  mask(7, 10, 15),
	GhostChance: 0.2,
	GhostLevel:  0.35,

	HatSteps:  everyN(2, 0),
	OpenSteps: everyN(4, 2),

	BassRoots: [4]float64{65.41, 87.31, 98.00, 130.81}, // C2 F2 G2 C3
	BassRests: mask(2, 10),
	PopSteps:  mask(7, 15),

	LeadSteps:  mask(0, 3, 6, 9, 12, 14),
	Scale:      []float64{523.25, 659.25, 783.99, 1046.50},
	LeadStride: 1,
}

// Driving is a busier feel for the late game: sixteenth hats and a minor
// bass line.
var Driving = Table{
	Name: "driving",

	KickSteps:   union(everyN(4, 0), mask(10, 14)),
	AccentSteps: mask(0, 8),

	SnareSteps:  mask(4, 12),
	GhostSteps:  mask(3, 11, 13, 15),
	GhostChance: 0.3,
	GhostLevel:  0.3,

	HatSteps:  everyN(1, 0),
	OpenSteps: everyN(4, 2),

	BassRoots: [4]float64{55.00, 65.41, 49.00, 61.74}, // A1 C2 G1 B1
	BassRests: mask(3, 11),
	PopSteps:  mask(6, 14),

	LeadSteps:  mask(0, 2, 5, 8, 11, 13),
	Scale:      []float64{440.00, 523.25, 587.33, 659.25, 783.99},
	LeadStride: 3,
}

// Feels lists the built in tables by name
var Feels = map[string]*Table{
	Retro.Name:   &Retro,
	Driving.Name: &Driving,
}

// Generator binds a table to the random source used for ghost notes
type Generator struct {
	Table *Table
	rng   Rand
}

// NewGenerator returns a generator over t. A nil rng gets a time seeded one.
func NewGenerator(t *Table, rng Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{Table: t, rng: rng}
}

// Generate returns every trigger for step at time at. Steps outside the loop
// are folded back into it. Kinds are emitted in a fixed order.
func (g *Generator) Generate(step int, at float64) []Trigger {
	t := g.Table
	step = ((step % Steps) + Steps) % Steps
	var out []Trigger

	if t.KickSteps[step] {
		out = append(out, Trigger{Kind: Kick, Time: at, Accent: t.AccentSteps[step], Level: 1})
	}

	if t.SnareSteps[step] {
		out = append(out, Trigger{Kind: Snare, Time: at, Level: 1})
	} else if t.GhostSteps[step] && g.rng.Float64() < t.GhostChance {
		out = append(out, Trigger{Kind: Snare, Time: at, Level: t.GhostLevel})
	}

	if t.HatSteps[step] {
		out = append(out, Trigger{Kind: HiHat, Time: at, Accent: t.OpenSteps[step], Level: 1})
	}

	if root := t.BassRoots[step/4]; root > 0 && !t.BassRests[step] {
		tr := Trigger{Kind: Bass, Time: at, Freq: root, Level: 1}
		if t.PopSteps[step] {
			tr.Freq *= 2
			tr.Accent = true
		}
		out = append(out, tr)
	}

	if t.LeadSteps[step] && len(t.Scale) > 0 {
		idx := (step*t.LeadStride + int(math.Floor(at))) % len(t.Scale)
		if idx < 0 {
			idx += len(t.Scale)
		}
		out = append(out, Trigger{Kind: Lead, Time: at, Freq: t.Scale[idx], Level: 1})
	}

	return out
}
