package util

import (
	"fmt"
	"log"
	"math"
	"strings"
)

// Clamp pins x into [lo, hi]. NaN collapses to lo so callers never propagate it.
func Clamp(x, lo, hi float64) float64 {
	switch {
	case math.IsNaN(x), x < lo:
		return lo
	case x > hi:
		return hi
	}
	return x
}

// Finite reports whether x is usable as a control value
func Finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func Map[T, U any](mapFunc func(T) U, s []T) (out []U) {
	for _, t := range s {
		out = append(out, mapFunc(t))
	}

	return out
}

type LogVolume int

const (
	Silent LogVolume = 1 << iota
	Quieter
	Quiet
	Normal
	Loud
	Louder
	Loudest
)

func (lv LogVolume) String() string {
	switch lv {
	case Silent:
		return "Silent"
	case Quieter:
		return "Quieter"
	case Quiet:
		return "Quiet"
	case Normal:
		return "Normal"
	case Loud:
		return "Loud"
	case Louder:
		return "Louder"
	case Loudest:
		return "Loudest"
	default:
		return fmt.Sprintf("%d", lv)
	}
}

// ParseLogVolume maps a volume name back to its level, falling back to Normal
func ParseLogVolume(name string) LogVolume {
	for lv := Silent; lv <= Loudest; lv <<= 1 {
		if strings.EqualFold(lv.String(), name) {
			return lv
		}
	}
	return Normal
}

// only Loud and above print until a caller turns the volume down
var filterBelow = func(lv LogVolume) *LogVolume { return &lv }(Loud)

// FilterBelow sets the log level below which messages will not be printed
func (lv LogVolume) FilterBelow() LogVolume {
	*filterBelow = lv
	return lv
}

// Logger is a context-aware logger
type Logger struct {
	prefixes []any
	Volume   LogVolume
}

// Ctx returns a copy of the logger with the given prefix added after all pre-existing prefixes
func (l Logger) Ctx(prefix string) Logger {
	prefixes := make([]any, 0, len(l.prefixes)+1)
	prefixes = append(prefixes, l.prefixes...)
	return Logger{append(prefixes, prefix+":"), l.Volume}
}

// Vol is like a -v option. A Loud logger will print all messages,
// a Silent one will print none
func (l Logger) Vol(v LogVolume) Logger {
	l.Volume = v
	return l
}

// Enabled reports whether Log would print anything. Hot paths check it
// before building their arguments.
func (l Logger) Enabled() bool { return l.Volume >= *filterBelow }

// Log shares its interface with log.Println
func (l Logger) Log(msgs ...any) {
	if l.Enabled() {
		prefixes := append([]any{fmt.Sprintf("[%s]", l.Volume)}, l.prefixes...)
		log.Println(append(prefixes, msgs...)...)
	}
}
