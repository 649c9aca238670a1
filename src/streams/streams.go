// Package streams holds the beep plumbing between synthesized voices and the
// output: a sample-counting Timeline that doubles as the audio clock, and a
// Recorder that pulls rendered audio in fixed quanta.
package streams

import (
	"github.com/faiface/beep"

	"tjweldon/runbeat/src/util"
)

// Format is the output format every voice is rendered in
var Format = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 3}

var logger = util.Logger{}.Ctx("streams")

// addInto sums src into dst sample by sample
func addInto(dst, src [][2]float64) {
	for i := range src {
		dst[i][0] += src[i][0]
		dst[i][1] += src[i][1]
	}
}

func zero(samples [][2]float64) {
	for i := range samples {
		samples[i] = [2]float64{}
	}
}
