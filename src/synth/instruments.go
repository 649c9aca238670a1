package synth

// Drum and melodic instrument programs for the background loop. Every program
// decays to (near) silence at its Stop time.

// Kick is a pitch-swept sine; accent starts higher and hits harder
func Kick(accent bool) Program {
	freq, gain := 150.0, 0.8
	if accent {
		freq, gain = 180, 1.0
	}
	return Program{
		Name: "kick",
		Layers: []Layer{{
			Wave: Sine,
			Freq: Const(freq).ExpTo(0.01, 0.5),
			Gain: Const(gain).ExpTo(0.01, 0.5),
			Stop: 0.5,
		}},
	}
}

// Snare is a high-passed noise burst for the snap plus a short triangle body
func Snare() Program {
	return Program{
		Name: "snare",
		Layers: []Layer{
			{
				Wave:   Noise,
				Filter: Filter{Type: HighPass, Cutoff: Const(1000)},
				Gain:   Const(0.4).ExpTo(0.01, 0.2),
				Stop:   0.2,
			},
			{
				Wave: Triangle,
				Freq: Const(200),
				Gain: Const(0.2).ExpTo(0.01, 0.1),
				Stop: 0.1,
			},
		},
	}
}

// HiHat is noise through a steep high-pass. Open hats ring longer and louder.
func HiHat(open bool) Program {
	gain, decay := 0.1, 0.05
	if open {
		gain, decay = 0.15, 0.1
	}
	return Program{
		Name: "hihat",
		Layers: []Layer{{
			Wave:   Noise,
			Filter: Filter{Type: HighPass, Cutoff: Const(8000), Q: 1.2},
			Gain:   Const(gain).ExpTo(0.01, decay),
			Stop:   decay,
		}},
	}
}

// Bass is a sawtooth with an enveloped low-pass for the "wub". The pop variant
// opens the filter further and plays louder.
func Bass(freq float64, pop bool) Program {
	peak, gain := 800.0, 0.3
	if pop {
		peak, gain = 1600, 0.4
	}
	return Program{
		Name: "bass",
		Layers: []Layer{{
			Wave: Saw,
			Freq: Const(freq),
			Filter: Filter{
				Type:   LowPass,
				Cutoff: Const(200).LinearTo(peak, 0.05).ExpTo(200, 0.2),
				Q:      2,
			},
			Gain: Const(gain).LinearTo(0, 0.2),
			Stop: 0.2,
		}},
	}
}

const leadDetune = 7 // cents either side

// Lead is a pair of detuned squares with a single echo repeat
func Lead(freq float64) Program {
	layer := func(cents float64) Layer {
		return Layer{
			Wave:   Square,
			Freq:   Const(freq),
			Detune: cents,
			Gain:   Const(0.05).ExpTo(0.005, 0.15),
			Stop:   0.15,
		}
	}
	return Program{
		Name:   "lead",
		Layers: []Layer{layer(-leadDetune), layer(leadDetune)},
		Echo:   &Echo{Delay: 0.12, Mix: 0.35, Repeats: 1},
	}
}
