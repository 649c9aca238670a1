package synth

// Pickup is a quick rising sine chirp
func Pickup() Program {
	return Program{
		Name: "pickup",
		Layers: []Layer{{
			Wave: Sine,
			Freq: Const(1200).ExpTo(2000, 0.1),
			Gain: Const(0.5).ExpTo(0.01, 0.15),
			Stop: 0.15,
		}},
	}
}

var triad = [...]float64{523.25, 659.25, 783.99} // C5 E5 G5

// CollectSet is a fast ascending major triad
func CollectSet() Program {
	const stagger, dur = 0.04, 0.3
	p := Program{Name: "collect-set"}
	for i, f := range triad {
		p.Layers = append(p.Layers, Layer{
			Wave:  Triangle,
			Freq:  Const(f),
			Gain:  Const(0.3).ExpTo(0.01, dur),
			Start: float64(i) * stagger,
			Stop:  float64(i)*stagger + dur,
		})
	}
	return p
}

// Jump is a rising sine sweep, an octave higher for the double jump
func Jump(double bool) Program {
	from, to := 200.0, 450.0
	name := "jump"
	if double {
		from, to = 400, 800
		name = "jump-double"
	}
	return Program{
		Name: name,
		Layers: []Layer{{
			Wave: Sine,
			Freq: Const(from).ExpTo(to, 0.15),
			Gain: Const(0.2).ExpTo(0.01, 0.15),
			Stop: 0.15,
		}},
	}
}

// Damage layers a falling sawtooth over a noise burst
func Damage() Program {
	return Program{
		Name: "damage",
		Layers: []Layer{
			{
				Wave: Saw,
				Freq: Const(100).ExpTo(20, 0.3),
				Gain: Const(0.6).ExpTo(0.01, 0.3),
				Stop: 0.3,
			},
			{
				Wave: Noise,
				Gain: Const(0.5).ExpTo(0.01, 0.2),
				Stop: 0.3,
			},
		},
	}
}
