package playback

// speedLadder is the fixed set of playback rate multipliers.
// Speed changes move an index along the ladder; the multiplier is never
// computed any other way.
var speedLadder = []float64{0.25, 0.50, 0.75, 1.00, 1.25, 1.50, 2.00}

// defaultSpeedIndex selects 1.00x.
const defaultSpeedIndex = 3

// SpeedLadder returns a copy of the multiplier ladder.
func SpeedLadder() []float64 {
	out := make([]float64, len(speedLadder))
	copy(out, speedLadder)

	return out
}
