package indicator

// DefaultSupportResistanceWindow is the rolling window used to detect local
// extrema.
const DefaultSupportResistanceWindow = 5

// Levels holds the nearest support and resistance levels relative to the
// last close. A zero value with the corresponding Has flag false means no
// level was found on that side.
type Levels struct {
	Support       float64
	HasSupport    bool
	Resistance    float64
	HasResistance bool
}

// SupportResistance finds local extrema over a rolling window and returns
// the closest support below and resistance above the last close. Returns a
// zero Levels when the series is shorter than 2*window+1.
func SupportResistance(closes []float64, window int) Levels {
	if window <= 0 || len(closes) < 2*window+1 {
		return Levels{}
	}

	lastClose := closes[len(closes)-1]
	levels := Levels{}

	for i := window; i < len(closes)-window; i++ {
		isHigh := true
		isLow := true

		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}

			if closes[j] >= closes[i] {
				isHigh = false
			}

			if closes[j] <= closes[i] {
				isLow = false
			}
		}

		if isLow && closes[i] < lastClose {
			if !levels.HasSupport || closes[i] > levels.Support {
				levels.Support = closes[i]
				levels.HasSupport = true
			}
		}

		if isHigh && closes[i] > lastClose {
			if !levels.HasResistance || closes[i] < levels.Resistance {
				levels.Resistance = closes[i]
				levels.HasResistance = true
			}
		}
	}

	return levels
}
