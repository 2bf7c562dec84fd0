package strategy

import (
	"github.com/aurora-lab/aurora-trading/internal/indicator"
	"github.com/aurora-lab/aurora-trading/internal/types"
)

// VolumeFilterStrategy takes RSI entries only when the last volume runs
// above its EMA by the configured surge ratio. Weak volume demotes the
// entry to HOLD.
type VolumeFilterStrategy struct {
	config Config
}

func (s *VolumeFilterStrategy) ID() ID {
	return IDVolumeFilter
}

func (s *VolumeFilterStrategy) Evaluate(input Input) types.Signal {
	closes := input.Series.Closes()
	volumes := input.Series.Volumes()

	minLen := s.config.RSIPeriod + 1
	if s.config.VolumeEMAPeriod > minLen {
		minLen = s.config.VolumeEMAPeriod
	}

	if len(closes) < minLen {
		return insufficientData(s.ID(), input)
	}

	base := (&RSIOnlyStrategy{config: s.config}).Evaluate(input)
	base.Strategy = string(s.ID())

	if !base.IsActionable() {
		return base
	}

	volumeEMA := indicator.EMA(volumes, s.config.VolumeEMAPeriod)
	emaValue := volumeEMA[len(volumeEMA)-1]
	lastVolume := volumes[len(volumes)-1]

	if base.RawValue == nil {
		base.RawValue = map[string]float64{}
	}

	base.RawValue["volume"] = lastVolume
	base.RawValue["volume_ema"] = emaValue

	if lastVolume > emaValue*s.config.VolumeSurgeRatio {
		base.ReasonTags = append(base.ReasonTags, types.ReasonTagVolumeSurge)

		return base
	}

	return holdSignal(s.ID(), input, []string{types.ReasonTagVolumeWeak}, base.RawValue)
}

var _ Strategy = (*VolumeFilterStrategy)(nil)
