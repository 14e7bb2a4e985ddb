package player

// Equalizer band centers and slider ranges.
const (
	BassFrequency   = 200.0
	MidFrequency    = 1000.0
	MidQ            = 1.0
	TrebleFrequency = 3000.0

	MinBandGainDB = -20.0
	MaxBandGainDB = 20.0
	MinVolume     = 0.0
	MaxVolume     = 2.0
)

// Settings holds the three band gains (dB) and the volume scalar.
type Settings struct {
	Bass   float64
	Mid    float64
	Treble float64
	Volume float64
}

// DefaultSettings is a flat response at unity gain.
func DefaultSettings() Settings {
	return Settings{Volume: 1}
}

// Clamp returns the settings limited to the slider ranges.
func (s Settings) Clamp() Settings {
	return Settings{
		Bass:   clamp(s.Bass, MinBandGainDB, MaxBandGainDB),
		Mid:    clamp(s.Mid, MinBandGainDB, MaxBandGainDB),
		Treble: clamp(s.Treble, MinBandGainDB, MaxBandGainDB),
		Volume: clamp(s.Volume, MinVolume, MaxVolume),
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
