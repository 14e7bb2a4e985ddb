// Package settings stores the player's scalar preferences as key/value strings.
package settings

import (
	"errors"
	"strconv"

	"github.com/llehouerou/eqwaves/internal/player"
)

// Keys under which each setting is stored.
const (
	KeyBass    = "eq.bass"
	KeyMid     = "eq.mid"
	KeyTreble  = "eq.treble"
	KeyVolume  = "eq.volume"
	KeyShuffle = "shuffle"
	KeyTheme   = "theme"
)

// DefaultTheme is used until the user picks another one.
const DefaultTheme = "dark"

// KV is a durable string key/value store.
type KV interface {
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
}

// Values is the full set of persisted preferences.
type Values struct {
	Equalizer player.Settings
	Shuffle   bool
	Theme     string
}

// Defaults returns the values used when nothing has been saved.
func Defaults() Values {
	return Values{
		Equalizer: player.DefaultSettings(),
		Theme:     DefaultTheme,
	}
}

// Load reads every setting. Missing or unparsable values keep their
// default; read errors are joined and returned with the best-effort result.
func Load(kv KV) (Values, error) {
	v := Defaults()
	if kv == nil {
		return v, nil
	}

	var errs []error
	readFloat := func(key string, dst *float64) {
		s, ok, err := kv.GetSetting(key)
		if err != nil {
			errs = append(errs, err)
			return
		}
		if !ok {
			return
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*dst = f
		}
	}

	readFloat(KeyBass, &v.Equalizer.Bass)
	readFloat(KeyMid, &v.Equalizer.Mid)
	readFloat(KeyTreble, &v.Equalizer.Treble)
	readFloat(KeyVolume, &v.Equalizer.Volume)
	v.Equalizer = v.Equalizer.Clamp()

	if s, ok, err := kv.GetSetting(KeyShuffle); err != nil {
		errs = append(errs, err)
	} else if ok {
		if b, err := strconv.ParseBool(s); err == nil {
			v.Shuffle = b
		}
	}

	if s, ok, err := kv.GetSetting(KeyTheme); err != nil {
		errs = append(errs, err)
	} else if ok && s != "" {
		v.Theme = s
	}

	return v, errors.Join(errs...)
}

// SaveEqualizer stores the band gains and volume.
func SaveEqualizer(kv KV, eq player.Settings) error {
	format := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	return errors.Join(
		kv.SetSetting(KeyBass, format(eq.Bass)),
		kv.SetSetting(KeyMid, format(eq.Mid)),
		kv.SetSetting(KeyTreble, format(eq.Treble)),
		kv.SetSetting(KeyVolume, format(eq.Volume)),
	)
}

// SaveShuffle stores the shuffle flag.
func SaveShuffle(kv KV, shuffle bool) error {
	return kv.SetSetting(KeyShuffle, strconv.FormatBool(shuffle))
}

// SaveTheme stores the theme name.
func SaveTheme(kv KV, theme string) error {
	return kv.SetSetting(KeyTheme, theme)
}
