package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Audio      string
	Play       string
	Pause      string
	Stop       string
	Loading    string
	Shuffle    string
	Sequential string
	Volume     string
	Equalizer  string
}

var (
	nerdIcons = Icons{
		Audio:      "\uf001 ",   // nf-fa-music
		Play:       "\U000f040a", // nf-md-play
		Pause:      "\U000f03e4", // nf-md-pause
		Stop:       "\U000f04db", // nf-md-stop
		Loading:    "\U000f051f", // nf-md-timer_sand
		Shuffle:    "\U000f049f", // nf-md-shuffle
		Sequential: "\U000f049e", // nf-md-shuffle_disabled
		Volume:     "\U000f057e", // nf-md-volume_high
		Equalizer:  "\U000f0ea2", // nf-md-equalizer
	}

	unicodeIcons = Icons{
		Audio:      "🎵 ",
		Play:       "▶",
		Pause:      "⏸",
		Stop:       "⏹",
		Loading:    "⏳",
		Shuffle:    "🔀",
		Sequential: "➡",
		Volume:     "🔊",
		Equalizer:  "🎚",
	}

	noneIcons = Icons{
		Play:       ">",
		Pause:      "||",
		Stop:       "[]",
		Loading:    "..",
		Shuffle:    "[S]",
		Sequential: "[-]",
		Volume:     "vol",
		Equalizer:  "eq",
	}

	// current holds the active icon set
	current = noneIcons
)

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	default:
		current = noneIcons
	}
}

// FormatAudio formats a track name with the appropriate icon.
func FormatAudio(name string) string {
	return current.Audio + name
}

func Play() string       { return current.Play }
func Pause() string      { return current.Pause }
func Stop() string       { return current.Stop }
func Loading() string    { return current.Loading }
func Shuffle() string    { return current.Shuffle }
func Sequential() string { return current.Sequential }
func Volume() string     { return current.Volume }
func Equalizer() string  { return current.Equalizer }
