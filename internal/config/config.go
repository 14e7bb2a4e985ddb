package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/eqwaves/internal/player"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

const (
	defaultSampleRate = 44100
	defaultBufferMS   = 100
	defaultFPS        = 30

	defaultAppName      = "EQ Waves"
	defaultDesktopEntry = "eqwaves"
)

type Config struct {
	Audio    AudioConfig    `koanf:"audio"`
	Spectrum SpectrumConfig `koanf:"spectrum"`
	Storage  StorageConfig  `koanf:"storage"`
	Log      LogConfig      `koanf:"log"`
	Shuffle  ShuffleConfig  `koanf:"shuffle"`
	UI       UIConfig       `koanf:"ui"`
}

// AudioConfig holds output device settings.
type AudioConfig struct {
	SampleRate      int `koanf:"sample_rate"`      // device rate in Hz (default: 44100)
	BufferMS        int `koanf:"buffer_ms"`        // speaker buffer (default: 100)
	ResampleQuality int `koanf:"resample_quality"` // 1-64 (default: 4)
}

// SpectrumConfig holds analyser and refresh settings.
type SpectrumConfig struct {
	FFTSize   int      `koanf:"fft_size"`  // power of two, >= 32 (default: 256)
	Smoothing *float64 `koanf:"smoothing"` // 0 <= s < 1 (default: 0.8)
	MinDB     float64  `koanf:"min_db"`    // (default: -100)
	MaxDB     float64  `koanf:"max_db"`    // (default: -30)
	FPS       int      `koanf:"fps"`       // frames per second (default: 30)
}

// StorageConfig selects where the playlist and settings live.
type StorageConfig struct {
	Backend string `koanf:"backend"` // "sqlite" or "badger" (default: "sqlite")
	Path    string `koanf:"path"`    // empty means the XDG data dir
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error (default: info)
	Format string `koanf:"format"` // "text" or "json" (default: "text")
	File   string `koanf:"file"`   // empty means the XDG state dir
}

// UIConfig holds terminal display settings.
type UIConfig struct {
	Icons         string `koanf:"icons"`         // "nerd", "unicode", or "none" (default: "none")
	Notifications bool   `koanf:"notifications"` // desktop "Now playing" notices (default: false)
	AppName       string `koanf:"app_name"`      // sender shown on notices (default: "EQ Waves")
	DesktopEntry  string `koanf:"desktop_entry"` // .desktop file name, without suffix (default: "eqwaves")
}

// ShuffleConfig tunes shuffle draws.
type ShuffleConfig struct {
	MaxAttempts int `koanf:"max_attempts"` // redraws before avoiding repeats outright (default: 8)
}

func Load() (*Config, error) {
	return loadPaths(getConfigPaths())
}

func loadPaths(paths []string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if cfg.Storage.Path != "" {
		cfg.Storage.Path = expandPath(cfg.Storage.Path)
	}
	cfg.UI.Icons = strings.ToLower(strings.TrimSpace(cfg.UI.Icons))
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/eqwaves/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "eqwaves", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// SampleRate returns the device sample rate with defaults applied.
func (c *Config) SampleRate() beep.SampleRate {
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return defaultSampleRate
	}
	return beep.SampleRate(c.Audio.SampleRate)
}

// Buffer returns the speaker buffer length with defaults applied.
func (c *Config) Buffer() time.Duration {
	if c.Audio.BufferMS <= 0 {
		return defaultBufferMS * time.Millisecond
	}
	return time.Duration(c.Audio.BufferMS) * time.Millisecond
}

// ResampleQuality returns the resampler quality with defaults applied.
func (c *Config) ResampleQuality() int {
	if c.Audio.ResampleQuality < 1 || c.Audio.ResampleQuality > 64 {
		return player.DefaultResampleQuality
	}
	return c.Audio.ResampleQuality
}

// Analyser returns the spectrum tap configuration with defaults applied.
func (c *Config) Analyser() player.AnalyserConfig {
	cfg := player.DefaultAnalyserConfig()
	s := c.Spectrum

	if s.FFTSize >= 32 && s.FFTSize&(s.FFTSize-1) == 0 {
		cfg.FFTSize = s.FFTSize
	}
	if s.Smoothing != nil && *s.Smoothing >= 0 && *s.Smoothing < 1 {
		cfg.Smoothing = *s.Smoothing
	}
	if s.MinDB < s.MaxDB {
		cfg.MinDB, cfg.MaxDB = s.MinDB, s.MaxDB
	}
	return cfg
}

// FrameInterval returns the spectrum refresh period with defaults applied.
func (c *Config) FrameInterval() time.Duration {
	fps := c.Spectrum.FPS
	if fps <= 0 || fps > 240 {
		fps = defaultFPS
	}
	return time.Second / time.Duration(fps)
}

// StorageBackend returns the configured backend, defaulting to SQLite.
func (c *Config) StorageBackend() string {
	if c.Storage.Backend == BackendBadger {
		return BackendBadger
	}
	return BackendSQLite
}

// ShuffleAttempts returns the shuffle redraw cap, or 0 for the default.
func (c *Config) ShuffleAttempts() int {
	return max(c.Shuffle.MaxAttempts, 0)
}

// AppName returns the name notifications are sent under.
func (c *Config) AppName() string {
	if name := strings.TrimSpace(c.UI.AppName); name != "" {
		return name
	}
	return defaultAppName
}

// DesktopEntry returns the desktop entry notifications point at.
func (c *Config) DesktopEntry() string {
	if entry := strings.TrimSuffix(strings.TrimSpace(c.UI.DesktopEntry), ".desktop"); entry != "" {
		return entry
	}
	return defaultDesktopEntry
}
