package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "wavescope"

type Config struct {
	DefaultFolder string `koanf:"default_folder"` // tracks loaded when no file is given
	Notifications *bool  `koanf:"notifications"`  // desktop notifications (default: true)

	Playback PlaybackConfig `koanf:"playback"`
	Audio    AudioConfig    `koanf:"audio"`
	Log      LogConfig      `koanf:"log"`
}

// PlaybackConfig holds engine behaviour settings.
type PlaybackConfig struct {
	DefaultVolume *float64 `koanf:"default_volume"` // mute-restore level, 0..1 (default: 1.0)
	ThrottleMs    int      `koanf:"throttle_ms"`    // notification throttle window (default: 20)
	FrameRate     int      `koanf:"frame_rate"`     // time updater frames per second (default: 60)
	SeekStepS     int      `koanf:"seek_step_s"`    // left/right seek step (default: 5)
}

// AudioConfig holds output device settings.
type AudioConfig struct {
	SampleRate int `koanf:"sample_rate"` // default: 44100
	BufferMs   int `koanf:"buffer_ms"`   // speaker buffer (default: 100)
	FFTSize    int `koanf:"fft_size"`    // power of two, 32..32768 (default: 2048)
}

// LogConfig holds log file settings.
type LogConfig struct {
	File       string `koanf:"file"`        // empty means the XDG state dir
	Level      string `koanf:"level"`       // zerolog level name (default: "info")
	MaxSizeMB  int    `koanf:"max_size_mb"` // default: 5
	MaxBackups int    `koanf:"max_backups"` // default: 3
}

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given files in order, later ones overriding earlier
// ones. Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

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

	if cfg.DefaultFolder != "" {
		cfg.DefaultFolder = expandPath(cfg.DefaultFolder)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/wavescope/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// NotificationsEnabled reports whether desktop notifications are on.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback

	if cfg.DefaultVolume == nil || *cfg.DefaultVolume <= 0 || *cfg.DefaultVolume > 1 {
		v := 1.0
		cfg.DefaultVolume = &v
	}
	if cfg.ThrottleMs <= 0 {
		cfg.ThrottleMs = 20
	}
	if cfg.FrameRate <= 0 || cfg.FrameRate > 240 {
		cfg.FrameRate = 60
	}
	if cfg.SeekStepS <= 0 {
		cfg.SeekStepS = 5
	}

	return cfg
}

// Throttle returns the notification throttle window.
func (p PlaybackConfig) Throttle() time.Duration {
	return time.Duration(p.ThrottleMs) * time.Millisecond
}

// SeekStep returns the seek step.
func (p PlaybackConfig) SeekStep() time.Duration {
	return time.Duration(p.SeekStepS) * time.Second
}

// GetAudioConfig returns the audio configuration with defaults applied.
func (c *Config) GetAudioConfig() AudioConfig {
	cfg := c.Audio

	if cfg.SampleRate < 8000 || cfg.SampleRate > 192000 {
		cfg.SampleRate = 44100
	}
	if cfg.BufferMs <= 0 {
		cfg.BufferMs = 100
	}
	if !validFFTSize(cfg.FFTSize) {
		cfg.FFTSize = 2048
	}

	return cfg
}

// BufferSize returns the speaker buffer length.
func (a AudioConfig) BufferSize() time.Duration {
	return time.Duration(a.BufferMs) * time.Millisecond
}

func validFFTSize(n int) bool {
	return n >= 32 && n <= 32768 && n&(n-1) == 0
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log

	if cfg.File == "" {
		if path, err := xdg.StateFile(filepath.Join(appName, appName+".log")); err == nil {
			cfg.File = path
		}
	}
	switch cfg.Level {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		cfg.Level = "info"
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 5
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}

	return cfg
}
