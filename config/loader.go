package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PIXELLINE_TARGET_FPS.
const EnvPrefix = "PIXELLINE"

// Loader merges defaults, an optional config file, the environment and any
// bound flags into a Config.
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader returns a loader reading path. An empty path or a missing file
// means defaults plus overrides.
func NewLoader(path string) *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())
	if path != "" {
		v.SetConfigFile(path)
	}
	return &Loader{v: v, path: path}
}

// Viper exposes the underlying instance so command-line flags can be bound.
func (l *Loader) Viper() *viper.Viper { return l.v }

// Path returns the config file path, possibly empty.
func (l *Loader) Path() string { return l.path }

// Load reads and validates the merged configuration.
func (l *Loader) Load() (*Config, error) {
	if l.fileExists() {
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", l.path, err)
		}
	}
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Watch pushes edits of the config file into store until the process exits.
// Invalid edits are logged and ignored. It is a no-op without a file.
func (l *Loader) Watch(store *Store, logger *slog.Logger) {
	if !l.fileExists() {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.Load()
		if err != nil {
			if logger != nil {
				logger.Warn("config.reload failed", "file", e.Name, "op", e.Op.String(), "error", err)
			}
			return
		}
		if err := store.Replace(*cfg); err != nil {
			if logger != nil {
				logger.Warn("config.reload rejected", "error", err)
			}
			return
		}
		if logger != nil {
			logger.Info("config.reloaded", "file", e.Name)
		}
	})
	l.v.WatchConfig()
}

func (l *Loader) fileExists() bool {
	if l.path == "" {
		return false
	}
	_, err := os.Stat(l.path)
	return !errors.Is(err, os.ErrNotExist)
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("window_title", d.WindowTitle)
	v.SetDefault("capture_size", d.CaptureSize)
	v.SetDefault("hough_threshold", d.HoughThreshold)
	v.SetDefault("min_line_length", d.MinLineLength)
	v.SetDefault("max_line_gap", d.MaxLineGap)
	v.SetDefault("target_fps", d.TargetFPS)
	v.SetDefault("line_color", d.LineColor)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("headless", d.Headless)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}
