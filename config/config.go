package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/soocke/pixel-line-go/domain/linedetect"
)

var (
	// ErrEmptyWindowTitle is returned when no capture target was named.
	ErrEmptyWindowTitle = errors.New("window title must not be empty")
	// ErrConfigOutOfRange matches every *RangeError.
	ErrConfigOutOfRange = errors.New("config value out of range")
	// ErrInvalidLineColor is returned for a line colour that is not #RRGGBB.
	ErrInvalidLineColor = errors.New("invalid line color")
	// ErrInvalidBackend is returned for an unknown capture backend.
	ErrInvalidBackend = errors.New("invalid capture backend")
)

// Capture backends.
const (
	BackendGDI    = "gdi"
	BackendScreen = "screen"
)

// Config holds runtime configuration for capture, detection and rendering.
// Fields may be loaded from a file, the environment and command-line flags.
type Config struct {
	WindowTitle string `json:"window_title" mapstructure:"window_title"`

	// Detection parameters
	CaptureSize    int `json:"capture_size" mapstructure:"capture_size"`
	HoughThreshold int `json:"hough_threshold" mapstructure:"hough_threshold"`
	MinLineLength  int `json:"min_line_length" mapstructure:"min_line_length"`
	MaxLineGap     int `json:"max_line_gap" mapstructure:"max_line_gap"`
	TargetFPS      int `json:"target_fps" mapstructure:"target_fps"`

	LineColor string `json:"line_color" mapstructure:"line_color"`
	Backend   string `json:"backend" mapstructure:"backend"`
	Headless  bool   `json:"headless" mapstructure:"headless"`

	Debug     bool   `json:"debug" mapstructure:"debug"`
	LogLevel  string `json:"log_level" mapstructure:"log_level"`
	LogFormat string `json:"log_format" mapstructure:"log_format"`
}

// DefaultConfig returns a Config populated with standard defaults. The
// window title has no default and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		CaptureSize:    200,
		HoughThreshold: 50,
		MinLineLength:  40,
		MaxLineGap:     10,
		TargetFPS:      144,
		LineColor:      "#00ff00",
		Backend:        BackendGDI,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// Range is the inclusive bound of a numeric setting.
type Range struct {
	Key      string
	Min, Max int
}

// Ranges lists the numeric settings in validation order.
var Ranges = []Range{
	{Key: "capture_size", Min: 120, Max: 800},
	{Key: "hough_threshold", Min: 1, Max: 140},
	{Key: "min_line_length", Min: 1, Max: 200},
	{Key: "max_line_gap", Min: 1, Max: 100},
	{Key: "target_fps", Min: 30, Max: 1000},
}

// RangeFor returns the bound for key.
func RangeFor(key string) (Range, bool) {
	for _, r := range Ranges {
		if r.Key == key {
			return r, true
		}
	}
	return Range{}, false
}

// RangeError reports the first numeric setting outside its bound.
type RangeError struct {
	Key      string
	Value    int
	Min, Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %d and %d, got %d", e.Key, e.Min, e.Max, e.Value)
}

func (e *RangeError) Unwrap() error { return ErrConfigOutOfRange }

// Field returns a pointer to the numeric setting named key, or nil.
func (c *Config) Field(key string) *int {
	switch key {
	case "capture_size":
		return &c.CaptureSize
	case "hough_threshold":
		return &c.HoughThreshold
	case "min_line_length":
		return &c.MinLineLength
	case "max_line_gap":
		return &c.MaxLineGap
	case "target_fps":
		return &c.TargetFPS
	}
	return nil
}

// SetField parses text into the numeric setting named key. Values outside
// the setting's range are clamped to the nearest bound.
func (c *Config) SetField(key, text string) error {
	dst := c.Field(key)
	r, ok := RangeFor(key)
	if dst == nil || !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = min(max(v, r.Min), r.Max)
	return nil
}

// Validate checks the window title first, then each numeric range in order,
// then the rendering options. It reports only the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.WindowTitle) == "" {
		return ErrEmptyWindowTitle
	}
	for _, r := range Ranges {
		v := *c.Field(r.Key)
		if v < r.Min || v > r.Max {
			return &RangeError{Key: r.Key, Value: v, Min: r.Min, Max: r.Max}
		}
	}
	if _, err := c.LineRGBA(); err != nil {
		return err
	}
	switch c.Backend {
	case BackendGDI, BackendScreen:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Backend)
	}
	return nil
}

// LineRGBA parses LineColor.
func (c *Config) LineRGBA() (color.RGBA, error) {
	col, err := colorful.Hex(c.LineColor)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidLineColor, c.LineColor)
	}
	r, g, b := col.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}, nil
}

// Params returns the detection settings carried by c.
func (c *Config) Params() linedetect.Params {
	return linedetect.Params{
		HoughThreshold: c.HoughThreshold,
		MinLineLength:  c.MinLineLength,
		MaxLineGap:     c.MaxLineGap,
	}
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
