package config

import (
	"encoding/json"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	c := *DefaultConfig()
	c.WindowTitle = "Game"
	return c
}

func TestDefaultConfigNeedsWindowTitle(t *testing.T) {
	c := DefaultConfig()
	assert.ErrorIs(t, c.Validate(), ErrEmptyWindowTitle)

	c.WindowTitle = "Game"
	assert.NoError(t, c.Validate())
}

func TestValidateRanges(t *testing.T) {
	for _, r := range Ranges {
		t.Run(r.Key, func(t *testing.T) {
			for _, v := range []int{r.Min, r.Max} {
				c := validConfig()
				*c.Field(r.Key) = v
				assert.NoError(t, c.Validate(), "value %d", v)
			}
			for _, v := range []int{r.Min - 1, r.Max + 1} {
				c := validConfig()
				*c.Field(r.Key) = v
				err := c.Validate()
				require.ErrorIs(t, err, ErrConfigOutOfRange, "value %d", v)
				var re *RangeError
				require.True(t, errors.As(err, &re))
				assert.Equal(t, r.Key, re.Key)
				assert.Equal(t, v, re.Value)
			}
		})
	}
}

func TestValidateReportsFirstProblem(t *testing.T) {
	c := validConfig()
	c.WindowTitle = " "
	c.CaptureSize = 0
	assert.ErrorIs(t, c.Validate(), ErrEmptyWindowTitle)

	c.WindowTitle = "Game"
	c.MaxLineGap = 0
	c.TargetFPS = 0
	var re *RangeError
	require.ErrorAs(t, c.Validate(), &re)
	assert.Equal(t, "capture_size", re.Key)

	c.CaptureSize = 200
	require.ErrorAs(t, c.Validate(), &re)
	assert.Equal(t, "max_line_gap", re.Key)
}

func TestValidateLineColorAndBackend(t *testing.T) {
	c := validConfig()
	c.LineColor = "green"
	assert.ErrorIs(t, c.Validate(), ErrInvalidLineColor)

	c = validConfig()
	c.Backend = "dxgi"
	assert.ErrorIs(t, c.Validate(), ErrInvalidBackend)
}

func TestSetFieldClampsToRange(t *testing.T) {
	c := validConfig()
	require.NoError(t, c.SetField("capture_size", " 50 "))
	assert.Equal(t, 120, c.CaptureSize)
	require.NoError(t, c.SetField("target_fps", "5000"))
	assert.Equal(t, 1000, c.TargetFPS)
	require.NoError(t, c.SetField("max_line_gap", "7"))
	assert.Equal(t, 7, c.MaxLineGap)

	assert.Error(t, c.SetField("hough_threshold", "abc"))
	assert.Equal(t, 50, c.HoughThreshold)
	assert.Error(t, c.SetField("window_title", "1"))
	require.NoError(t, c.Validate())
}

func TestLineRGBA(t *testing.T) {
	c := validConfig()
	c.LineColor = "#ff8000"
	got, err := c.LineRGBA()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 128, 0, 255}, got)
}

func TestParams(t *testing.T) {
	c := validConfig()
	c.HoughThreshold, c.MinLineLength, c.MaxLineGap = 60, 30, 7
	p := c.Params()
	assert.Equal(t, 60, p.HoughThreshold)
	assert.Equal(t, 30, p.MinLineLength)
	assert.Equal(t, 7, p.MaxLineGap)
}

func TestSaveWritesIndentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	c := validConfig()
	require.NoError(t, c.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"window_title\": \"Game\"")

	var back Config
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, c, back)
}

func TestLoaderMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PIXELLINE_WINDOW_TITLE", "Game")
	l := NewLoader(filepath.Join(t.TempDir(), "absent.json"))
	cfg, err := l.Load()
	require.NoError(t, err)
	want := validConfig()
	assert.Equal(t, &want, cfg)
}

func TestLoaderWithoutTitleFails(t *testing.T) {
	_, err := NewLoader("").Load()
	assert.ErrorIs(t, err, ErrEmptyWindowTitle)
}

func TestLoaderReadsFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	c := validConfig()
	c.CaptureSize = 320
	c.MinLineLength = 25
	require.NoError(t, c.Save(path))
	t.Setenv("PIXELLINE_HOUGH_THRESHOLD", "70")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "Game", cfg.WindowTitle)
	assert.Equal(t, 320, cfg.CaptureSize)
	assert.Equal(t, 25, cfg.MinLineLength)
	assert.Equal(t, 70, cfg.HoughThreshold)
}

func TestLoaderRejectsOutOfRangeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"window_title":"Game","capture_size":50}`), 0o644))
	_, err := NewLoader(path).Load()
	assert.ErrorIs(t, err, ErrConfigOutOfRange)
}

func TestLoaderWatchUpdatesStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	c := validConfig()
	require.NoError(t, c.Save(path))

	l := NewLoader(path)
	cfg, err := l.Load()
	require.NoError(t, err)
	store, err := NewStore(*cfg)
	require.NoError(t, err)
	l.Watch(store, nil)

	c.TargetFPS = 60
	require.NoError(t, c.Save(path))

	assert.Eventually(t, func() bool { return store.Snapshot().TargetFPS == 60 }, 3*time.Second, 20*time.Millisecond)
}

func TestStoreUpdate(t *testing.T) {
	s, err := NewStore(validConfig())
	require.NoError(t, err)

	got, err := s.Update(func(c *Config) { c.CaptureSize = 300 })
	require.NoError(t, err)
	assert.Equal(t, 300, got.CaptureSize)
	assert.Equal(t, 300, s.Snapshot().CaptureSize)

	_, err = s.Update(func(c *Config) { c.CaptureSize = 10; c.TargetFPS = 60 })
	assert.ErrorIs(t, err, ErrConfigOutOfRange)
	snap := s.Snapshot()
	assert.Equal(t, 300, snap.CaptureSize)
	assert.Equal(t, 144, snap.TargetFPS, "rejected update must not leak partially")
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	s, err := NewStore(validConfig())
	require.NoError(t, err)
	snap := s.Snapshot()
	snap.CaptureSize = 999
	assert.Equal(t, 200, s.Snapshot().CaptureSize)
}

func TestNewStoreRejectsInvalid(t *testing.T) {
	_, err := NewStore(*DefaultConfig())
	assert.ErrorIs(t, err, ErrEmptyWindowTitle)
}

func TestStoreConcurrentWritersKeepPairs(t *testing.T) {
	c := validConfig()
	c.HoughThreshold, c.MinLineLength = 40, 40
	s, err := NewStore(c)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = s.Update(func(c *Config) {
					c.HoughThreshold = v + 1
					c.MinLineLength = v + 1
				})
			}
		}(i)
	}
	for i := 0; i < 1000; i++ {
		snap := s.Snapshot()
		assert.Equal(t, snap.HoughThreshold, snap.MinLineLength)
	}
	wg.Wait()
}
