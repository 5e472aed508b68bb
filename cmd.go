package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/soocke/pixel-line-go/app"
	"github.com/soocke/pixel-line-go/config"
)

const (
	appTitle  = "Pixel Line"
	appWidth  = 760
	appHeight = 420
)

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"window":          "window_title",
	"backend":         "backend",
	"headless":        "headless",
	"debug":           "debug",
	"log-level":       "log_level",
	"log-format":      "log_format",
	"capture-size":    "capture_size",
	"hough-threshold": "hough_threshold",
	"min-line-length": "min_line_length",
	"max-line-gap":    "max_line_gap",
	"target-fps":      "target_fps",
	"line-color":      "line_color",
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	d := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "pixel-line",
		Short:         "Track the direction of the bright line under the mouse pointer in a window",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader := config.NewLoader(cfgPath)
			if err := bindFlags(loader, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := loader.Load()
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				return err
			}
			logger, err := NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				return err
			}
			logger.Info("config loaded",
				"window", cfg.WindowTitle,
				"backend", cfg.Backend,
				"capture_size", cfg.CaptureSize,
				"target_fps", cfg.TargetFPS,
				"file", cfgPath,
			)

			c, err := app.BuildContainer(loader, cfg, logger)
			if err != nil {
				logger.Error("startup failed", "error", err)
				return err
			}
			if err := app.Run(cmd.Context(), c, appTitle, appWidth, appHeight); err != nil {
				logger.Error("stopped with error", "error", err)
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfgPath, "config", "c", "config.json", "path to the JSON config file")
	f.StringP("window", "w", "", "title of the window to capture (required)")
	f.String("backend", d.Backend, "capture backend: gdi or screen")
	f.Bool("headless", d.Headless, "run without the preview window and log detections instead")
	f.Bool("debug", d.Debug, "log runtime and capture statistics periodically")
	f.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	f.String("log-format", d.LogFormat, "log format: json or text")
	f.Int("capture-size", d.CaptureSize, "side of the square area analysed around the pointer")
	f.Int("hough-threshold", d.HoughThreshold, "minimum votes for a line candidate")
	f.Int("min-line-length", d.MinLineLength, "minimum segment length in pixels")
	f.Int("max-line-gap", d.MaxLineGap, "maximum gap joined inside one segment")
	f.Int("target-fps", d.TargetFPS, "frame loop rate")
	f.String("line-color", d.LineColor, "preview line colour as #RRGGBB")
	return cmd
}

// bindFlags makes explicitly set flags override file and environment values.
func bindFlags(loader *config.Loader, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := loader.Viper().BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}
