package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/soocke/pixel-line-go/debug"
	"github.com/soocke/pixel-line-go/domain/window"
	"github.com/soocke/pixel-line-go/ui/presenter"
	"github.com/soocke/pixel-line-go/ui/theme"
	"github.com/soocke/pixel-line-go/ui/view"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	uiTick      = 50 * time.Millisecond
	keyPoll     = 30 * time.Millisecond
	debugPeriod = 2 * time.Second
)

// Run starts capture and the frame loop and blocks until the user stops the
// program (Insert key, window close or SIGINT/SIGTERM). A capture failure
// only ends capture; the frame loop keeps running on the last frame.
func Run(ctx context.Context, c *AppContainer, title string, width, height int) error {
	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := c.Config.Snapshot()
	if err := c.Source.Start(); err != nil {
		return err
	}
	defer c.Source.Stop()
	c.Loader.Watch(c.Config, c.Logger.With("component", "config"))

	if cfg.Debug {
		debug.StartGoroutineLogger(ctx, debugPeriod, c.Logger)
		debug.StartMemLogger(ctx, debugPeriod, c.Logger)
		debug.StartCaptureStatsLogger(ctx, debugPeriod, c.Source, c.Logger)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return c.FrameLoop.Run(gctx)
	})
	g.Go(func() error {
		select {
		case <-c.Source.Done():
			if err := c.Source.Err(); err != nil {
				c.Logger.Error("app.capture stopped", "error", err, "detection", "last frame")
			}
			return nil
		case <-gctx.Done():
			return nil
		}
	})
	g.Go(func() error { return watchStopKey(gctx, c) })

	if !cfg.Headless {
		runUI(gctx, c, title, width, height)
		c.RequestStop()
		cancel()
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	c.Logger.Info("app.stopped", "captures", c.Source.Stats().Captures)
	return nil
}

// watchStopKey polls the Insert key and requests a stop when it is pressed.
func watchStopKey(ctx context.Context, c *AppContainer) error {
	t := time.NewTicker(keyPoll)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
		if window.KeyDown(window.VKInsert) {
			c.Logger.Info("app.stop key pressed")
			c.RequestStop()
			return nil
		}
	}
}

// runUI builds the Tk window and blocks in the Tk event loop until the
// window is closed or ctx ends.
func runUI(ctx context.Context, c *AppContainer, title string, width, height int) {
	cfg := c.Config.Snapshot()
	theme.Init(false)
	App.WmTitle(title)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))

	var afterID string
	exit := func() {
		if afterID != "" {
			TclAfterCancel(afterID)
		}
		c.RequestStop()
		Destroy(App)
	}
	WmProtocol(App, "WM_DELETE_WINDOW", exit)

	root := view.NewRootView(c.Config, c.Loader.Path(), c.Logger.With("component", "ui"))
	toggle := presenter.NewCapturePresenter(c.Capture, c.Detection, root)
	root.Build(cfg.WindowTitle, toggle.Toggle, exit)

	preview := presenter.NewPreviewPresenter(c.Detection, c.Rate, c.Source, c.Config, root, root)
	loop := presenter.NewLoop(preview, nil)
	loop.Stop = func() bool { return ctx.Err() != nil || c.Stopped() }
	loop.OnStop = exit
	loop.Schedule = func() { afterID = TclAfter(uiTick, loop.Tick) }
	loop.Schedule()
	App.Wait()
}
