package presenter

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/soocke/pixel-line-go/config"
	"github.com/soocke/pixel-line-go/domain/capture"
	"github.com/soocke/pixel-line-go/domain/linedetect"
	"github.com/soocke/pixel-line-go/ui/model"
)

type fakeSource struct {
	snap    capture.Snapshot
	ok      bool
	waitErr error
	block   bool // WaitFirst waits for ctx
}

func (s *fakeSource) Latest() (capture.Snapshot, bool) { return s.snap, s.ok }

func (s *fakeSource) WaitFirst(ctx context.Context) (capture.Snapshot, error) {
	if s.block {
		<-ctx.Done()
		return capture.Snapshot{}, ctx.Err()
	}
	if s.waitErr != nil {
		return capture.Snapshot{}, s.waitErr
	}
	return s.snap, nil
}

type fakeDetector struct {
	mu      sync.Mutex
	calls   int
	size    image.Point
	pointer image.Point
	params  linedetect.Params
	result  linedetect.Vector
	delay   time.Duration
}

func (d *fakeDetector) Detect(img image.Image, pointer image.Point, p linedetect.Params) linedetect.Vector {
	time.Sleep(d.delay)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	d.size = img.Bounds().Size()
	d.pointer = pointer
	d.params = p
	return d.result
}

func (d *fakeDetector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type recordingRenderer struct {
	mu  sync.Mutex
	got []model.Detection
}

func (r *recordingRenderer) Render(d model.Detection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, d)
}

func (r *recordingRenderer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func testStore(t *testing.T, mutate func(*config.Config)) *config.Store {
	t.Helper()
	c := *config.DefaultConfig()
	c.WindowTitle = "Game"
	if mutate != nil {
		mutate(&c)
	}
	s, err := config.NewStore(c)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return s
}

func blackSnapshot(w, h int, rect capture.WindowRect) capture.Snapshot {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	return capture.Snapshot{Frame: capture.NewFrameFromRGBA(img), Rect: rect, Sequence: 9, CapturedAt: time.Now()}
}

func pointerAt(p image.Point) func() (image.Point, error) {
	return func() (image.Point, error) { return p, nil }
}

func TestFrameLoop_TickWithoutFrame(t *testing.T) {
	det := &fakeDetector{}
	r := &recordingRenderer{}
	l := NewFrameLoop(&fakeSource{}, testStore(t, nil), pointerAt(image.Pt(0, 0)), det, r, nil)
	if l.Tick() {
		t.Fatalf("tick without frame must be skipped")
	}
	if det.Calls() != 0 || r.Len() != 0 {
		t.Fatalf("unexpected calls detector=%d renderer=%d", det.Calls(), r.Len())
	}
}

func TestFrameLoop_TickCropsAroundPointer(t *testing.T) {
	src := &fakeSource{snap: blackSnapshot(800, 600, capture.WindowRect{Left: 100, Top: 50, Width: 800, Height: 600}), ok: true}
	det := &fakeDetector{result: linedetect.Vector{X: 0.5, Y: 0.5}}
	r := &recordingRenderer{}
	store := testStore(t, func(c *config.Config) { c.HoughThreshold = 33 })
	rate := model.NewRateModel(time.Second)
	l := NewFrameLoop(src, store, pointerAt(image.Pt(500, 350)), det, r, nil)
	l.Rate = rate

	if !l.Tick() {
		t.Fatalf("expected tick to render")
	}
	if det.size != image.Pt(200, 200) || det.pointer != image.Pt(100, 100) {
		t.Fatalf("unexpected detector input size=%v pointer=%v", det.size, det.pointer)
	}
	if det.params.HoughThreshold != 33 {
		t.Fatalf("params not taken from config snapshot: %+v", det.params)
	}
	if r.Len() != 1 {
		t.Fatalf("expected one render, got %d", r.Len())
	}
	got := r.got[0]
	if got.Region != image.Rect(300, 200, 500, 400) || got.Sequence != 9 || got.Pointer != image.Pt(500, 350) {
		t.Fatalf("unexpected detection %+v", got)
	}
	if _, _, total := rate.Values(); total != 1 {
		t.Fatalf("rate model not updated")
	}
}

func TestFrameLoop_TickSkipsSmallRegion(t *testing.T) {
	src := &fakeSource{snap: blackSnapshot(800, 600, capture.WindowRect{Left: 100, Top: 50, Width: 800, Height: 600}), ok: true}
	det := &fakeDetector{}
	l := NewFrameLoop(src, testStore(t, nil), pointerAt(image.Pt(105, 350)), det, &recordingRenderer{}, nil)
	if l.Tick() || det.Calls() != 0 {
		t.Fatalf("region narrower than minimum must be skipped")
	}
}

func TestFrameLoop_TickSkipsWhenDisabledOrPointerFails(t *testing.T) {
	src := &fakeSource{snap: blackSnapshot(800, 600, capture.WindowRect{Width: 800, Height: 600}), ok: true}
	det := &fakeDetector{}
	l := NewFrameLoop(src, testStore(t, nil), pointerAt(image.Pt(400, 300)), det, &recordingRenderer{}, nil)
	l.Enabled = func() bool { return false }
	if l.Tick() {
		t.Fatalf("disabled loop must not tick")
	}
	l.Enabled = nil
	l.Pointer = func() (image.Point, error) { return image.Point{}, errors.New("no cursor") }
	if l.Tick() || det.Calls() != 0 {
		t.Fatalf("pointer failure must skip the iteration")
	}
}

func TestFrameLoop_BlackFrameYieldsZero(t *testing.T) {
	src := &fakeSource{snap: blackSnapshot(800, 600, capture.WindowRect{Width: 800, Height: 600}), ok: true}
	r := &recordingRenderer{}
	l := NewFrameLoop(src, testStore(t, nil), pointerAt(image.Pt(400, 300)), linedetect.NewDetector(nil), r, nil)
	if !l.Tick() {
		t.Fatalf("expected a rendered result")
	}
	if d := r.got[0]; d.Found() || d.Crop.Bounds().Size() != image.Pt(200, 200) {
		t.Fatalf("expected zero direction on 200x200 crop, got %+v", d.Direction)
	}
}

func TestFrameLoop_RunStopsOnFlag(t *testing.T) {
	src := &fakeSource{snap: blackSnapshot(400, 400, capture.WindowRect{Width: 400, Height: 400}), ok: true}
	det := &fakeDetector{}
	l := NewFrameLoop(src, testStore(t, func(c *config.Config) { c.TargetFPS = 1000 }), pointerAt(image.Pt(200, 200)), det, &recordingRenderer{}, nil)
	l.Stop = func() bool { return det.Calls() >= 3 }

	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop")
	}
	if det.Calls() != 3 {
		t.Fatalf("expected 3 iterations, got %d", det.Calls())
	}
}

func TestFrameLoop_RunEndsOnCancel(t *testing.T) {
	src := &fakeSource{snap: blackSnapshot(400, 400, capture.WindowRect{Width: 400, Height: 400}), ok: true}
	l := NewFrameLoop(src, testStore(t, nil), pointerAt(image.Pt(200, 200)), &fakeDetector{}, &recordingRenderer{}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("cancelled run should not fail: %v", err)
	}
}

func TestFrameLoop_RunKeepsTickingAfterCaptureFailure(t *testing.T) {
	// capture failed after publishing one good frame
	src := &fakeSource{snap: blackSnapshot(400, 400, capture.WindowRect{Width: 400, Height: 400}), ok: true, waitErr: capture.ErrCaptureFailed}
	det := &fakeDetector{}
	l := NewFrameLoop(src, testStore(t, func(c *config.Config) { c.TargetFPS = 1000 }), pointerAt(image.Pt(200, 200)), det, &recordingRenderer{}, nil)
	l.Stop = func() bool { return det.Calls() >= 5 }

	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not keep processing the last frame")
	}
}

func TestFrameLoop_RunWithoutAnyFrameSkipsUntilCancel(t *testing.T) {
	src := &fakeSource{waitErr: capture.ErrCaptureFailed}
	det := &fakeDetector{}
	l := NewFrameLoop(src, testStore(t, func(c *config.Config) { c.TargetFPS = 1000 }), pointerAt(image.Pt(0, 0)), det, &recordingRenderer{}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if time.Since(start) < 40*time.Millisecond {
		t.Fatalf("run returned before cancellation")
	}
	if det.Calls() != 0 {
		t.Fatalf("no frame must mean no detection, got %d calls", det.Calls())
	}
}

func TestFrameLoop_WarmUpWaitIsBounded(t *testing.T) {
	var buf syncBuffer
	src := &fakeSource{snap: blackSnapshot(400, 400, capture.WindowRect{Width: 400, Height: 400}), ok: true, block: true}
	det := &fakeDetector{}
	l := NewFrameLoop(src, testStore(t, func(c *config.Config) { c.TargetFPS = 1000 }), pointerAt(image.Pt(200, 200)), det, &recordingRenderer{}, slog.New(slog.NewTextHandler(&buf, nil)))
	l.FirstFrameTimeout = 10 * time.Millisecond
	l.Stop = func() bool { return det.Calls() >= 1 }

	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("warm-up wait did not time out")
	}
	if !strings.Contains(buf.String(), "awaiting first frame") {
		t.Fatalf("expected warm-up timeout to be logged: %s", buf.String())
	}
}

func TestFrameLoop_TickCountsOverruns(t *testing.T) {
	src := &fakeSource{snap: blackSnapshot(400, 400, capture.WindowRect{Width: 400, Height: 400}), ok: true}
	det := &fakeDetector{delay: 5 * time.Millisecond}
	l := NewFrameLoop(src, testStore(t, func(c *config.Config) { c.TargetFPS = 1000 }), pointerAt(image.Pt(200, 200)), det, &recordingRenderer{}, nil)
	l.Tick()
	if l.Overruns() != 1 {
		t.Fatalf("expected one overrun, got %d", l.Overruns())
	}
	det.delay = 0
	l.Config = testStore(t, func(c *config.Config) { c.TargetFPS = 30 })
	l.Tick()
	if l.Overruns() != 1 {
		t.Fatalf("fast iteration counted as overrun")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRenderers_FanOut(t *testing.T) {
	a, b := &recordingRenderer{}, &recordingRenderer{}
	Renderers{a, nil, b}.Render(model.Detection{Sequence: 1})
	if a.Len() != 1 || b.Len() != 1 {
		t.Fatalf("expected both renderers called")
	}
}

func TestLogRenderer_RateLimited(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogRenderer(slog.New(slog.NewTextHandler(&buf, nil)), nil, time.Second)
	base := time.Unix(100, 0)
	r.Render(model.Detection{Direction: linedetect.Vector{X: 1}, At: base})
	r.Render(model.Detection{Direction: linedetect.Vector{X: 1}, At: base.Add(500 * time.Millisecond)})
	r.Render(model.Detection{At: base.Add(1100 * time.Millisecond)})

	out := buf.String()
	if n := strings.Count(out, "\n"); n != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", n, out)
	}
	if !strings.Contains(out, "msg=detection ") || !strings.Contains(out, "msg=detection.none") {
		t.Fatalf("unexpected log output: %s", out)
	}
}

type fakePreview struct{ updates []image.Image }

func (p *fakePreview) UpdatePreview(img image.Image) { p.updates = append(p.updates, img) }

type fakeStats struct{ last Stats }

func (s *fakeStats) SetStats(st Stats) { s.last = st }

func TestPreviewPresenter_RedrawsOnlyNewDetections(t *testing.T) {
	m := model.NewDetectionModel()
	pv := &fakePreview{}
	st := &fakeStats{}
	p := NewPreviewPresenter(m, nil, nil, testStore(t, nil), pv, st)

	p.Tick(time.Now())
	if len(pv.updates) != 0 {
		t.Fatalf("no detection yet")
	}
	crop := image.NewNRGBA(image.Rect(0, 0, 130, 130))
	m.Render(model.Detection{Direction: linedetect.Vector{X: 1}, Local: image.Pt(65, 65), Crop: crop, At: time.Unix(1, 0)})
	p.Tick(time.Now())
	p.Tick(time.Now())
	if len(pv.updates) != 1 {
		t.Fatalf("expected one redraw, got %d", len(pv.updates))
	}
	if !st.last.Found || st.last.Magnitude != 1 {
		t.Fatalf("unexpected stats %+v", st.last)
	}
}

func TestAnnotate_DrawsLineAcrossCrop(t *testing.T) {
	crop := image.NewNRGBA(image.Rect(0, 0, 130, 130))
	green := color.NRGBA{G: 0xFF, A: 0xFF}
	out := Annotate(model.Detection{Direction: linedetect.Vector{X: 1}, Local: image.Pt(65, 20), Crop: crop}, green)
	if out.NRGBAAt(0, 20) != green || out.NRGBAAt(129, 20) != green {
		t.Fatalf("line not extended to crop edges")
	}
	if crop.NRGBAAt(0, 20) == green {
		t.Fatalf("source crop must not be modified")
	}
}

func TestLoop_StopCallsOnStop(t *testing.T) {
	scheduled, stopped := 0, 0
	l := NewLoop(nil, func() { scheduled++ })
	l.Tick()
	l.Stop = func() bool { return true }
	l.OnStop = func() { stopped++ }
	l.Tick()
	if scheduled != 1 || stopped != 1 {
		t.Fatalf("scheduled=%d stopped=%d", scheduled, stopped)
	}
}
