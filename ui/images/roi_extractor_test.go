package images

import (
	"image"
	"image/color"
	"testing"
)

func TestPointerRegion_Centers(t *testing.T) {
	frame := image.Rect(0, 0, 800, 600)
	r, local, ok := PointerRegion(frame, image.Pt(400, 300), 200)
	if !ok {
		t.Fatalf("expected region")
	}
	if r != image.Rect(300, 200, 500, 400) {
		t.Fatalf("unexpected region %v", r)
	}
	if local != image.Pt(100, 100) {
		t.Fatalf("unexpected local pointer %v", local)
	}
}

func TestPointerRegion_ClampsNearEdge(t *testing.T) {
	frame := image.Rect(0, 0, 800, 600)
	r, local, ok := PointerRegion(frame, image.Pt(30, 580), 300)
	if !ok {
		t.Fatalf("expected region")
	}
	if r != image.Rect(0, 430, 180, 600) {
		t.Fatalf("unexpected region %v", r)
	}
	if local != image.Pt(30, 150) {
		t.Fatalf("unexpected local pointer %v", local)
	}
}

func TestPointerRegion_TooSmall(t *testing.T) {
	frame := image.Rect(0, 0, 800, 600)
	if _, _, ok := PointerRegion(frame, image.Pt(10, 300), 200); ok {
		t.Fatalf("expected skip for 110px wide region")
	}
	if _, _, ok := PointerRegion(image.Rect(0, 0, 100, 100), image.Pt(50, 50), 200); ok {
		t.Fatalf("expected skip for small frame")
	}
	if _, _, ok := PointerRegion(frame, image.Pt(-500, -500), 200); ok {
		t.Fatalf("expected skip for pointer outside the frame")
	}
}

func TestPointerRegion_MinimumIsInclusive(t *testing.T) {
	frame := image.Rect(0, 0, 800, 600)
	r, _, ok := PointerRegion(frame, image.Pt(400, 300), MinRegionSide)
	if !ok {
		t.Fatalf("expected %d px region to be accepted", MinRegionSide)
	}
	if r.Dx() != MinRegionSide || r.Dy() != MinRegionSide {
		t.Fatalf("unexpected size %v", r.Size())
	}
}

func TestToFrame(t *testing.T) {
	if got := ToFrame(image.Pt(500, 400), image.Pt(100, 50)); got != image.Pt(400, 350) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestExtendToBounds(t *testing.T) {
	b := image.Rect(0, 0, 200, 100)

	s, e := ExtendToBounds(1, 0, image.Pt(50, 40), b)
	if s != image.Pt(0, 40) || e != image.Pt(200, 40) {
		t.Fatalf("horizontal: got %v %v", s, e)
	}

	s, e = ExtendToBounds(0, 1, image.Pt(50, 40), b)
	if s != image.Pt(50, 0) || e != image.Pt(50, 100) {
		t.Fatalf("vertical: got %v %v", s, e)
	}

	s, e = ExtendToBounds(0, 0, image.Pt(50, 40), b)
	if s != b.Min || e != b.Max {
		t.Fatalf("zero: got %v %v", s, e)
	}
}

func TestScaleToFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	out := ScaleToFit(src, 100, 100)
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 50 {
		t.Fatalf("unexpected size %v", out.Bounds())
	}
	if ScaleToFit(src, 500, 500) != image.Image(src) {
		t.Fatalf("fitting image should be returned unchanged")
	}
}

func TestDrawLine(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	red := color.RGBA{255, 0, 0, 255}
	DrawLine(img, image.Pt(-5, 2), image.Pt(20, 2), red)
	for x := 0; x < 10; x++ {
		if img.RGBAAt(x, 2) != red {
			t.Fatalf("pixel %d not drawn", x)
		}
	}
	if img.RGBAAt(0, 3) == red {
		t.Fatalf("unexpected pixel drawn")
	}
}
