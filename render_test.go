package heartfall

import "testing"

func TestHeartMask(t *testing.T) {
	img := heartMask(32, HeartColor)
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("bounds = %v, want 32x32", b)
	}
	if a := img.RGBAAt(16, 16).A; a != 255 {
		t.Errorf("center alpha = %d, want 255", a)
	}
	for _, pt := range [][2]int{{0, 0}, {31, 0}, {0, 31}, {31, 31}} {
		if a := img.RGBAAt(pt[0], pt[1]).A; a != 0 {
			t.Errorf("corner %v alpha = %d, want 0", pt, a)
		}
	}
	if heartMask(0, HeartColor).Bounds().Dx() != 0 {
		t.Error("zero size should produce an empty image")
	}
}

func TestPillMask(t *testing.T) {
	img := pillMask(120, 44, ColorWhite)
	if img.RGBAAt(60, 22).A != 255 {
		t.Error("pill center not filled")
	}
	if img.RGBAAt(0, 0).A != 0 || img.RGBAAt(119, 43).A != 0 {
		t.Error("pill corners filled")
	}
}

func TestColorToRGBAPremultiplies(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 0, A: 0.5}.toRGBA()
	if c.R != 127 || c.G != 63 || c.B != 0 || c.A != 127 {
		t.Errorf("toRGBA = %v, want {127 63 0 127}", c)
	}
}

func TestRangeRandom(t *testing.T) {
	r := Range{Min: 2, Max: 2}
	if r.Random(nil) != 2 {
		t.Error("degenerate range should return Min")
	}
	r = Range{Min: -1, Max: 1}
	for range 100 {
		v := r.Random(nil)
		if v < -1 || v >= 1 {
			t.Fatalf("Random = %v outside [-1, 1)", v)
		}
	}
}
