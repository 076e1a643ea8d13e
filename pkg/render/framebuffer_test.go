package render

import (
	"testing"
)

func TestFramebufferClear(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {3, 5}, {64, 48}} {
		fb := NewFramebuffer(size[0], size[1])
		c := RGBA(10, 20, 30, 40)
		fb.Clear(c)

		for y := range fb.Height {
			for x := range fb.Width {
				if got := fb.GetPixel(x, y); got != c {
					t.Fatalf("%dx%d: pixel (%d,%d) = %v, want %v", fb.Width, fb.Height, x, y, got, c)
				}
			}
		}
	}
}

func TestFramebufferPixelBounds(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.SetPixel(3, 2, ColorRed)
	fb.SetPixel(-1, 0, ColorRed)
	fb.SetPixel(4, 0, ColorRed)
	fb.SetPixel(0, 3, ColorRed)

	if got := fb.GetPixel(3, 2); got != ColorRed {
		t.Errorf("GetPixel(3,2) = %v, want red", got)
	}
	if got := fb.GetPixel(4, 0); got != (Color{}) {
		t.Errorf("out of bounds GetPixel = %v, want transparent", got)
	}

	written := 0
	for i := 0; i < len(fb.Pix); i += 4 {
		if fb.Pix[i] != 0 {
			written++
		}
	}
	if written != 1 {
		t.Errorf("%d pixels written, want 1", written)
	}

	// Row-major, top row first.
	raw := fb.Raw()
	if i := 4 * (2*4 + 3); raw[i] != 255 || raw[i+3] != 255 {
		t.Errorf("raw bytes at %d = %v, want red", i, raw[i:i+4])
	}
}

func TestFramebufferToImage(t *testing.T) {
	fb := NewFramebuffer(37, 23)
	for y := range fb.Height {
		for x := range fb.Width {
			fb.SetPixel(x, y, RGBA(uint8(x), uint8(y), uint8(x+y), 255))
		}
	}

	img := fb.ToImage()
	if b := img.Bounds(); b.Dx() != 37 || b.Dy() != 23 {
		t.Fatalf("bounds = %v, want 37x23", b)
	}
	for y := range fb.Height {
		for x := range fb.Width {
			if got, want := img.RGBAAt(x, y), fb.GetPixel(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}

	if empty := NewFramebuffer(0, 0).ToImage(); !empty.Bounds().Empty() {
		t.Errorf("empty framebuffer image bounds = %v", empty.Bounds())
	}
}

func TestCellColor(t *testing.T) {
	if c := cellColor(Color{R: 9}); c != nil {
		t.Errorf("transparent pixel = %v, want nil", c)
	}
	if c := cellColor(ColorGreen); c != ColorGreen {
		t.Errorf("opaque pixel = %v, want green", c)
	}
}

func BenchmarkFramebufferToImage(b *testing.B) {
	fb := NewFramebuffer(800, 600)
	fb.Clear(ColorBlue)

	for b.Loop() {
		_ = fb.ToImage()
	}
}
