// Package render provides software rasterization for softrast: the camera,
// the color and depth buffers, and the triangle and line rasterizers.
package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Framebuffer is the color buffer: width×height RGBA8 pixels, row-major,
// top row first.
type Framebuffer struct {
	Width  int
	Height int
	Pix    []uint8 // 4 bytes per pixel
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 4*width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	n := len(fb.Pix)
	if n == 0 {
		return
	}
	fb.Pix[0], fb.Pix[1], fb.Pix[2], fb.Pix[3] = c.R, c.G, c.B, c.A
	for i := 4; i < n; i *= 2 {
		copy(fb.Pix[i:], fb.Pix[:i])
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	i := 4 * (y*fb.Width + x)
	fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2], fb.Pix[i+3] = c.R, c.G, c.B, c.A
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	i := 4 * (y*fb.Width + x)
	return Color{R: fb.Pix[i], G: fb.Pix[i+1], B: fb.Pix[i+2], A: fb.Pix[i+3]}
}

// Raw returns the pixel bytes. The slice aliases the framebuffer.
func (fb *Framebuffer) Raw() []uint8 {
	return fb.Pix
}

// ToImage copies the framebuffer into a standard Go image.RGBA. Rows are
// split into bands that are copied concurrently; every destination pixel
// depends only on its own four source bytes.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	if fb.Width == 0 || fb.Height == 0 {
		return img
	}

	workers := runtime.GOMAXPROCS(0)
	band := max((fb.Height+workers-1)/workers, 1)

	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < fb.Height; y0 += band {
		y1 := min(y0+band, fb.Height)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				src := fb.Pix[4*y*fb.Width : 4*(y+1)*fb.Width]
				dst := img.Pix[y*img.Stride : y*img.Stride+4*fb.Width]
				for x := 0; x < fb.Width; x++ {
					i := 4 * x
					dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i], src[i+1], src[i+2], src[i+3]
				}
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}
	return nil
}
