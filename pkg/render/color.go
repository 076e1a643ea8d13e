package render

import (
	"image/color"
	"math/rand/v2"

	"github.com/taigrr/softrast/pkg/math3d"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}

// Shade scales the RGB channels by intensity, clamping each to [0, 255].
// Alpha is left unchanged.
func Shade(c Color, intensity float64) Color {
	return Color{
		R: scaleChannel(c.R, intensity),
		G: scaleChannel(c.G, intensity),
		B: scaleChannel(c.B, intensity),
		A: c.A,
	}
}

func scaleChannel(v uint8, s float64) uint8 {
	return uint8(math3d.Clamp(float64(v)*s, 0, 255))
}

// RandomColor returns an opaque color with uniformly random channels.
func RandomColor(rng *rand.Rand) Color {
	return RGB(uint8(rng.IntN(256)), uint8(rng.IntN(256)), uint8(rng.IntN(256)))
}
