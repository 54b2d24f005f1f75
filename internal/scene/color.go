package scene

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB triple with a fractional alpha, the way canvas
// rgba() strings express it.
type Color struct {
	R uint8   `json:"r"`
	G uint8   `json:"g"`
	B uint8   `json:"b"`
	A float64 `json:"a"`
}

func FromColorful(c colorful.Color, alpha float64) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: clamp01(alpha)}
}

func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// NRGBA converts to a non-premultiplied image color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(c.A * 255))}
}

// Blend mixes c toward o by t in [0, 1], interpolating RGB with
// go-colorful and alpha linearly.
func (c Color) Blend(o Color, t float64) Color {
	t = clamp01(t)
	return FromColorful(c.Colorful().BlendRgb(o.Colorful(), t), c.A+(o.A-c.A)*t)
}

// Hex renders the opaque part of the color as #rrggbb.
func (c Color) Hex() string {
	return c.Colorful().Hex()
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Palette holds every color the renderer draws with.
type Palette struct {
	Background Color
	Star       Color
	SunGlow    Color
	Sun        Color
	Trail      Color
	BodyGlow   Color
	Body       Color
}

func DefaultPalette() Palette {
	return Palette{
		Background: FromColorful(mustHex("#000000"), 1),
		Star:       FromColorful(mustHex("#ffffff"), 1),
		SunGlow:    FromColorful(mustHex("#ffc800"), 0.8),
		Sun:        FromColorful(mustHex("#ffa500"), 1),
		Trail:      FromColorful(mustHex("#808080"), 1),
		BodyGlow:   FromColorful(mustHex("#0096ff"), 0.5),
		Body:       FromColorful(mustHex("#0000ff"), 1),
	}
}
