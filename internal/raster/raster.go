// Package raster turns composed scene frames into images using the
// anti-aliasing vector rasterizer from golang.org/x/image.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/equations"
	"github.com/san-kum/orbitsim/internal/scene"
)

// circleSteps is the polygon resolution used for discs and glows.
const circleSteps = 48

var unitCircle = dynamo.DefaultTrigTable.UnitCircle(circleSteps)

// Rasterizer draws frames onto RGBA images. It reuses its scratch
// rasterizer between calls and is not safe for concurrent use.
type Rasterizer struct {
	z *vector.Rasterizer
	// Overlay draws the equations for the frame's law in the top-left
	// corner. The bitmap font has no Greek glyphs, so the ASCII form is used.
	Overlay bool
}

func New() *Rasterizer {
	return &Rasterizer{z: vector.NewRasterizer(scene.CanvasWidth, scene.CanvasHeight)}
}

// Render draws f onto a new image sized to the frame.
func (r *Rasterizer) Render(f *scene.Frame) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	r.Draw(dst, f)
	return dst
}

// Draw replays every primitive of f onto dst in order.
func (r *Rasterizer) Draw(dst *image.RGBA, f *scene.Frame) {
	b := dst.Bounds()
	for _, p := range f.Primitives {
		if !finite(p.X, p.Y, p.X2, p.Y2, p.Radius) {
			continue
		}
		switch p.Kind {
		case scene.KindClear:
			draw.Draw(dst, b, image.NewUniform(p.Color.NRGBA()), image.Point{}, draw.Src)
		case scene.KindDisc:
			r.fill(dst, circleBounds(p.X, p.Y, p.Radius), image.NewUniform(p.Color.NRGBA()), func(ox, oy float64) {
				circle(r.z, p.X-ox, p.Y-oy, p.Radius)
			})
		case scene.KindGlow:
			g := &RadialGradient{CX: p.X, CY: p.Y, R: p.Radius, Color: p.Color}
			r.fill(dst, circleBounds(p.X, p.Y, p.Radius), g, func(ox, oy float64) {
				circle(r.z, p.X-ox, p.Y-oy, p.Radius)
			})
		case scene.KindSegment:
			if p.Color.A <= 0 {
				continue
			}
			hw := p.Width/2 + 1
			box := image.Rect(
				int(math.Floor(math.Min(p.X, p.X2)-hw)), int(math.Floor(math.Min(p.Y, p.Y2)-hw)),
				int(math.Ceil(math.Max(p.X, p.X2)+hw)), int(math.Ceil(math.Max(p.Y, p.Y2)+hw)),
			)
			r.fill(dst, box, image.NewUniform(p.Color.NRGBA()), func(ox, oy float64) {
				segment(r.z, p.X-ox, p.Y-oy, p.X2-ox, p.Y2-oy, p.Width)
			})
		}
	}
	if r.Overlay {
		DrawText(dst, equations.ASCII(f.Params), 8, 16, color.NRGBA{R: 220, G: 220, B: 220, A: 255})
	}
}

// fill rasterizes the path built by path into box only. The path is built
// relative to the box origin, which is passed as (ox, oy).
func (r *Rasterizer) fill(dst *image.RGBA, box image.Rectangle, src image.Image, path func(ox, oy float64)) {
	box = box.Intersect(dst.Bounds())
	if box.Empty() {
		return
	}
	r.z.Reset(box.Dx(), box.Dy())
	path(float64(box.Min.X), float64(box.Min.Y))
	r.z.Draw(dst, box, src, box.Min)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func circleBounds(cx, cy, radius float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(cx-radius-1)), int(math.Floor(cy-radius-1)),
		int(math.Ceil(cx+radius+1)), int(math.Ceil(cy+radius+1)),
	)
}

func circle(z *vector.Rasterizer, cx, cy, radius float64) {
	if radius <= 0 {
		return
	}
	z.MoveTo(float32(cx+radius), float32(cy))
	for _, p := range unitCircle[1:] {
		z.LineTo(float32(cx+radius*p.X), float32(cy+radius*p.Y))
	}
	z.ClosePath()
}

// segment outlines a line of the given width as a quad. Degenerate
// segments add nothing.
func segment(z *vector.Rasterizer, x1, y1, x2, y2, width float64) {
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l == 0 || width <= 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	z.MoveTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x2+nx), float32(y2+ny))
	z.LineTo(float32(x2-nx), float32(y2-ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.ClosePath()
}

// RadialGradient is an unbounded source image that blends linearly from
// Color at the centre to Edge at radius R. A zero Edge means Color faded
// to transparent.
type RadialGradient struct {
	CX, CY, R float64
	Color     scene.Color
	Edge      *scene.Color
}

func (g *RadialGradient) ColorModel() color.Model { return color.NRGBAModel }

func (g *RadialGradient) Bounds() image.Rectangle {
	return image.Rect(-1e9, -1e9, 1e9, 1e9)
}

func (g *RadialGradient) At(x, y int) color.Color {
	d := math.Hypot(float64(x)+0.5-g.CX, float64(y)+0.5-g.CY)
	t := 1.0
	if g.R > 0 {
		t = math.Max(0, 1-d/g.R)
	}
	edge := g.Color.WithAlpha(0)
	if g.Edge != nil {
		edge = *g.Edge
	}
	return g.Color.Blend(edge, 1-t).NRGBA()
}

// DrawText writes lines with the 7x13 bitmap face, baseline of the first
// line at (x, y).
func DrawText(dst draw.Image, lines []string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
	}
	lineHeight := basicfont.Face7x13.Metrics().Height.Ceil() + 2
	for i, line := range lines {
		d.Dot = fixed.P(x, y+i*lineHeight)
		d.DrawString(line)
	}
}
