package viz

import (
	"math"

	"github.com/san-kum/orbitsim/internal/scene"
)

const (
	// Dots are either on or off, so faint stars and the oldest part of the
	// trail are dropped instead of blended.
	starAlphaCutoff  = 0.6
	trailAlphaCutoff = 0.15
)

// projection maps frame pixels onto canvas dots, preserving aspect ratio
// and centring the frame.
type projection struct {
	scale  float64
	ox, oy float64
}

func newProjection(c *Canvas, f *scene.Frame) projection {
	w, h := float64(c.Width*2), float64(c.Height*4)
	fw, fh := float64(f.Width), float64(f.Height)
	if fw <= 0 || fh <= 0 {
		return projection{scale: 1}
	}
	s := math.Min(w/fw, h/fh)
	return projection{scale: s, ox: (w - fw*s) / 2, oy: (h - fh*s) / 2}
}

func (p projection) point(x, y float64) (int, int) {
	return int(math.Round(p.ox + x*p.scale)), int(math.Round(p.oy + y*p.scale))
}

func (p projection) length(r float64) int {
	return int(math.Round(r * p.scale))
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// near bounds Bresenham walks for a body that has escaped far off screen.
func (c *Canvas) near(x, y int) bool {
	m := 2 * (c.Width*2 + c.Height*4)
	return x > -m && y > -m && x < m && y < m
}

// DrawFrame replays a composed frame onto the canvas in primitive order.
// Glows are skipped since dots cannot fade.
func DrawFrame(c *Canvas, f *scene.Frame) {
	if f == nil {
		return
	}
	proj := newProjection(c, f)
	for _, p := range f.Primitives {
		c.Pen = p.Layer
		switch p.Kind {
		case scene.KindClear:
			c.Clear()
		case scene.KindDisc:
			if !finite(p.X, p.Y, p.Radius) {
				continue
			}
			if p.Layer == scene.LayerStars && p.Color.A < starAlphaCutoff {
				continue
			}
			x, y := proj.point(p.X, p.Y)
			c.FillCircle(x, y, proj.length(p.Radius))
		case scene.KindSegment:
			if !finite(p.X, p.Y, p.X2, p.Y2) || p.Color.A < trailAlphaCutoff {
				continue
			}
			x0, y0 := proj.point(p.X, p.Y)
			x1, y1 := proj.point(p.X2, p.Y2)
			if !c.near(x0, y0) || !c.near(x1, y1) {
				continue
			}
			c.DrawLine(x0, y0, x1, y1)
		}
	}
}
