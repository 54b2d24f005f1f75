package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/orbitsim/internal/scene"
)

func toRL(c scene.Color) rl.Color {
	n := c.NRGBA()
	return rl.NewColor(n.R, n.G, n.B, n.A)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// DrawFrame replays a composed frame with raylib draw calls, offset by
// (ox, oy) in window pixels.
func DrawFrame(f *scene.Frame, ox, oy float32) {
	if f == nil {
		return
	}
	for _, p := range f.Primitives {
		switch p.Kind {
		case scene.KindClear:
			rl.DrawRectangle(int32(ox), int32(oy), int32(p.X2), int32(p.Y2), toRL(p.Color))
		case scene.KindDisc:
			if !finite(p.X, p.Y, p.Radius) {
				continue
			}
			rl.DrawCircleV(rl.NewVector2(ox+float32(p.X), oy+float32(p.Y)), float32(p.Radius), toRL(p.Color))
		case scene.KindGlow:
			if !finite(p.X, p.Y, p.Radius) {
				continue
			}
			inner := toRL(p.Color)
			outer := inner
			outer.A = 0
			rl.DrawCircleGradient(int32(ox+float32(p.X)), int32(oy+float32(p.Y)), float32(p.Radius), inner, outer)
		case scene.KindSegment:
			if !finite(p.X, p.Y, p.X2, p.Y2) {
				continue
			}
			rl.DrawLineEx(
				rl.NewVector2(ox+float32(p.X), oy+float32(p.Y)),
				rl.NewVector2(ox+float32(p.X2), oy+float32(p.Y2)),
				float32(p.Width), toRL(p.Color))
		}
	}
}

// drawSeries plots values as a line strip inside the given rectangle.
func drawSeries(values []float64, x, y, w, h float32, col rl.Color) {
	if len(values) < 2 {
		return
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	points := make([]rl.Vector2, len(values))
	for i, v := range values {
		px := x + float32(i)/float32(len(values)-1)*w
		py := y + h - float32((v-lo)/(hi-lo))*h
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, col)
}
