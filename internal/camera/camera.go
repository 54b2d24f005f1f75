// Package camera maps world coordinates onto the canvas.
package camera

import "github.com/san-kum/orbitsim/internal/dynamo"

// Transform is rebuilt every frame from the live zoom, the camera mode and
// the current body position.
type Transform struct {
	Zoom        float64
	CenterOnSun bool
	Body        dynamo.Vec2
	Center      dynamo.Vec2
}

// New builds a transform for a width x height canvas.
func New(zoom float64, centerOnSun bool, body dynamo.Vec2, width, height float64) Transform {
	return Transform{
		Zoom:        zoom,
		CenterOnSun: centerOnSun,
		Body:        body,
		Center:      dynamo.Vec2{X: width / 2, Y: height / 2},
	}
}

// WorldToScreen maps a world point to canvas pixels. In sun-centred mode the
// origin sits at the canvas centre; otherwise the body does.
func (t Transform) WorldToScreen(p dynamo.Vec2) dynamo.Vec2 {
	if !t.CenterOnSun {
		p = p.Sub(t.Body)
	}
	return t.Center.Add(p.Scale(t.Zoom))
}

func (t Transform) Sun() dynamo.Vec2 {
	return t.WorldToScreen(dynamo.Vec2{})
}

// BodyScreen is the body's canvas position. When following the body it is
// pinned to the canvas centre exactly.
func (t Transform) BodyScreen() dynamo.Vec2 {
	if !t.CenterOnSun {
		return t.Center
	}
	return t.WorldToScreen(t.Body)
}

// Radius scales a pixel radius by the zoom factor.
func (t Transform) Radius(r float64) float64 {
	return r * t.Zoom
}
