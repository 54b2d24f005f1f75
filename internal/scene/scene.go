// Package scene composes the per-frame draw list: background, starfield,
// sun, fading trail and body, in that order.
//
// A composed [Frame] is plain data. Hosts rasterize it (see package raster),
// serialize it (SVG, JSON over a WebSocket) or replay it onto a native
// drawing API; none of them feed anything back into the simulation.
package scene

import (
	"github.com/san-kum/orbitsim/internal/camera"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/trail"
)

const (
	CanvasWidth  = 600
	CanvasHeight = 600

	SunGlowRadius  = 20.0
	SunRadius      = 10.0
	BodyGlowRadius = 12.0
	BodyRadius     = 5.0
	TrailWidth     = 1.0
)

type Kind string

const (
	KindClear   Kind = "clear"
	KindDisc    Kind = "disc"
	KindGlow    Kind = "glow"
	KindSegment Kind = "segment"
)

// Layer groups primitives by what they depict. Layers always appear in
// declaration order within a frame.
type Layer int

const (
	LayerBackground Layer = iota
	LayerStars
	LayerSun
	LayerTrail
	LayerBody
)

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerStars:
		return "stars"
	case LayerSun:
		return "sun"
	case LayerTrail:
		return "trail"
	case LayerBody:
		return "body"
	}
	return "unknown"
}

func (l Layer) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Primitive is one draw call. Discs and glows use (X, Y, Radius); a glow
// fades radially from Color at the centre to transparent at Radius.
// Segments run from (X, Y) to (X2, Y2).
type Primitive struct {
	Kind   Kind    `json:"kind"`
	Layer  Layer   `json:"layer"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	X2     float64 `json:"x2,omitempty"`
	Y2     float64 `json:"y2,omitempty"`
	Radius float64 `json:"r,omitempty"`
	Width  float64 `json:"w,omitempty"`
	Color  Color   `json:"color"`
}

// Frame is everything a host needs to present one animation step.
type Frame struct {
	Index       uint64          `json:"index"`
	Run         uint64          `json:"run"`
	Time        float64         `json:"time"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Law         physics.LawKind `json:"law"`
	Params      physics.Params  `json:"params"`
	Speed       float64         `json:"speed"`
	Zoom        float64         `json:"zoom"`
	CenterOnSun bool            `json:"centerOnSun"`
	Body        dynamo.Vec2     `json:"body"`
	Velocity    dynamo.Vec2     `json:"velocity"`
	Energy      float64         `json:"energy"`
	TrailLen    int             `json:"trailLen"`
	Equations   []string        `json:"equations"`
	Primitives  []Primitive     `json:"primitives"`
}

// Renderer composes frames for a fixed canvas and starfield.
type Renderer struct {
	Width   int
	Height  int
	Stars   StarField
	Palette Palette
}

func NewRenderer(width, height int, stars StarField) *Renderer {
	return &Renderer{
		Width:   width,
		Height:  height,
		Stars:   stars,
		Palette: DefaultPalette(),
	}
}

// Camera builds the transform for this renderer's canvas.
func (r *Renderer) Camera(zoom float64, centerOnSun bool, body dynamo.Vec2) camera.Transform {
	return camera.New(zoom, centerOnSun, body, float64(r.Width), float64(r.Height))
}

// Compose emits the draw list for one frame.
func (r *Renderer) Compose(points []trail.Point, cam camera.Transform) []Primitive {
	stars := r.Stars.stars
	segments := 0
	if len(points) > 1 {
		segments = len(points) - 1
	}
	out := make([]Primitive, 0, 1+len(stars)+2+segments+2)
	pal := r.Palette

	out = append(out, Primitive{
		Kind:  KindClear,
		Layer: LayerBackground,
		X2:    float64(r.Width),
		Y2:    float64(r.Height),
		Color: pal.Background,
	})

	for _, s := range stars {
		out = append(out, Primitive{
			Kind:   KindDisc,
			Layer:  LayerStars,
			X:      s.X,
			Y:      s.Y,
			Radius: s.Radius,
			Color:  pal.Star.WithAlpha(s.Alpha),
		})
	}

	sun := cam.Sun()
	out = append(out,
		Primitive{Kind: KindGlow, Layer: LayerSun, X: sun.X, Y: sun.Y, Radius: cam.Radius(SunGlowRadius), Color: pal.SunGlow},
		Primitive{Kind: KindDisc, Layer: LayerSun, X: sun.X, Y: sun.Y, Radius: cam.Radius(SunRadius), Color: pal.Sun},
	)

	for i := 1; i < len(points); i++ {
		prev := cam.WorldToScreen(points[i-1].Pos)
		curr := cam.WorldToScreen(points[i].Pos)
		out = append(out, Primitive{
			Kind:  KindSegment,
			Layer: LayerTrail,
			X:     prev.X,
			Y:     prev.Y,
			X2:    curr.X,
			Y2:    curr.Y,
			Width: TrailWidth,
			Color: pal.Trail.WithAlpha(points[i].Fade),
		})
	}

	body := cam.BodyScreen()
	out = append(out,
		Primitive{Kind: KindGlow, Layer: LayerBody, X: body.X, Y: body.Y, Radius: cam.Radius(BodyGlowRadius), Color: pal.BodyGlow},
		Primitive{Kind: KindDisc, Layer: LayerBody, X: body.X, Y: body.Y, Radius: cam.Radius(BodyRadius), Color: pal.Body},
	)
	return out
}
