package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/trail"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Pen = scene.LayerTrail

	c.Set(0, 0)
	c.Set(1, 3)
	assert.Equal(t, rune(0x2800|0x1|0x80), c.Grid[0][0])
	assert.Equal(t, int(scene.LayerTrail), c.Ink[0][0])
	assert.True(t, c.IsSet(1, 3))

	c.Unset(1, 3)
	assert.False(t, c.IsSet(1, 3))
	c.Unset(0, 0)
	assert.Equal(t, blank, c.Grid[0][0])
	assert.Equal(t, noInk, c.Ink[0][0])

	// Out of range writes are ignored.
	c.Set(-1, 0)
	c.Set(8, 0)
	c.Set(0, 8)
	assert.False(t, c.IsSet(-1, 0))
	assert.Equal(t, strings.Repeat(string(blank), 4)+"\n"+strings.Repeat(string(blank), 4)+"\n", c.String())
}

func TestCanvasInkKeepsHighestLayer(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Pen = scene.LayerBody
	c.Set(0, 0)
	c.Pen = scene.LayerStars
	c.Set(1, 1)
	assert.Equal(t, int(scene.LayerBody), c.Ink[0][0])
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19)
	for i := 0; i < 20; i++ {
		assert.True(t, c.IsSet(i, i), "diagonal dot %d", i)
	}
	assert.False(t, c.IsSet(1, 0))
}

func TestFillCircle(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillCircle(10, 10, 1)
	count := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if c.IsSet(x, y) {
				count++
			}
		}
	}
	assert.Equal(t, 5, count)

	c.Clear()
	c.FillCircle(3, 3, 0)
	assert.True(t, c.IsSet(3, 3))
}

func TestRing(t *testing.T) {
	c := NewCanvas(20, 10)
	c.Ring(20, 20, 10)
	assert.True(t, c.IsSet(30, 20))
	assert.True(t, c.IsSet(10, 20))
	assert.False(t, c.IsSet(20, 20))
}

func TestRenderWithoutStyleMatchesString(t *testing.T) {
	c := NewCanvas(6, 3)
	c.Pen = scene.LayerSun
	c.FillCircle(5, 5, 2)
	assert.Equal(t, c.String(), c.Render(nil))
}

func orbitFrame(centerOnSun bool) *scene.Frame {
	r := scene.NewRenderer(scene.CanvasWidth, scene.CanvasHeight,
		scene.NewStarField(0, scene.CanvasWidth, scene.CanvasHeight, 1))

	tr := trail.New(100)
	for i := 0; i < 50; i++ {
		a := float64(i) * 0.02
		tr.Append(dynamo.Vec2{X: 200 * math.Cos(a), Y: 200 * math.Sin(a)})
	}
	body := dynamo.Vec2{X: 200 * math.Cos(0.98), Y: 200 * math.Sin(0.98)}
	cam := r.Camera(1, centerOnSun, body)
	return &scene.Frame{
		Width:      r.Width,
		Height:     r.Height,
		Body:       body,
		Primitives: r.Compose(tr.Snapshot(), cam),
	}
}

func TestDrawFrameSunCentred(t *testing.T) {
	// 60x30 cells is 120x120 dots, a fifth of the frame.
	c := NewCanvas(60, 30)
	DrawFrame(c, orbitFrame(true))

	require.True(t, c.IsSet(60, 60), "sun at the centre")
	assert.Equal(t, int(scene.LayerSun), c.Ink[15][30])

	bx := int(math.Round((300 + 200*math.Cos(0.98)) / 5))
	by := int(math.Round((300 + 200*math.Sin(0.98)) / 5))
	require.True(t, c.IsSet(bx, by), "body dot")
	assert.Equal(t, int(scene.LayerBody), c.Ink[by/4][bx/2])

	// The trail's newest segments end at the body and are bright enough to draw.
	tx := int(math.Round((300 + 200*math.Cos(0.9)) / 5))
	ty := int(math.Round((300 + 200*math.Sin(0.9)) / 5))
	assert.True(t, c.IsSet(tx, ty), "trail dot")
}

func TestDrawFrameFollowsBody(t *testing.T) {
	c := NewCanvas(60, 30)
	DrawFrame(c, orbitFrame(false))
	assert.True(t, c.IsSet(60, 60))
	assert.Equal(t, int(scene.LayerBody), c.Ink[15][30])
}

func TestDrawFrameSkipsFaintAndNonFinite(t *testing.T) {
	c := NewCanvas(10, 5)
	f := &scene.Frame{
		Width:  20,
		Height: 20,
		Primitives: []scene.Primitive{
			{Kind: scene.KindSegment, Layer: scene.LayerTrail, X: 0, Y: 0, X2: 19, Y2: 19, Color: scene.Color{A: 0.05}},
			{Kind: scene.KindDisc, Layer: scene.LayerStars, X: 5, Y: 5, Radius: 1, Color: scene.Color{A: 0.3}},
			{Kind: scene.KindDisc, Layer: scene.LayerBody, X: math.NaN(), Y: 5, Radius: 1, Color: scene.Color{A: 1}},
			{Kind: scene.KindSegment, Layer: scene.LayerTrail, X: 0, Y: 0, X2: math.Inf(1), Y2: 1, Color: scene.Color{A: 1}},
			{Kind: scene.KindGlow, Layer: scene.LayerSun, X: 10, Y: 10, Radius: 5, Color: scene.Color{A: 1}},
		},
	}
	DrawFrame(c, f)
	assert.Equal(t, NewCanvas(10, 5).String(), c.String())

	DrawFrame(c, nil)
}
