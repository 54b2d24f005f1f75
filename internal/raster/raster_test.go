package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/trail"
)

func testFrame(t *testing.T, stars int, centerOnSun bool) *scene.Frame {
	t.Helper()
	r := scene.NewRenderer(scene.CanvasWidth, scene.CanvasHeight,
		scene.NewStarField(stars, scene.CanvasWidth, scene.CanvasHeight, 1))

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
		Equations:  []string{"a = -gm r / |r|^3"},
		Primitives: r.Compose(tr.Snapshot(), cam),
	}
}

func nrgbaAt(img *image.RGBA, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestRenderSize(t *testing.T) {
	img := New().Render(testFrame(t, 200, true))
	assert.Equal(t, image.Rect(0, 0, 600, 600), img.Bounds())
}

func TestRenderSunAndBody(t *testing.T) {
	f := testFrame(t, 0, true)
	img := New().Render(f)

	assert.Equal(t, color.NRGBA{R: 255, G: 165, B: 0, A: 255}, nrgbaAt(img, 300, 300), "sun disc at canvas centre")

	bx := int(300 + f.Body.X)
	by := int(300 + f.Body.Y)
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: 255, A: 255}, nrgbaAt(img, bx, by), "body disc")

	assert.Equal(t, color.NRGBA{A: 255}, nrgbaAt(img, 2, 598), "background is opaque black")

	// the sun glow extends past the disc and is dimmer than the disc
	glow := nrgbaAt(img, 300+14, 300)
	assert.Greater(t, glow.R, uint8(0))
	assert.Less(t, glow.R, uint8(255))
}

func TestRenderFollowBody(t *testing.T) {
	img := New().Render(testFrame(t, 0, false))
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: 255, A: 255}, nrgbaAt(img, 300, 300), "followed body is pinned to the centre")
}

func TestRenderSkipsNonFinite(t *testing.T) {
	f := &scene.Frame{
		Width:  10,
		Height: 10,
		Primitives: []scene.Primitive{
			{Kind: scene.KindClear, Color: scene.Color{A: 1}},
			{Kind: scene.KindDisc, X: math.NaN(), Y: 5, Radius: 3, Color: scene.Color{R: 255, A: 1}},
			{Kind: scene.KindSegment, X: 0, Y: 0, X2: math.Inf(1), Y2: 5, Width: 1, Color: scene.Color{R: 255, A: 1}},
		},
	}
	img := New().Render(f)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			require.Equal(t, color.NRGBA{A: 255}, nrgbaAt(img, x, y))
		}
	}
}

func TestRadialGradient(t *testing.T) {
	g := &RadialGradient{CX: 10.5, CY: 10.5, R: 10, Color: scene.Color{R: 255, G: 200, A: 0.8}}
	centre := g.At(10, 10).(color.NRGBA)
	edge := g.At(20, 10).(color.NRGBA)
	outside := g.At(40, 40).(color.NRGBA)

	assert.Equal(t, uint8(204), centre.A)
	assert.Less(t, edge.A, centre.A)
	assert.Equal(t, uint8(0), outside.A)
	assert.Equal(t, color.NRGBA{R: 255, G: 200, A: 204}, centre)
	assert.Equal(t, uint8(200), edge.G, "fading to transparent keeps the hue")

	blue := scene.Color{B: 255, A: 0.8}
	g.Edge = &blue
	half := g.At(15, 10).(color.NRGBA)
	assert.Equal(t, uint8(204), half.A)
	assert.Greater(t, half.B, uint8(100))
	assert.Less(t, half.R, uint8(155))
}

func TestOverlayDrawsText(t *testing.T) {
	r := New()
	r.Overlay = true
	f := testFrame(t, 0, true)
	img := r.Render(f)

	lit := 0
	for y := 4; y < 20; y++ {
		for x := 8; x < 130; x++ {
			if c := nrgbaAt(img, x, y); c.R == 220 && c.G == 220 && c.B == 220 {
				lit++
			}
		}
	}
	assert.Positive(t, lit)
}

func TestPNGRoundTrip(t *testing.T) {
	img := New().Render(testFrame(t, 20, true))
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, img))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(2, 0)
	img := New().Render(testFrame(t, 0, true))

	kept := 0
	for i := 0; i < 5; i++ {
		if rec.Add(img) {
			kept++
		}
	}
	require.Equal(t, 3, kept)
	require.Equal(t, 3, rec.Len())

	var buf bytes.Buffer
	require.NoError(t, rec.Encode(&buf))
	anim, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 3)
	assert.Equal(t, []int{2, 2, 2}, anim.Delay)

	rec.Reset()
	assert.Error(t, rec.Encode(&bytes.Buffer{}))
}

func TestRecorderRendersOnlyKeptFrames(t *testing.T) {
	rec := NewRecorder(4, 0)
	img := New().Render(testFrame(t, 0, false))

	renders := 0
	render := func() image.Image {
		renders++
		return img
	}
	for i := 0; i < 10; i++ {
		rec.AddFunc(render)
	}
	assert.Equal(t, 3, renders)
	assert.Equal(t, 3, rec.Len())
}
