package export

import (
	"encoding/xml"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/trail"
)

func wellFormed(t *testing.T, doc string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("malformed svg: %v\n%s", err, doc)
		}
	}
}

func composed(t *testing.T) *scene.Frame {
	t.Helper()
	r := scene.NewRenderer(600, 600, scene.NewStarField(10, 600, 600, 3))
	tr := trail.New(20)
	for i := 0; i < 5; i++ {
		tr.Append(dynamo.Vec2{X: 200, Y: float64(i) * 3})
	}
	body := dynamo.Vec2{X: 200, Y: 12}
	return &scene.Frame{
		Width:      600,
		Height:     600,
		Equations:  []string{"a = -gm * r_hat / r^2", "k < 1 & q > 0"},
		Primitives: r.Compose(tr.Snapshot(), r.Camera(1, true, body)),
	}
}

func TestFrameToSVG(t *testing.T) {
	svg := FrameToSVG(composed(t))
	wellFormed(t, svg)

	if !strings.HasPrefix(svg, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("missing xml header")
	}
	if !strings.Contains(svg, `width="600" height="600"`) {
		t.Error("expected 600x600 canvas")
	}
	if got := strings.Count(svg, "<radialGradient"); got != 2 {
		t.Errorf("expected sun and body glow gradients, got %d", got)
	}
	// 10 stars + sun + body
	if got := strings.Count(svg, "<circle"); got != 14 {
		t.Errorf("expected 14 circles, got %d", got)
	}
	if got := strings.Count(svg, "<line"); got != 4 {
		t.Errorf("expected 4 trail segments, got %d", got)
	}
	if !strings.Contains(svg, "k &lt; 1 &amp; q &gt; 0") {
		t.Error("equation text should be escaped")
	}

	sun := strings.Index(svg, `fill="#ffa500"`)
	firstLine := strings.Index(svg, "<line")
	if sun < 0 || firstLine < sun {
		t.Error("sun must be drawn before the trail")
	}
}

func TestFrameToSVGNil(t *testing.T) {
	if FrameToSVG(nil) != "" {
		t.Error("nil frame should produce no output")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	pts := []dynamo.Vec2{{X: 200}, {X: 0, Y: 200}, {X: math.NaN()}, {X: -200}, {Y: -200}}
	svg := TrajectoryToSVG(pts, 400, 400, "#00ff00")
	wellFormed(t, svg)

	if strings.Count(svg, "M") < 2 {
		t.Error("non-finite point should break the path")
	}
	if !strings.Contains(svg, `cx="200.0" cy="200.0"`) {
		t.Error("sun should sit at the canvas centre")
	}
	if TrajectoryToSVG(pts[:1], 10, 10, "#fff") != "" {
		t.Error("single point should produce no output")
	}
}

func TestSaveSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.svg")
	if err := SaveSVG(path, FrameToSVG(composed(t))); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	wellFormed(t, string(data))
}
