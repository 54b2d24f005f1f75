// Package export writes frames and trajectories as SVG documents.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/scene"
)

func fill(c scene.Color) string {
	return fmt.Sprintf(`fill="%s" fill-opacity="%.3g"`, c.Hex(), c.A)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FrameToSVG replays a composed frame as SVG elements in draw order. Glows
// become radial gradients defined inline.
func FrameToSVG(f *scene.Frame) string {
	if f == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, f.Width, f.Height, f.Width, f.Height)

	glows := 0
	for _, p := range f.Primitives {
		if !finite(p.X, p.Y, p.X2, p.Y2, p.Radius) {
			continue
		}
		switch p.Kind {
		case scene.KindClear:
			fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" %s/>
`, fill(p.Color))
		case scene.KindDisc:
			fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.2f" %s/>
`, p.X, p.Y, p.Radius, fill(p.Color))
		case scene.KindGlow:
			id := fmt.Sprintf("glow%d", glows)
			glows++
			fmt.Fprintf(&sb, `<defs><radialGradient id="%s"><stop offset="0" stop-color="%s" stop-opacity="%.3g"/><stop offset="1" stop-color="%s" stop-opacity="0"/></radialGradient></defs>
<circle cx="%.2f" cy="%.2f" r="%.2f" fill="url(#%s)"/>
`, id, p.Color.Hex(), p.Color.A, p.Color.Hex(), p.X, p.Y, p.Radius, id)
		case scene.KindSegment:
			if p.Color.A <= 0 {
				continue
			}
			fmt.Fprintf(&sb, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.3g" stroke-width="%.2g"/>
`, p.X, p.Y, p.X2, p.Y2, p.Color.Hex(), p.Color.A, p.Width)
		}
	}

	for i, line := range f.Equations {
		fmt.Fprintf(&sb, `<text x="8" y="%d" fill="#dcdcdc" font-family="monospace" font-size="12">%s</text>
`, 16+i*15, escape(line))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return xmlEscaper.Replace(s) }

// TrajectoryToSVG draws a path through points, scaled to fit the canvas
// with the origin marked as the sun.
func TrajectoryToSVG(points []dynamo.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	// symmetric bounds so the sun sits in the middle
	extent := 0.0
	for _, p := range points {
		if finite(p.X, p.Y) {
			extent = math.Max(extent, math.Max(math.Abs(p.X), math.Abs(p.Y)))
		}
	}
	if extent == 0 {
		extent = 1
	}
	extent *= 1.1

	toScreen := func(p dynamo.Vec2) (float64, float64) {
		x := (p.X + extent) / (2 * extent) * float64(width)
		y := float64(height) - (p.Y+extent)/(2*extent)*float64(height)
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`,
		width, height, width, height, strokeColor)

	cmd := "M"
	for _, p := range points {
		if !finite(p.X, p.Y) {
			cmd = "M"
			continue
		}
		x, y := toScreen(p)
		fmt.Fprintf(&sb, "%s%.1f,%.1f ", cmd, x, y)
		cmd = "L"
	}

	sx, sy := toScreen(dynamo.Vec2{})
	fmt.Fprintf(&sb, `"/>
<circle cx="%.1f" cy="%.1f" r="5" fill="#ffa500"/>
</svg>
`, sx, sy)
	return sb.String()
}

func WriteSVG(w io.Writer, svg string) error {
	_, err := io.WriteString(w, svg)
	return err
}

func SaveSVG(path, svg string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSVG(f, svg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
