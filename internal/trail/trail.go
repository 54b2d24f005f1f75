// Package trail keeps the bounded history of body positions drawn behind
// the orbiting body.
package trail

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	// DefaultCapacity is the maximum number of retained points.
	DefaultCapacity = 5000
	// FadeExponent shapes the opacity ramp from oldest to newest point.
	FadeExponent = 0.7
)

// Point is a past body position and its current opacity.
type Point struct {
	Pos  dynamo.Vec2 `json:"pos"`
	Fade float64     `json:"fade"`
}

// Trail is a fixed-capacity FIFO of points. When full, appending evicts
// the oldest point. Fades are recomputed on every append so that point i of
// n has fade (i/n)^FadeExponent.
//
// Trail is not safe for concurrent use.
type Trail struct {
	buf   []Point
	start int
	n     int
}

func New(capacity int) *Trail {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Trail{buf: make([]Point, capacity)}
}

func (t *Trail) Len() int { return t.n }

func (t *Trail) Cap() int { return len(t.buf) }

func (t *Trail) at(i int) *Point {
	return &t.buf[(t.start+i)%len(t.buf)]
}

func (t *Trail) Append(p dynamo.Vec2) {
	if t.n < len(t.buf) {
		*t.at(t.n) = Point{Pos: p}
		t.n++
	} else {
		t.buf[t.start] = Point{Pos: p}
		t.start = (t.start + 1) % len(t.buf)
	}
	t.refade()
}

func (t *Trail) refade() {
	for i := 0; i < t.n; i++ {
		t.at(i).Fade = Fade(i, t.n)
	}
}

// Fade is the opacity of point i in a trail of n points.
func Fade(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Pow(float64(i)/float64(n), FadeExponent)
}

func (t *Trail) Clear() {
	t.start = 0
	t.n = 0
}

// Snapshot copies the points, oldest first.
func (t *Trail) Snapshot() []Point {
	out := make([]Point, t.n)
	for i := 0; i < t.n; i++ {
		out[i] = *t.at(i)
	}
	return out
}
