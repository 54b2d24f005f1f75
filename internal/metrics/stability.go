package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Stability measures how well an orbit stays bound: the fraction of
// samples within the escape radius with a finite state, the radial extent
// of the finite samples and the first sample that left.
type Stability struct {
	escapeRadius float64
	samples      int
	outside      int
	firstEscape  int
	minR, maxR   float64
}

func NewStability(escapeRadius float64) *Stability {
	s := &Stability{escapeRadius: escapeRadius}
	s.Reset()
	return s
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(x dynamo.State) {
	idx := s.samples
	s.samples++

	r := x.Position().Norm()
	if !x.IsValid() || math.IsNaN(r) {
		s.escape(idx)
		return
	}
	s.minR = math.Min(s.minR, r)
	s.maxR = math.Max(s.maxR, r)
	if r > s.escapeRadius {
		s.escape(idx)
	}
}

func (s *Stability) escape(idx int) {
	s.outside++
	if s.firstEscape < 0 {
		s.firstEscape = idx
	}
}

// Value is the bound fraction in [0, 1]; 1 before any sample.
func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.outside)/float64(s.samples)
}

// Escaped reports the index of the first sample outside the escape radius.
func (s *Stability) Escaped() (int, bool) {
	return s.firstEscape, s.firstEscape >= 0
}

// Extent returns the smallest and largest finite radius seen, or NaN for
// both when there was none.
func (s *Stability) Extent() (minR, maxR float64) {
	if math.IsInf(s.minR, 1) {
		return math.NaN(), math.NaN()
	}
	return s.minR, s.maxR
}

func (s *Stability) Reset() {
	s.samples = 0
	s.outside = 0
	s.firstEscape = -1
	s.minR = math.Inf(1)
	s.maxR = 0
}
