package scene

import "math/rand"

const DefaultStarCount = 200

type Star struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
	Alpha  float64 `json:"a"`
}

// StarField is generated once and never changes afterwards.
type StarField struct {
	stars []Star
}

// NewStarField scatters n stars uniformly over a width x height canvas.
// Radii fall in [0, 1.5) and alphas in [0.2, 1.0).
func NewStarField(n int, width, height float64, seed int64) StarField {
	rng := rand.New(rand.NewSource(seed))
	stars := make([]Star, n)
	for i := range stars {
		stars[i] = Star{
			X:      rng.Float64() * width,
			Y:      rng.Float64() * height,
			Radius: rng.Float64() * 1.5,
			Alpha:  rng.Float64()*0.8 + 0.2,
		}
	}
	return StarField{stars: stars}
}

func (s StarField) Len() int { return len(s.stars) }

func (s StarField) Stars() []Star {
	out := make([]Star, len(s.stars))
	copy(out, s.stars)
	return out
}
