package material

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
)

// Checkered alternates between two color sources on a UV grid
type Checkered struct {
	Even  ColorSource
	Odd   ColorSource
	Scale float64
}

// NewCheckered creates a checkered texture. Larger scales give larger squares.
func NewCheckered(odd, even ColorSource, scale float64) *Checkered {
	return &Checkered{Odd: odd, Even: even, Scale: scale}
}

// Evaluate picks Odd where the two sine waves have opposite signs and Even otherwise
func (c *Checkered) Evaluate(uv core.Vec2, point core.Point3) core.Color {
	frequency := (1.0 / c.Scale) * 20.0
	u := math.Sin(uv.X * frequency * math.Pi)
	v := math.Sin(uv.Y * frequency * math.Pi)

	if (u < 0 && 0 < v) || (0 < u && v < 0) {
		return c.Odd.Evaluate(uv, point)
	}
	return c.Even.Evaluate(uv, point)
}

// Perlin noise parameters shared by all noise textures
const (
	noiseAlpha      = 2.0
	noiseBeta       = 2.0
	noiseIterations = 3
)

// Noise modulates a color with 2D Perlin noise over UV coordinates
type Noise struct {
	Color core.Color
	Scale float64
	Seed  int64

	perlin *perlin.Perlin
}

// NewNoise creates a noise texture; the same seed always produces the same pattern
func NewNoise(color core.Color, scale float64, seed int64) *Noise {
	return &Noise{
		Color:  color,
		Scale:  scale,
		Seed:   seed,
		perlin: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseIterations, seed),
	}
}

// Evaluate maps noise in [-1, 1] into [0.2, 1] and scales the color by it
func (n *Noise) Evaluate(uv core.Vec2, point core.Point3) core.Color {
	value := n.perlin.Noise2D(uv.X*n.Scale, uv.Y*n.Scale)
	value = math.Max(-1, math.Min(1, value))

	const lowerLimit = 0.5
	const upperLimit = lowerLimit + 2.0
	return n.Color.Multiply((value + 1.0 + lowerLimit) / upperLimit)
}
