package sim

import "math/rand"

// colorMutationAmount is the maximum per-channel delta applied to a child's
// color when its genome mutates.
const colorMutationAmount = 16.0

// Color is the display color of a bot. Alpha is implicitly opaque.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RandomColor generates a uniformly random color.
func RandomColor(rng *rand.Rand) Color {
	return Color{
		R: uint8(rng.Intn(256)),
		G: uint8(rng.Intn(256)),
		B: uint8(rng.Intn(256)),
	}
}

// Mutate shifts one randomly chosen channel by a uniform delta in
// [-amount, +amount], clamped to the valid byte range.
func (c *Color) Mutate(rng *rand.Rand, amount float64) {
	delta := (rng.Float64()*2 - 1) * amount

	switch rng.Intn(3) {
	case 0:
		c.R = clampChannel(float64(c.R) + delta)
	case 1:
		c.G = clampChannel(float64(c.G) + delta)
	case 2:
		c.B = clampChannel(float64(c.B) + delta)
	}
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
