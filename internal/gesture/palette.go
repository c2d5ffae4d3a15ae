package gesture

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB value.
type Color uint32

// Neon palette used for the sphere's surface.
const (
	Magenta    Color = 0xFF00FF
	Cyan       Color = 0x00FFFF
	Vermilion  Color = 0xFF3300
	NeonGreen  Color = 0x39FF14
	HotPink    Color = 0xFF0099
	Lime       Color = 0x00FF00
	Orange     Color = 0xFF6600
	Yellow     Color = 0xFFFF00
	InitialHue       = Magenta
)

// Palette is the fixed set of colors a trigger can pick from.
var Palette = [...]Color{Magenta, Cyan, Vermilion, NeonGreen, HotPink, Lime, Orange, Yellow}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xFFFFFF)
}

func (c Color) String() string {
	return c.Hex()
}

// MarshalText encodes the color as "#rrggbb".
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText parses "#rrggbb" or "rrggbb".
func (c *Color) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(string(text), "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return fmt.Errorf("invalid color %q", text)
	}
	*c = Color(v)
	return nil
}

// InPalette reports whether c is one of the palette colors.
func (c Color) InPalette() bool {
	for _, p := range Palette {
		if p == c {
			return true
		}
	}
	return false
}

// ColorPicker chooses the next sphere color.
type ColorPicker interface {
	Pick() Color
}

// RandomPicker picks uniformly from Palette with replacement; the result may
// equal the current color.
type RandomPicker struct {
	pcg *rand.PCG
	rng *rand.Rand
}

const seedMix = 0x9E3779B97F4A7C15

// NewRandomPicker returns a picker seeded for reproducible sequences.
func NewRandomPicker(seed uint64) *RandomPicker {
	pcg := rand.NewPCG(seed, seed^seedMix)
	return &RandomPicker{pcg: pcg, rng: rand.New(pcg)}
}

// Reseed restarts the sequence as if the picker were new with seed.
func (p *RandomPicker) Reseed(seed uint64) {
	p.pcg.Seed(seed, seed^seedMix)
}

// Pick returns a palette color.
func (p *RandomPicker) Pick() Color {
	return Palette[p.rng.IntN(len(Palette))]
}

// PickerFunc adapts a function to ColorPicker.
type PickerFunc func() Color

// Pick calls f.
func (f PickerFunc) Pick() Color { return f() }
