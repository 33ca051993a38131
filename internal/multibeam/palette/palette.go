// Package palette builds 256-entry colour maps for depth rendering.
//
// A Palette is immutable once built. Control colours are spread evenly over
// the 256 entries and linearly interpolated per channel. Map looks a depth up
// against a clim range: values below the range take the first entry, values
// above take the last.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/banshee-data/waterfall.report/internal/config"
)

// Size is the number of entries in every palette.
const Size = 256

// ErrNoControls is returned when a palette is built from no colours.
var ErrNoControls = errors.New("palette needs at least one control colour")

// RGB is a colour with channels in [0, 1].
type RGB struct {
	R, G, B float64
}

// Palette is an ordered sequence of Size colours.
type Palette struct {
	name   string
	colors [Size]RGB
}

// New interpolates control colours, given as 0-255 triples, to Size entries.
func New(name string, controls [][3]uint8) (*Palette, error) {
	if len(controls) == 0 {
		return nil, ErrNoControls
	}
	p := &Palette{name: name}
	n := len(controls)
	if n == 1 {
		c := toRGB(controls[0])
		for i := range p.colors {
			p.colors[i] = c
		}
		return p, nil
	}

	xp := make([]float64, n)
	floats.Span(xp, 1, float64(n))
	x := make([]float64, Size)
	floats.Span(x, 1, float64(n))

	channel := func(pick func([3]uint8) uint8) ([]float64, error) {
		ys := make([]float64, n)
		for i, c := range controls {
			ys[i] = float64(pick(c)) / 255
		}
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xp, ys); err != nil {
			return nil, fmt.Errorf("palette %q: %w", name, err)
		}
		out := make([]float64, Size)
		for i, xi := range x {
			out[i] = pl.Predict(xi)
		}
		return out, nil
	}
	reds, err := channel(func(c [3]uint8) uint8 { return c[0] })
	if err != nil {
		return nil, err
	}
	greens, err := channel(func(c [3]uint8) uint8 { return c[1] })
	if err != nil {
		return nil, err
	}
	blues, err := channel(func(c [3]uint8) uint8 { return c[2] })
	if err != nil {
		return nil, err
	}
	for i := range p.colors {
		p.colors[i] = RGB{R: reds[i], G: greens[i], B: blues[i]}
	}
	return p, nil
}

func toRGB(c [3]uint8) RGB {
	return RGB{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}

// Name returns the palette name.
func (p *Palette) Name() string { return p.name }

// At returns entry i.
func (p *Palette) At(i int) RGB { return p.colors[i] }

// Index returns the entry index for v normalised against [vmin, vmax].
// A degenerate range maps everything to the first entry.
func Index(v, vmin, vmax float64) int {
	if vmax <= vmin || math.IsNaN(v) {
		return 0
	}
	t := (v - vmin) / (vmax - vmin)
	switch {
	case t < 0:
		return 0
	case t >= 1:
		return Size - 1
	}
	return int(t * Size)
}

// Map returns the opaque colour for v within the clim range [vmin, vmax].
func (p *Palette) Map(v, vmin, vmax float64) color.NRGBA {
	c := p.colors[Index(v, vmin, vmax)]
	return color.NRGBA{R: toByte(c.R), G: toByte(c.G), B: toByte(c.B), A: 255}
}

// Bad is the colour of masked cells.
func (p *Palette) Bad() color.NRGBA { return color.NRGBA{} }

func toByte(f float64) uint8 {
	f *= 255
	switch {
	case f <= 0 || math.IsNaN(f):
		return 0
	case f >= 255:
		return 255
	}
	return uint8(f)
}

// Names lists the built-in palettes.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for k := range builtin {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Named builds a built-in palette.
func Named(name string) (*Palette, error) {
	controls, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette %q (available: %v)", name, Names())
	}
	return New(name, controls)
}

// FromConfig resolves the palette selected by cfg. Inline palette_colors win
// over a named palette. A nil palette with a nil error selects grayscale
// hillshade rendering.
func FromConfig(cfg *config.WaterfallConfig) (*Palette, error) {
	if len(cfg.PaletteColors) > 0 {
		controls := make([][3]uint8, len(cfg.PaletteColors))
		for i, c := range cfg.PaletteColors {
			controls[i] = [3]uint8{uint8(c[0]), uint8(c[1]), uint8(c[2])}
		}
		return New("custom", controls)
	}
	name := cfg.GetPalette()
	if name == "" {
		return nil, nil
	}
	return Named(name)
}

// Built-in control colours, ordered from shallow to deep.
var builtin = map[string][][3]uint8{
	"gray": {{255, 255, 255}, {0, 0, 0}},
	"haxby": {
		{255, 255, 255}, {255, 235, 235}, {255, 215, 215}, {255, 196, 196},
		{245, 179, 174}, {255, 158, 158}, {255, 124, 124}, {255, 90, 90},
		{238, 80, 78}, {244, 117, 75}, {255, 160, 69}, {255, 189, 87},
		{247, 215, 104}, {240, 236, 121}, {223, 245, 141}, {205, 255, 162},
		{172, 245, 168}, {138, 236, 174}, {124, 235, 200}, {106, 235, 225},
		{97, 225, 240}, {68, 202, 255}, {50, 190, 255}, {25, 175, 255},
		{13, 129, 248}, {26, 102, 240}, {0, 25, 212}, {0, 10, 200},
		{40, 0, 150}, {10, 0, 121},
	},
	"ocean": {
		{230, 250, 255}, {140, 210, 240}, {40, 150, 210},
		{0, 90, 170}, {0, 30, 100}, {0, 0, 40},
	},
}
