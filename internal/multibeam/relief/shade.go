package relief

import (
	"context"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/waterfall.report/internal/multibeam/palette"
)

// Options control the shading stage.
type Options struct {
	ShadeScale float64
	Light      Light
	Workers    int
}

// Gray renders grid as a grayscale hillshade of -ShadeScale*grid. Cells with
// no data are transparent.
func Gray(ctx context.Context, grid *mat.Dense, opts Options) (*image.NRGBA, error) {
	var z mat.Dense
	z.Scale(-opts.ShadeScale, grid)
	hs, err := Hillshade(ctx, &z, 1, opts.Light, opts.Workers)
	if err != nil {
		return nil, err
	}

	r, c := grid.Dims()
	img := image.NewNRGBA(image.Rect(0, 0, c, r))
	err = forEach(ctx, r, opts.Workers, func(i int) error {
		for j := 0; j < c; j++ {
			if grid.At(i, j) == 0 {
				continue
			}
			v := clipByte(hs.At(i, j))
			img.SetNRGBA(j, i, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Blend colours grid with pal over the clim range [vmin, vmax] and subtracts
// a hillshade of ShadeScale*grid from every channel. Cells with no data take
// the palette's bad colour before the subtraction. The result is opaque.
func Blend(ctx context.Context, grid *mat.Dense, pal *palette.Palette, vmin, vmax float64, opts Options) (*image.NRGBA, error) {
	var z mat.Dense
	z.Scale(opts.ShadeScale, grid)
	hs, err := Hillshade(ctx, &z, 1, opts.Light, opts.Workers)
	if err != nil {
		return nil, err
	}

	r, c := grid.Dims()
	img := image.NewNRGBA(image.Rect(0, 0, c, r))
	err = forEach(ctx, r, opts.Workers, func(i int) error {
		for j := 0; j < c; j++ {
			v := grid.At(i, j)
			col := pal.Bad()
			if v != 0 {
				col = pal.Map(v, vmin, vmax)
			}
			s := clipByte(hs.At(i, j))
			img.SetNRGBA(j, i, color.NRGBA{
				R: subtract(col.R, s),
				G: subtract(col.G, s),
				B: subtract(col.B, s),
				A: 255,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

func subtract(a, b uint8) uint8 {
	if b >= a {
		return 0
	}
	return a - b
}

// clipByte clips f to [0, 255] and truncates.
func clipByte(f float64) uint8 {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= 255:
		return 255
	}
	return uint8(f)
}
