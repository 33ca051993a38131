package relief

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateResolution is returned when the along/across resolution ratio
// is not a finite positive number, for example after reading no records.
var ErrDegenerateResolution = errors.New("resolution ratio must be finite and positive")

// StretchFactor returns ceil((yRes / xRes) * zoom).
func StretchFactor(xRes, yRes, zoom float64) (int, error) {
	r := (yRes / xRes) * zoom
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return 0, fmt.Errorf("%w: x_res=%g y_res=%g zoom=%g", ErrDegenerateResolution, xRes, yRes, zoom)
	}
	return int(math.Ceil(r)), nil
}

// Stretch resamples every column of grid along its rows so the result has
// k times as many rows and the same number of columns. Output row i samples
// the column at fractional index i/k by linear interpolation; samples past
// the last input row are zero.
func Stretch(ctx context.Context, grid *mat.Dense, k, workers int) (*mat.Dense, error) {
	if k < 1 {
		return nil, fmt.Errorf("stretch factor %d must be at least 1", k)
	}
	rows, cols := grid.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("cannot stretch an empty grid")
	}
	out := mat.NewDense(rows*k, cols, nil)

	xs := make([]float64, rows)
	for i := range xs {
		xs[i] = float64(i)
	}

	err := forEach(ctx, cols, workers, func(c int) error {
		column := mat.Col(nil, c, grid)
		sample, err := columnSampler(xs, column)
		if err != nil {
			return fmt.Errorf("column %d: %w", c, err)
		}
		for i := 0; i < rows*k; i++ {
			out.Set(i, c, sample(float64(i)/float64(k)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// columnSampler returns a linear interpolant over (xs, ys) that is zero
// outside [xs[0], xs[n-1]].
func columnSampler(xs, ys []float64) (func(float64) float64, error) {
	if len(ys) == 1 {
		v := ys[0]
		return func(x float64) float64 {
			if x == 0 {
				return v
			}
			return 0
		}, nil
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, err
	}
	last := xs[len(xs)-1]
	return func(x float64) float64 {
		if x < 0 || x > last {
			return 0
		}
		return pl.Predict(x)
	}, nil
}
