package survey

import (
	"context"
	"fmt"
	"image"

	"github.com/banshee-data/waterfall.report/internal/multibeam/palette"
	"github.com/banshee-data/waterfall.report/internal/multibeam/relief"
)

// RowRange selects waterfall rows [Start, End), counted from the newest
// ping. A negative End, or one past the buffer, selects through the oldest
// row.
type RowRange struct {
	Start int
	End   int
}

// AllRows selects the whole waterfall.
var AllRows = RowRange{Start: 0, End: -1}

func (r RowRange) resolve(n int) (start, end int, err error) {
	start, end = r.Start, r.End
	if end < 0 || end > n {
		end = n
	}
	if start < 0 || start >= n || start >= end {
		return 0, 0, fmt.Errorf("%w: rows [%d, %d) of %d", ErrRowRange, r.Start, r.End, n)
	}
	return start, end, nil
}

// Render stretches the selected rows to isometric spacing and shades them.
// With a nil palette the image is a grayscale hillshade; otherwise depths are
// coloured over the survey's full depth range and darkened by a low-angle
// hillshade. Render requires a completed Run.
func (s *Survey) Render(ctx context.Context, rows RowRange, shadeScale, zoom float64, pal *palette.Palette) (*image.NRGBA, error) {
	n := s.waterfall.Len()
	if n == 0 {
		s.logf("%s: no data available; run the survey before rendering", s.name)
		return nil, ErrNoData
	}
	start, end, err := rows.resolve(n)
	if err != nil {
		s.logf("%s: %v", s.name, err)
		return nil, err
	}

	k, err := relief.StretchFactor(s.stats.XResolution, s.stats.YResolution, zoom)
	if err != nil {
		return nil, err
	}
	grid, err := s.waterfall.Grid(start, end)
	if err != nil {
		return nil, err
	}
	workers := s.cfg.GetWorkers()
	stretched, err := relief.Stretch(ctx, grid, k, workers)
	if err != nil {
		return nil, fmt.Errorf("stretching rows [%d, %d): %w", start, end, err)
	}
	r, c := stretched.Dims()
	s.debugf("%s: rendering %dx%d from rows [%d, %d), stretch %d", s.name, c, r, start, end, k)

	if pal == nil {
		return relief.Gray(ctx, stretched, relief.Options{
			ShadeScale: shadeScale,
			Light: relief.Light{
				AzimuthDeg:   s.cfg.GetLightAzimuthDeg(),
				ElevationDeg: s.cfg.GetLightElevationDeg(),
			},
			Workers: workers,
		})
	}
	lo, hi := s.extents.DepthRange()
	return relief.Blend(ctx, stretched, pal, lo, hi, relief.Options{
		ShadeScale: shadeScale,
		Light: relief.Light{
			AzimuthDeg:   s.cfg.GetLightAzimuthDeg(),
			ElevationDeg: s.cfg.GetBlendElevationDeg(),
		},
		Workers: workers,
	})
}
