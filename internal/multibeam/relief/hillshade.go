package relief

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Light is the direction of the synthetic sun, in degrees.
type Light struct {
	AzimuthDeg   float64
	ElevationDeg float64
}

// Default lighting for the two shading modes.
var (
	GrayLight  = Light{AzimuthDeg: 45, ElevationDeg: 30}
	BlendLight = Light{AzimuthDeg: 45, ElevationDeg: 5}
)

// Pad returns z with one extra row and column on every side holding copies
// of the nearest edge value.
func Pad(z *mat.Dense) *mat.Dense {
	r, c := z.Dims()
	p := mat.NewDense(r+2, c+2, nil)
	for i := 0; i < r+2; i++ {
		si := clampIndex(i-1, r)
		for j := 0; j < c+2; j++ {
			p.Set(i, j, z.At(si, clampIndex(j-1, c)))
		}
	}
	return p
}

func clampIndex(i, n int) int {
	switch {
	case i < 0:
		return 0
	case i >= n:
		return n - 1
	}
	return i
}

// Slopes returns the centred finite-difference slopes of z along columns
// (sx) and rows (sy) with grid spacing dx. Edges use the padded neighbours.
func Slopes(z *mat.Dense, dx float64) (sx, sy *mat.Dense) {
	r, c := z.Dims()
	p := Pad(z)
	sx = mat.NewDense(r, c, nil)
	sy = mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sx.Set(i, j, (p.At(i+1, j+2)-p.At(i+1, j))/(2*dx))
			sy.Set(i, j, (p.At(i+2, j+1)-p.At(i, j+1))/(2*dx))
		}
	}
	return sx, sy
}

// Hillshade computes the ESRI hillshade of z. Values are 255 times the
// cosine of the angle between the surface normal and the light; they are not
// clipped.
func Hillshade(ctx context.Context, z *mat.Dense, dx float64, light Light, workers int) (*mat.Dense, error) {
	azRad := (360 - light.AzimuthDeg + 90) * math.Pi / 180
	elevRad := (90 - light.ElevationDeg) * math.Pi / 180
	cosElev, sinElev := math.Cos(elevRad), math.Sin(elevRad)

	r, c := z.Dims()
	gx, gy := Slopes(z, dx)
	hs := mat.NewDense(r, c, nil)
	err := forEach(ctx, r, workers, func(i int) error {
		sx, sy := gx.RawRowView(i), gy.RawRowView(i)
		row := hs.RawRowView(i)
		for j := range row {
			aspect := math.Atan2(sy[j], sx[j])
			slope := math.Atan(math.Hypot(sx[j], sy[j]))
			row[j] = 255 * (cosElev*math.Cos(slope) + sinElev*math.Sin(slope)*math.Cos(azRad-aspect))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hs, nil
}
