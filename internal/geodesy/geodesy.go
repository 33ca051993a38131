// Package geodesy provides the small amount of ellipsoidal geometry the
// waterfall pipeline needs: great-circle range and bearing between two fixes
// and projection of a fix into a local East-North-Up tangent plane.
//
// All angles are in degrees at the API boundary; distances are in metres on
// the WGS84 ellipsoid.
package geodesy

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// WGS84 ellipsoid parameters.
const (
	SemiMajorAxis = 6378137.0
	Flattening    = 1 / 298.257223563
	SemiMinorAxis = SemiMajorAxis * (1 - Flattening)

	eccentricitySq = Flattening * (2 - Flattening)
)

const (
	vincentyTolerance = 1e-12
	vincentyMaxIter   = 200
)

// LatLon is a geographic position in decimal degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

func deg2rad(d float64) float64 { return d * math.Pi / 180.0 }
func rad2deg(r float64) float64 { return r * 180.0 / math.Pi }

// RangeBearing solves the inverse geodesic problem with Vincenty's method.
// It returns the distance in metres together with the forward bearing at
// from and the reverse bearing at to (degrees, 0-360). Range is always
// non-negative. Coincident points return zero for all three values.
//
// For nearly antipodal points where the iteration fails to converge the last
// iterate is used.
func RangeBearing(from, to LatLon) (rangeM, forwardDeg, reverseDeg float64) {
	if from == to {
		return 0, 0, 0
	}

	a, b, f := SemiMajorAxis, SemiMinorAxis, Flattening

	L := deg2rad(to.Lon - from.Lon)
	U1 := math.Atan((1 - f) * math.Tan(deg2rad(from.Lat)))
	U2 := math.Atan((1 - f) * math.Tan(deg2rad(to.Lat)))
	sinU1, cosU1 := math.Sincos(U1)
	sinU2, cosU2 := math.Sincos(U2)

	lambda := L
	var sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM float64
	var sinLambda, cosLambda float64
	for i := 0; i < vincentyMaxIter; i++ {
		sinLambda, cosLambda = math.Sincos(lambda)
		sinSigma = math.Sqrt((cosU2*sinLambda)*(cosU2*sinLambda) +
			(cosU1*sinU2-sinU1*cosU2*cosLambda)*(cosU1*sinU2-sinU1*cosU2*cosLambda))
		if sinSigma == 0 {
			return 0, 0, 0
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		} else {
			cos2SigmaM = 0 // equatorial line
		}
		C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		prev := lambda
		lambda = L + (1-C)*f*sinAlpha*
			(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-prev) < vincentyTolerance {
			break
		}
	}

	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	rangeM = b * A * (sigma - deltaSigma)

	fwd := math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
	rev := math.Atan2(cosU1*sinLambda, -sinU1*cosU2+cosU1*sinU2*cosLambda)
	return math.Abs(rangeM), normalizeDeg(rad2deg(fwd)), normalizeDeg(rad2deg(rev))
}

// Range returns only the Vincenty distance in metres.
func Range(from, to LatLon) float64 {
	r, _, _ := RangeBearing(from, to)
	return r
}

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// ToECEF converts a geodetic position and ellipsoidal height (metres) into
// Earth-centred Earth-fixed coordinates.
func ToECEF(p LatLon, height float64) r3.Vec {
	lat, lon := deg2rad(p.Lat), deg2rad(p.Lon)
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	n := SemiMajorAxis / math.Sqrt(1-eccentricitySq*sinLat*sinLat)
	return r3.Vec{
		X: (n + height) * cosLat * cosLon,
		Y: (n + height) * cosLat * sinLon,
		Z: (n*(1-eccentricitySq) + height) * sinLat,
	}
}

// Frame is a local East-North-Up tangent plane anchored at an origin.
// A Frame is immutable once created.
type Frame struct {
	origin LatLon
	ecef   r3.Vec
	east   r3.Vec
	north  r3.Vec
	up     r3.Vec
}

// NewFrame builds the ENU frame tangent to the ellipsoid at origin
// (height zero).
func NewFrame(origin LatLon) Frame {
	lat, lon := deg2rad(origin.Lat), deg2rad(origin.Lon)
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	return Frame{
		origin: origin,
		ecef:   ToECEF(origin, 0),
		east:   r3.Vec{X: -sinLon, Y: cosLon},
		north:  r3.Vec{X: -sinLat * cosLon, Y: -sinLat * sinLon, Z: cosLat},
		up:     r3.Vec{X: cosLat * cosLon, Y: cosLat * sinLon, Z: sinLat},
	}
}

// Origin returns the geographic anchor of the frame.
func (f Frame) Origin() LatLon { return f.origin }

// ENU projects p (at the given height) into the frame, returning east,
// north and up in metres.
func (f Frame) ENU(p LatLon, height float64) (east, north, up float64) {
	d := r3.Sub(ToECEF(p, height), f.ecef)
	return r3.Dot(d, f.east), r3.Dot(d, f.north), r3.Dot(d, f.up)
}
