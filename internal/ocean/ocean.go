// Package ocean provides seawater helpers used when preparing survey data.
package ocean

import (
	"fmt"
	"math"
)

// Standard seawater density in g/cm^3 and gravity in m/s^2.
const (
	SeawaterDensity = 1.025
	Gravity         = 9.80665
)

// DepthToPressure returns the hydrostatic pressure in kPa at depth metres.
func DepthToPressure(depth, density, g float64) float64 {
	return depth * density * g
}

// KPaToDecibars converts kPa to decibars.
func KPaToDecibars(kpa float64) float64 {
	return kpa / 10
}

// SoundVelocity returns the speed of sound in seawater, m/s, from salinity
// s (PSS-78), temperature t (deg C, IPTS-68) and pressure p0 (decibars),
// using the Chen and Millero (1977) equation as published in UNESCO
// technical paper 44 (1983).
func SoundVelocity(s, t, p0 float64) float64 {
	p := p0 / 10 // bars
	sr := math.Sqrt(math.Abs(s))

	// S^2
	d := 1.727e-3 - 7.9836e-6*p

	// S^3/2
	b1 := 7.3637e-5 + 1.7945e-7*t
	b0 := -1.922e-2 - 4.42e-5*t
	b := b0 + b1*p

	// S^1
	a3 := (-3.389e-13*t+6.649e-12)*t + 1.100e-10
	a2 := ((7.988e-12*t-1.6002e-10)*t+9.1041e-9)*t - 3.9064e-7
	a1 := (((-2.0122e-10*t+1.0507e-8)*t-6.4885e-8)*t-1.2580e-5)*t + 9.4742e-5
	a0 := (((-3.21e-8*t+2.006e-6)*t+7.164e-5)*t-1.262e-2)*t + 1.389
	a := ((a3*p+a2)*p+a1)*p + a0

	// S^0
	c3 := (-2.3643e-12*t+3.8504e-10)*t - 9.7729e-9
	c2 := (((1.0405e-12*t-2.5335e-10)*t+2.5974e-8)*t-1.7107e-6)*t + 3.1260e-5
	c1 := (((-6.1185e-10*t+1.3621e-7)*t-8.1788e-6)*t+6.8982e-4)*t + 0.153563
	c0 := ((((3.1464e-9*t-1.47800e-6)*t+3.3420e-4)*t-5.80852e-2)*t+5.03711)*t + 1402.388
	c := ((c3*p+c2)*p+c1)*p + c0

	return c + (a+b*sr+d*s)*s
}

// Profile evaluates SoundVelocity at each depth of a cast with constant
// salinity. depths and temps must have equal length.
func Profile(salinity float64, depths, temps []float64) ([]float64, error) {
	if len(depths) != len(temps) {
		return nil, fmt.Errorf("profile has %d depths but %d temperatures", len(depths), len(temps))
	}
	out := make([]float64, len(depths))
	for i, z := range depths {
		p := KPaToDecibars(DepthToPressure(z, SeawaterDensity, Gravity))
		out[i] = SoundVelocity(salinity, temps[i], p)
	}
	return out, nil
}
