// Package relief turns a finalised waterfall grid into an image.
//
// Responsibilities: the isometric stretch that resamples each beam column
// along track, the hillshade relief model, and the grayscale and palette
// shading modes built on it.
//
// Every function here is pure over its input grid. Columns (stretch) and
// rows (shading) are independent, so both are split across a bounded worker
// pool. Zero cells mean no data throughout.
//
// Dependency rule: relief depends on palette only.
package relief
