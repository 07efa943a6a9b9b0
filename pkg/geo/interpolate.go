package geo

import (
	"errors"
	"fmt"
	"math"

	"aeroprofile/pkg/profile"
)

var (
	// ErrDegenerateGeodesic is returned for antipodal endpoints, where the
	// great circle through them is not unique.
	ErrDegenerateGeodesic = errors.New("degenerate geodesic")
	// ErrOutOfRangeFraction is returned for fractions outside [0,1].
	ErrOutOfRangeFraction = profile.ErrOutOfRangeFraction
	// ErrInvalidPoint is returned for coordinates outside the valid range.
	ErrInvalidPoint = errors.New("invalid coordinate")
)

const (
	coincidentRad = 1e-12
	// Haversine loses precision near pi, so antipodes are detected on the
	// length of the summed unit vectors instead.
	antipodalChord = 1e-9
)

// Interpolation is a position along the p1→p2 great circle.
type Interpolation struct {
	Position Point   `json:"position"`
	Heading  float64 `json:"heading"`
}

// Interpolate returns the point at fraction f of the great-circle arc from
// p1 to p2 together with the initial bearing from p1 to p2. Identical
// endpoints return p1.
func Interpolate(p1, p2 Point, f float64) (Interpolation, error) {
	if math.IsNaN(f) || f < 0 || f > 1 {
		return Interpolation{}, fmt.Errorf("%w: %v", ErrOutOfRangeFraction, f)
	}
	if !p1.valid() || !p2.valid() {
		return Interpolation{}, fmt.Errorf("%w: %v -> %v", ErrInvalidPoint, p1, p2)
	}

	c := angularSeparation(p1, p2)
	if c < coincidentRad {
		return Interpolation{Position: p1, Heading: Bearing(p1, p2)}, nil
	}

	x1, y1, z1 := unit(p1)
	x2, y2, z2 := unit(p2)
	if math.Sqrt((x1+x2)*(x1+x2)+(y1+y2)*(y1+y2)+(z1+z2)*(z1+z2)) < antipodalChord {
		return Interpolation{}, fmt.Errorf("%w: %v and %v are antipodal", ErrDegenerateGeodesic, p1, p2)
	}

	a := math.Sin((1-f)*c) / math.Sin(c)
	b := math.Sin(f*c) / math.Sin(c)
	x := a*x1 + b*x2
	y := a*y1 + b*y2
	z := a*z1 + b*z2

	pos := Point{
		Lat: math.Atan2(z, math.Hypot(x, y)) * (180.0 / math.Pi),
		Lon: math.Atan2(y, x) * (180.0 / math.Pi),
	}
	return Interpolation{Position: pos, Heading: Bearing(p1, p2)}, nil
}

// ProjectFraction maps a point m near the route back to a progress fraction
// by projecting it onto the p1→p2 chord of the unit sphere. The result is
// clamped to [0,1]; coincident endpoints give 0.
func ProjectFraction(p1, p2, m Point) float64 {
	x1, y1, z1 := unit(p1)
	x2, y2, z2 := unit(p2)
	xm, ym, zm := unit(m)

	dx, dy, dz := x2-x1, y2-y1, z2-z1
	den := dx*dx + dy*dy + dz*dz
	if den < coincidentRad {
		return 0
	}

	t := ((xm-x1)*dx + (ym-y1)*dy + (zm-z1)*dz) / den
	return math.Max(0, math.Min(1, t))
}
