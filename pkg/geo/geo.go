// Package geo provides great-circle helpers for the route between two
// airports: distance, bearing, interpolation along the arc and map
// projections of the track.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Point represents a geographic coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p Point) orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

func (p Point) valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lon) &&
		p.Lat >= -90 && p.Lat <= 90 &&
		p.Lon >= -180 && p.Lon <= 180
}

// Distance returns the haversine great-circle distance between two points
// in kilometers.
func Distance(p1, p2 Point) float64 {
	return orbgeo.DistanceHaversine(p1.orb(), p2.orb()) / 1000
}

// Bearing calculates the initial bearing (forward azimuth) from p1 to p2 in
// degrees, normalized to [0, 360).
func Bearing(p1, p2 Point) float64 {
	lat1 := p1.Lat * (math.Pi / 180.0)
	lat2 := p2.Lat * (math.Pi / 180.0)
	dLon := (p2.Lon - p1.Lon) * (math.Pi / 180.0)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := math.Atan2(y, x)

	return math.Mod(brng*(180.0/math.Pi)+360.0, 360.0)
}

// unit converts p to a vector on the unit sphere.
func unit(p Point) (x, y, z float64) {
	lat := p.Lat * (math.Pi / 180.0)
	lon := p.Lon * (math.Pi / 180.0)
	return math.Cos(lat) * math.Cos(lon), math.Cos(lat) * math.Sin(lon), math.Sin(lat)
}

// angularSeparation is the central angle between p1 and p2 in radians.
func angularSeparation(p1, p2 Point) float64 {
	lat1 := p1.Lat * (math.Pi / 180.0)
	lat2 := p2.Lat * (math.Pi / 180.0)
	dLat := lat2 - lat1
	dLon := (p2.Lon - p1.Lon) * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * math.Asin(math.Min(1, math.Sqrt(a)))
}
