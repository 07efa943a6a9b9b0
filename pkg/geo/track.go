package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Track samples the great circle from p1 to p2 at samples+1 evenly spaced
// fractions, endpoints included.
func Track(p1, p2 Point, samples int) (orb.LineString, error) {
	if samples < 1 {
		samples = 1
	}
	ls := make(orb.LineString, 0, samples+1)
	for i := 0; i <= samples; i++ {
		f := float64(i) / float64(samples)
		in, err := Interpolate(p1, p2, f)
		if err != nil {
			return nil, err
		}
		ls = append(ls, in.Position.orb())
	}
	return ls, nil
}

// TrackGeoJSON returns the sampled route as a feature collection holding the
// great-circle line and the two endpoints, for map collaborators.
func TrackGeoJSON(p1, p2 Point, samples int) (*geojson.FeatureCollection, error) {
	ls, err := Track(p1, p2, samples)
	if err != nil {
		return nil, fmt.Errorf("sample track: %w", err)
	}

	line := geojson.NewFeature(ls)
	line.Properties["role"] = "route"
	line.Properties["distance_km"] = Distance(p1, p2)
	line.Properties["heading"] = Bearing(p1, p2)

	dep := geojson.NewFeature(p1.orb())
	dep.Properties["role"] = "departure"
	arr := geojson.NewFeature(p2.orb())
	arr.Properties["role"] = "arrival"

	fc := geojson.NewFeatureCollection()
	fc.Append(line)
	fc.Append(dep)
	fc.Append(arr)
	return fc, nil
}
