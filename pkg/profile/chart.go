package profile

// Vertex is a point of the vertical profile chart.
type Vertex struct {
	DistanceNM float64 `json:"distance_nm"`
	AltitudeFt float64 `json:"altitude_ft"`
}

// Vertices returns the (distance, altitude) polyline of p starting at the
// departure runway. A leg entered at a different altitude than the previous
// leg left adds a vertical step at the same distance.
func Vertices(p Profile) []Vertex {
	segs := Segments(p)
	out := make([]Vertex, 0, len(segs)+2)
	out = append(out, Vertex{0, segs[0].EntryAlt})

	cum := 0.0
	for i, s := range segs {
		if i > 0 && s.EntryAlt != segs[i-1].ExitAlt {
			out = append(out, Vertex{cum, s.EntryAlt})
		}
		cum += s.Length
		out = append(out, Vertex{cum, s.ExitAlt})
	}
	return out
}

// Summary is a flat description of a profile for presentation layers.
type Summary struct {
	Kind          string    `json:"kind"`
	TotalNM       float64   `json:"d_tot_nm"`
	TotalMin      float64   `json:"t_tot_min"`
	CruiseAltFt   float64   `json:"cruise_alt_ft"`
	CruiseSpeedKt float64   `json:"cruise_speed_kt"`
	Segments      []Segment `json:"segments"`
	ChartVertices []Vertex  `json:"chart"`
}

// Describe summarises p.
func Describe(p Profile) Summary {
	return Summary{
		Kind:          p.Kind(),
		TotalNM:       p.TotalDistance(),
		TotalMin:      p.TotalTime(),
		CruiseAltFt:   p.CruiseAltitude(),
		CruiseSpeedKt: p.CruiseSpeed(),
		Segments:      Segments(p),
		ChartVertices: Vertices(p),
	}
}
