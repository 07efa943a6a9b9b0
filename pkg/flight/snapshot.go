package flight

import (
	"math"

	"aeroprofile/pkg/geo"
	"aeroprofile/pkg/profile"
)

// Vertical modes.
const (
	ModeClimb   = "ROC"
	ModeDescent = "ROD"
)

// ProfileInfo is the part of a profile repeated in every snapshot.
type ProfileInfo struct {
	Kind          string  `json:"kind"`
	TotalNM       float64 `json:"d_tot_nm"`
	TotalMin      float64 `json:"t_tot_min"`
	CruiseAltFt   float64 `json:"cruise_alt_ft"`
	CruiseSpeedKt float64 `json:"cruise_speed_kt"`
}

// Snapshot is the flight record at one point of a route.
type Snapshot struct {
	Fraction      float64       `json:"fraction"`
	Profile       ProfileInfo   `json:"profile"`
	Phase         profile.Phase `json:"phase"`
	PhaseProgress float64       `json:"phase_progress"`
	profile.State

	Position    geo.Point `json:"position"`
	HeadingDeg  float64   `json:"heading"`
	RouteKm     float64   `json:"route_km"`
	PassedNM    float64   `json:"distance_passed_nm"`
	SpeedKmh    float64   `json:"speed_kmh"`
	Vertical    string    `json:"vertical_mode"`
	VerticalAbs float64   `json:"vertical_rate_ft_per_min"`
	FlightLevel int       `json:"flight_level"`
	Cell        string    `json:"h3_cell,omitempty"`
}

func newSnapshot(p profile.Profile, st profile.State, loc profile.Location, in geo.Interpolation, distKm, f float64) Snapshot {
	mode := ModeClimb
	if st.ROCFtPerMin < 0 {
		mode = ModeDescent
	}
	return Snapshot{
		Fraction: f,
		Profile: ProfileInfo{
			Kind:          p.Kind(),
			TotalNM:       p.TotalDistance(),
			TotalMin:      p.TotalTime(),
			CruiseAltFt:   p.CruiseAltitude(),
			CruiseSpeedKt: p.CruiseSpeed(),
		},
		Phase:         loc.Phase,
		PhaseProgress: loc.Progress,
		State:         st,
		Position:      in.Position,
		HeadingDeg:    in.Heading,
		RouteKm:       distKm,
		PassedNM:      p.TotalDistance() * f,
		Vertical:      mode,
		VerticalAbs:   math.Abs(st.ROCFtPerMin),
		FlightLevel:   int(math.Round(st.AltitudeFt / 100)),
	}
}
