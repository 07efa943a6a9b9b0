package api

import (
	"errors"
	"net/http"

	"aeroprofile/pkg/config"
	"aeroprofile/pkg/flight"
	"aeroprofile/pkg/geo"
	"aeroprofile/pkg/profile"
	"aeroprofile/pkg/tracker"
)

const maxSamples = 10000

// FlightHandler serves profiles, snapshots and route geometry.
type FlightHandler struct {
	calc         *flight.Calculator
	tracker      *tracker.Tracker
	trackSamples int
}

// NewFlightHandler creates a new FlightHandler.
func NewFlightHandler(calc *flight.Calculator, tr *tracker.Tracker, trackSamples int) *FlightHandler {
	return &FlightHandler{
		calc:         calc,
		tracker:      tr,
		trackSamples: trackSamples,
	}
}

// ProfileResponse is the body of GET /api/profile.
type ProfileResponse struct {
	DistanceKm float64 `json:"distance_km"`
	profile.Summary
}

// StateResponse is the body of GET /api/state.
type StateResponse struct {
	flight.Snapshot
	Times *flight.Times `json:"times,omitempty"`
}

func (h *FlightHandler) done(source string, err error) {
	if h.tracker == nil {
		return
	}
	if err != nil {
		h.tracker.TrackFailure(source)
	} else {
		h.tracker.TrackSuccess(source)
	}
}

// HandleProfile handles GET /api/profile?distance=500km.
func (h *FlightHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := h.profile(r)
	h.done("api.profile", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, resp)
}

func (h *FlightHandler) profile(r *http.Request) (ProfileResponse, error) {
	s := r.URL.Query().Get("distance")
	if s == "" {
		return ProfileResponse{}, badRequest("distance is required")
	}
	d, err := config.ParseDistance(s)
	if err != nil {
		return ProfileResponse{}, badRequest("%v", err)
	}
	km := d.Km()

	p, err := h.calc.Profile(km)
	if err != nil {
		return ProfileResponse{}, err
	}
	return ProfileResponse{DistanceKm: km, Summary: profile.Describe(p)}, nil
}

// HandleState handles GET /api/state?from=lat,lon&to=lat,lon&f=0.5. A
// marker=lat,lon replaces f with the marker's projection onto the route.
// With from alone the aircraft is parked there.
func (h *FlightHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	resp, err := h.state(r)
	h.done("api.state", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, resp)
}

func (h *FlightHandler) state(r *http.Request) (StateResponse, error) {
	q := r.URL.Query()
	if q.Get("from") != "" && q.Get("to") == "" {
		at, err := parsePoint(q.Get("from"))
		if err != nil {
			return StateResponse{}, err
		}
		return StateResponse{Snapshot: h.calc.Idle(at)}, nil
	}

	route, err := parseRoute(r)
	if err != nil {
		return StateResponse{}, err
	}
	var f float64
	if s := q.Get("marker"); s != "" {
		m, err := parsePoint(s)
		if err != nil {
			return StateResponse{}, err
		}
		f = h.calc.FractionAt(route, m)
	} else if f, err = parseFraction(r); err != nil {
		return StateResponse{}, err
	}
	sched, err := parseSchedule(r)
	if err != nil {
		return StateResponse{}, err
	}

	snap, err := h.calc.Snapshot(r.Context(), route, f)
	if err != nil {
		return StateResponse{}, err
	}

	resp := StateResponse{Snapshot: snap}
	times, err := sched.Resolve(snap.Profile.TotalMin, snap.ElapsedMin)
	switch {
	case err == nil:
		resp.Times = &times
	case !errors.Is(err, flight.ErrNoAnchor):
		return StateResponse{}, err
	}
	return resp, nil
}

// HandleSample handles GET /api/sample?from=..&to=..&n=10.
func (h *FlightHandler) HandleSample(w http.ResponseWriter, r *http.Request) {
	out, err := h.sample(r)
	h.done("api.sample", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}

func (h *FlightHandler) sample(r *http.Request) ([]flight.Snapshot, error) {
	route, err := parseRoute(r)
	if err != nil {
		return nil, err
	}
	n, err := parsePositiveInt(r, "n", 10, maxSamples)
	if err != nil {
		return nil, err
	}
	return h.calc.Sample(r.Context(), route, n)
}

// HandleTrack handles GET /api/track?from=..&to=.. and returns GeoJSON.
func (h *FlightHandler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	body, err := h.track(r)
	h.done("api.track", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(body)
}

func (h *FlightHandler) track(r *http.Request) ([]byte, error) {
	route, err := parseRoute(r)
	if err != nil {
		return nil, err
	}
	n, err := parsePositiveInt(r, "samples", h.trackSamples, maxSamples)
	if err != nil {
		return nil, err
	}
	fc, err := geo.TrackGeoJSON(route.From, route.To, n)
	if err != nil {
		return nil, err
	}
	return fc.MarshalJSON()
}
