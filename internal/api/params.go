package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aeroprofile/pkg/flight"
	"aeroprofile/pkg/geo"
	"aeroprofile/pkg/profile"
)

// errBadRequest marks query parameter problems.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// parsePoint parses "lat,lon" in degrees.
func parsePoint(s string) (geo.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Point{}, badRequest("point %q: want lat,lon", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Point{}, badRequest("point %q: bad latitude", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Point{}, badRequest("point %q: bad longitude", s)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return geo.Point{}, badRequest("point %q out of range", s)
	}
	return geo.Point{Lat: lat, Lon: lon}, nil
}

// parseRoute reads from, to and the optional distance_km override.
func parseRoute(r *http.Request) (flight.Route, error) {
	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		return flight.Route{}, badRequest("from and to are required")
	}
	from, err := parsePoint(q.Get("from"))
	if err != nil {
		return flight.Route{}, err
	}
	to, err := parsePoint(q.Get("to"))
	if err != nil {
		return flight.Route{}, err
	}

	route := flight.Route{From: from, To: to}
	if s := q.Get("distance_km"); s != "" {
		d, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return flight.Route{}, badRequest("distance_km %q", s)
		}
		route.DistanceKm = d
	}
	return route, nil
}

// parseFraction reads f and clamps it into [0,1]. The engine rejects out of
// range fractions, user input is clamped here.
func parseFraction(r *http.Request) (float64, error) {
	s := r.URL.Query().Get("f")
	if s == "" {
		return 0, badRequest("f is required")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, badRequest("f %q", s)
	}
	return math.Max(0, math.Min(1, f)), nil
}

// parseSchedule reads optional RFC 3339 departure and arrival times.
func parseSchedule(r *http.Request) (flight.Schedule, error) {
	var s flight.Schedule
	q := r.URL.Query()
	for name, dst := range map[string]*time.Time{"departure": &s.Departure, "arrival": &s.Arrival} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return flight.Schedule{}, badRequest("%s %q: want RFC 3339", name, v)
		}
		*dst = t
	}
	return s, nil
}

// parsePositiveInt reads an optional positive integer, returning def when
// the parameter is absent.
func parsePositiveInt(r *http.Request, name string, def, limit int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > limit {
		return 0, badRequest("%s %q: want 1..%d", name, s, limit)
	}
	return n, nil
}

// statusFor maps engine and parameter errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, profile.ErrInvalidDistance),
		errors.Is(err, profile.ErrOutOfRangeFraction),
		errors.Is(err, geo.ErrDegenerateGeodesic),
		errors.Is(err, geo.ErrInvalidPoint):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
	}
	writeJSONError(w, status, err.Error())
}
