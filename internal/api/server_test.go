package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeroprofile/pkg/flight"
	"aeroprofile/pkg/perf"
	"aeroprofile/pkg/profile"
	"aeroprofile/pkg/tracker"
	"aeroprofile/pkg/version"
)

const (
	zurich = "47.4647,8.5492"
	paris  = "49.0097,2.5479"
)

func newTestRouter(t *testing.T) (http.Handler, *tracker.Tracker) {
	t.Helper()
	tr := tracker.New()
	calc := flight.NewCalculator(perf.Default(), flight.WithTracker(tr))
	return NewRouter(
		NewFlightHandler(calc, tr, 8),
		NewStreamHandler(calc, tr, 4, 0),
		NewStatsHandler(tr),
		nil,
	), tr
}

func get(t *testing.T, h http.Handler, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result()
}

func TestHealthAndVersion(t *testing.T) {
	h, _ := newTestRouter(t)

	resp := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))

	resp = get(t, h, "/api/version")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var v map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	assert.Equal(t, version.Version, v["version"])
}

func TestHandleProfile(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		validate       func(*testing.T, ProfileResponse)
	}{
		{
			name:           "Kilometres",
			query:          "distance=300km",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, p ProfileResponse) {
				assert.Equal(t, "medium", p.Kind)
				assert.InDelta(t, 300, p.DistanceKm, 1e-9)
				assert.InDelta(t, 35.2272, p.TotalMin, 1e-3)
				assert.Len(t, p.Segments, 6)
				assert.Equal(t, profile.InitialClimb, p.Segments[0].Phase)
			},
		},
		{
			name:           "NauticalMiles",
			query:          "distance=540nm",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, p ProfileResponse) {
				assert.Equal(t, "very_long", p.Kind)
				assert.InDelta(t, 1000.08, p.DistanceKm, 1e-6)
			},
		},
		{
			name:           "UnitlessIsMetres",
			query:          "distance=150000",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, p ProfileResponse) {
				assert.Equal(t, "short", p.Kind)
			},
		},
		{
			name:           "Missing",
			query:          "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Garbage",
			query:          "distance=far",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Negative",
			query:          "distance=-5km",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestRouter(t)
			resp := get(t, h, "/api/profile?"+tt.query)
			require.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus != http.StatusOK {
				var e map[string]string
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
				assert.NotEmpty(t, e["error"])
				return
			}
			var p ProfileResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
			tt.validate(t, p)
		})
	}
}

func TestHandleState(t *testing.T) {
	route := "from=" + zurich + "&to=" + paris + "&distance_km=300"

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		validate       func(*testing.T, StateResponse)
	}{
		{
			name:           "Departure",
			query:          route + "&f=0",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, s StateResponse) {
				assert.Equal(t, profile.InitialClimb, s.Phase)
				assert.InDelta(t, 47.4647, s.Position.Lat, 1e-9)
				assert.Equal(t, flight.ModeClimb, s.Vertical)
				assert.Nil(t, s.Times)
			},
		},
		{
			name:           "ClampedAboveOne",
			query:          route + "&f=1.7",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, s StateResponse) {
				assert.InDelta(t, 1.0, s.Fraction, 1e-12)
				assert.Equal(t, profile.Approach, s.Phase)
				assert.InDelta(t, 0, s.AltitudeFt, 1e-9)
				assert.InDelta(t, 49.0097, s.Position.Lat, 1e-6)
			},
		},
		{
			name:           "ClampedBelowZero",
			query:          route + "&f=-3",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, s StateResponse) {
				assert.InDelta(t, 0, s.Fraction, 1e-12)
			},
		},
		{
			name:           "WithDeparture",
			query:          route + "&f=0.5&departure=2026-10-18T10:00:00Z",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, s StateResponse) {
				require.NotNil(t, s.Times)
				assert.Equal(t, 10, s.Times.Departure.Hour())
				assert.True(t, s.Times.Current.After(s.Times.Departure))
				assert.True(t, s.Times.Arrival.After(s.Times.Current))
			},
		},
		{
			name:           "MissingFraction",
			query:          route,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "BadPoint",
			query:          "from=91,0&to=" + paris + "&f=0.5",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "MissingFrom",
			query:          "to=" + paris + "&f=0.5",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "MarkerAtArrival",
			query:          route + "&marker=" + paris,
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, s StateResponse) {
				assert.InDelta(t, 1.0, s.Fraction, 1e-9)
				assert.Equal(t, profile.Approach, s.Phase)
			},
		},
		{
			name:           "MarkerOverridesFraction",
			query:          route + "&f=0.9&marker=" + zurich,
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, s StateResponse) {
				assert.InDelta(t, 0, s.Fraction, 1e-9)
				assert.Equal(t, profile.InitialClimb, s.Phase)
			},
		},
		{
			name:           "BadMarker",
			query:          route + "&marker=north",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Antipodal",
			query:          "from=10,20&to=-10,-160&f=0.5",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "BadDeparture",
			query:          route + "&f=0.5&departure=tomorrow",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestRouter(t)
			resp := get(t, h, "/api/state?"+tt.query)
			require.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.validate == nil {
				return
			}
			var s StateResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
			assert.Equal(t, "medium", s.Profile.Kind)
			tt.validate(t, s)
		})
	}
}

func TestHandleState_ParkedBeforeRoute(t *testing.T) {
	h, _ := newTestRouter(t)

	resp := get(t, h, "/api/state?from="+zurich)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var s StateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.InDelta(t, 47.4647, s.Position.Lat, 1e-12)
	assert.InDelta(t, 450*perf.KtToKmh, s.SpeedKmh, 1e-9)
	assert.Zero(t, s.AltitudeFt)
	assert.Empty(t, s.Profile.Kind)
	assert.Nil(t, s.Times)

	resp = get(t, h, "/api/state?from=95,0")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleSample(t *testing.T) {
	h, _ := newTestRouter(t)

	resp := get(t, h, "/api/sample?from="+zurich+"&to="+paris+"&n=4")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []flight.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 5)
	for i, s := range out {
		assert.InDelta(t, float64(i)/4, s.Fraction, 1e-12)
	}
	assert.InDelta(t, 0, out[4].AltitudeFt, 1e-9)

	resp = get(t, h, "/api/sample?from="+zurich+"&to="+paris+"&n=0")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleTrack(t *testing.T) {
	h, _ := newTestRouter(t)

	resp := get(t, h, "/api/track?from="+zurich+"&to="+paris)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string `json:"type"`
				Coordinates json.RawMessage
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 3)
	assert.Equal(t, "LineString", fc.Features[0].Geometry.Type)
	assert.Equal(t, "route", fc.Features[0].Properties["role"])

	var line [][2]float64
	require.NoError(t, json.Unmarshal(fc.Features[0].Geometry.Coordinates, &line))
	assert.Len(t, line, 9)

	resp = get(t, h, "/api/track?from=10,20&to=-10,-160")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleStats(t *testing.T) {
	h, _ := newTestRouter(t)

	get(t, h, "/api/profile?distance=300km")
	get(t, h, "/api/profile?distance=300km")
	get(t, h, "/api/profile?distance=nope")

	resp := get(t, h, "/api/stats")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var s StatsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Positive(t, s.Diagnostics.Goroutines)

	api := s.Sources["api.profile"]
	assert.Equal(t, int64(2), api.Success)
	assert.Equal(t, int64(1), api.Failures)
}

func TestShutdownEndpoint(t *testing.T) {
	h, _ := newTestRouter(t)
	req := httptest.NewRequest("POST", "/api/shutdown", http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.NotEqual(t, http.StatusOK, w.Code, "not registered without a shutdown func")

	called := make(chan struct{})
	tr := tracker.New()
	calc := flight.NewCalculator(perf.Default())
	h = NewRouter(NewFlightHandler(calc, tr, 8), NewStreamHandler(calc, tr, 4, 0), NewStatsHandler(tr), func() { close(called) })

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/shutdown", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
	<-called
}
