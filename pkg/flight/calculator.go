// Package flight ties the profile engine to a concrete route: it memoises
// profiles per route length, places the aircraft on the great circle and
// assembles the record shown to users.
package flight

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"aeroprofile/pkg/cache"
	"aeroprofile/pkg/geo"
	"aeroprofile/pkg/logging"
	"aeroprofile/pkg/perf"
	"aeroprofile/pkg/profile"
	"aeroprofile/pkg/tracker"
)

// CacheSource is the tracker source name for profile cache lookups.
const CacheSource = "profile_cache"

// Route is a flight between two points. DistanceKm overrides the computed
// great-circle length when non-zero.
type Route struct {
	From       geo.Point `json:"from"`
	To         geo.Point `json:"to"`
	DistanceKm float64   `json:"distance_km,omitempty"`
}

// Length returns the route length in kilometers.
func (r Route) Length() float64 {
	if r.DistanceKm != 0 {
		return r.DistanceKm
	}
	return geo.Distance(r.From, r.To)
}

// Calculator evaluates routes against a fixed performance table. It is safe
// for concurrent use.
type Calculator struct {
	perf     perf.Constants
	profiles cache.Cacher[float64, profile.Profile]
	stats    *tracker.Tracker
	cellRes  int
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithCache memoises built profiles in c.
func WithCache(c cache.Cacher[float64, profile.Profile]) Option {
	return func(calc *Calculator) { calc.profiles = c }
}

// WithTracker records cache hits and misses in t.
func WithTracker(t *tracker.Tracker) Option {
	return func(calc *Calculator) { calc.stats = t }
}

// WithCellResolution tags snapshots with the H3 cell at res. Zero disables
// tagging.
func WithCellResolution(res int) Option {
	return func(calc *Calculator) { calc.cellRes = res }
}

// NewCalculator creates a calculator for the table c.
func NewCalculator(c perf.Constants, opts ...Option) *Calculator {
	calc := &Calculator{
		perf:     c,
		profiles: cache.Nop[float64, profile.Profile]{},
	}
	for _, o := range opts {
		o(calc)
	}
	return calc
}

// Constants returns the performance table in use.
func (c *Calculator) Constants() perf.Constants {
	return c.perf
}

// Profile builds, or returns the memoised, profile for a route of distKm.
func (c *Calculator) Profile(distKm float64) (profile.Profile, error) {
	p, ok := c.profiles.Get(distKm)
	c.track(ok)
	logging.Trace(slog.Default(), "Profile lookup", "distance_km", distKm, "hit", ok)
	if ok {
		return p, nil
	}

	p, err := profile.Build(c.perf, distKm)
	if err != nil {
		return nil, err
	}
	c.profiles.Add(distKm, p)
	return p, nil
}

func (c *Calculator) track(hit bool) {
	if c.stats == nil {
		return
	}
	if hit {
		c.stats.TrackCacheHit(CacheSource)
	} else {
		c.stats.TrackCacheMiss(CacheSource)
	}
}

// Snapshot evaluates route r at fraction f of its length.
func (c *Calculator) Snapshot(ctx context.Context, r Route, f float64) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	distKm := r.Length()
	p, err := c.Profile(distKm)
	if err != nil {
		return Snapshot{}, fmt.Errorf("build profile for %.3f km: %w", distKm, err)
	}
	return c.snapshot(r, distKm, p, f)
}

func (c *Calculator) snapshot(r Route, distKm float64, p profile.Profile, f float64) (Snapshot, error) {
	st, loc, err := profile.StateAt(c.perf, p, f)
	if err != nil {
		return Snapshot{}, err
	}
	pos, err := geo.Interpolate(r.From, r.To, f)
	if err != nil {
		return Snapshot{}, fmt.Errorf("interpolate route: %w", err)
	}

	s := newSnapshot(p, st, loc, pos, distKm, f)
	s.SpeedKmh = c.GroundSpeedKmh(&st)
	if c.cellRes > 0 {
		cell, err := geo.Cell(pos.Position, c.cellRes)
		if err != nil {
			return Snapshot{}, err
		}
		s.Cell = cell
	}
	return s, nil
}

// Sample evaluates n+1 evenly spaced fractions of r, 0 and 1 included,
// ordered by fraction.
func (c *Calculator) Sample(ctx context.Context, r Route, n int) ([]Snapshot, error) {
	if n < 1 {
		return nil, fmt.Errorf("sample count must be positive, got %d", n)
	}

	distKm := r.Length()
	p, err := c.Profile(distKm)
	if err != nil {
		return nil, fmt.Errorf("build profile for %.3f km: %w", distKm, err)
	}

	out := make([]Snapshot, n+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range out {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := c.snapshot(r, distKm, p, float64(i)/float64(n))
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Idle is the record of an aircraft parked at p before a route is chosen:
// on the ground, heading north, at the table's default speed.
func (c *Calculator) Idle(p geo.Point) Snapshot {
	return Snapshot{
		Position: p,
		SpeedKmh: c.GroundSpeedKmh(nil),
		Vertical: ModeClimb,
	}
}

// FractionAt converts a point dragged along r back into the fraction flown.
func (c *Calculator) FractionAt(r Route, m geo.Point) float64 {
	return geo.ProjectFraction(r.From, r.To, m)
}

// GroundSpeedKmh converts the state's speed to km/h. Without a state the
// table's default speed is returned.
func (c *Calculator) GroundSpeedKmh(st *profile.State) float64 {
	if st == nil {
		return c.perf.DefaultSpeedKmh
	}
	return st.SpeedKt * perf.KtToKmh
}
