package profile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeroprofile/pkg/perf"
)

// evenMedium has power-of-two legs so fractions land exactly on boundaries.
var evenMedium = Medium{Legs{DIC: 8, DC1: 8, DC2: 8, DCR: 8, DD: 8, DA: 24, DTot: 64}}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "initial_climb", InitialClimb.String())
	assert.Equal(t, "mach_climb", MachClimb.String())
	assert.Equal(t, "approach", Approach.String())
	assert.Equal(t, "Phase(42)", Phase(42).String())

	b, err := InitialDescent.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "initial_descent", string(b))

	_, err = Phase(-1).MarshalText()
	assert.Error(t, err)

	var ph Phase
	require.NoError(t, ph.UnmarshalText([]byte("mach_climb")))
	assert.Equal(t, MachClimb, ph)
	assert.Error(t, ph.UnmarshalText([]byte("taxi")))
}

func TestSegments_Order(t *testing.T) {
	c := perf.Default()

	short, err := Build(c, 0)
	require.NoError(t, err)
	long, err := Build(c, 600)
	require.NoError(t, err)

	phases := func(p Profile) []Phase {
		var out []Phase
		for _, s := range Segments(p) {
			out = append(out, s.Phase)
		}
		return out
	}

	assert.Equal(t, []Phase{InitialClimb, Climb1, Climb2, Cruise, Descent, Approach}, phases(short))
	assert.Equal(t, []Phase{InitialClimb, Climb1, Climb2, MachClimb, Cruise, InitialDescent, Descent, Approach}, phases(long))
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name     string
		profile  Profile
		f        float64
		want     Phase
		progress float64
	}{
		{"Start", evenMedium, 0, InitialClimb, 0},
		{"MidInitialClimb", evenMedium, 0.0625, InitialClimb, 0.5},
		{"BoundaryBelongsToNextLeg", evenMedium, 0.125, Climb1, 0},
		{"Cruise", evenMedium, 0.4375, Cruise, 0.5},
		{"Descent", evenMedium, 0.5, Descent, 0},
		{"Approach", evenMedium, 0.8125, Approach, 0.5},
		{"End", evenMedium, 1, Approach, 1},
		{
			name:     "EmptyCruiseIsSkipped",
			profile:  Short{Legs{DIC: 8, DC1: 8, DC2: 8, DCR: 0, DD: 8, DA: 32, DTot: 64}},
			f:        0.375,
			want:     Descent,
			progress: 0,
		},
		{
			name:     "ZeroLengthApproachReportsZero",
			profile:  Short{Legs{DIC: 8, DC1: 8, DC2: 8, DCR: 0, DD: 8, DA: 0, DTot: 64}},
			f:        0.75,
			want:     Approach,
			progress: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := Locate(tt.profile, tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, loc.Phase)
			assert.InDelta(t, tt.progress, loc.Progress, 1e-12)
			assert.False(t, math.IsNaN(loc.Progress))
		})
	}
}

func TestLocate_BuiltProfiles(t *testing.T) {
	c := perf.Default()

	for _, d := range []float64{0, 150, 300, 600, 1000} {
		p, err := Build(c, d)
		require.NoError(t, err)

		start, err := Locate(p, 0)
		require.NoError(t, err)
		assert.Equal(t, Location{InitialClimb, 0}, start, "distance %v", d)

		end, err := Locate(p, 1)
		require.NoError(t, err)
		assert.Equal(t, Location{Approach, 1}, end, "distance %v", d)
	}

	p, err := Build(c, 300)
	require.NoError(t, err)
	loc, err := Locate(p, 0.5)
	require.NoError(t, err)
	assert.Equal(t, Cruise, loc.Phase)
	assert.InDelta(t, 0.370268, loc.Progress, 1e-6)
}

func TestLocate_LongPhases(t *testing.T) {
	p, err := Build(perf.Default(), 600)
	require.NoError(t, err)

	cum := 0.0
	for _, s := range Segments(p) {
		mid := (cum + s.Length/2) / p.TotalDistance()
		loc, err := Locate(p, mid)
		require.NoError(t, err)
		assert.Equal(t, s.Phase, loc.Phase)
		assert.InDelta(t, 0.5, loc.Progress, 1e-9)
		cum += s.Length
	}
}

func TestLocate_OutOfRange(t *testing.T) {
	for _, f := range []float64{-0.01, 1.0000001, math.NaN()} {
		_, err := Locate(evenMedium, f)
		assert.ErrorIs(t, err, ErrOutOfRangeFraction, "fraction %v", f)
	}
}
