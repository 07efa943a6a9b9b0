package profile

import (
	"fmt"
	"math"
)

// Phase is a segment of the flight with characteristic speed and altitude
// behaviour.
type Phase int

const (
	InitialClimb Phase = iota
	Climb1
	Climb2
	MachClimb
	Cruise
	InitialDescent
	Descent
	Approach
)

var phaseNames = [...]string{
	InitialClimb:   "initial_climb",
	Climb1:         "climb1",
	Climb2:         "climb2",
	MachClimb:      "mach_climb",
	Cruise:         "cruise",
	InitialDescent: "initial_descent",
	Descent:        "descent",
	Approach:       "approach",
}

func (p Phase) String() string {
	if p < InitialClimb || p > Approach {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	if p < InitialClimb || p > Approach {
		return nil, fmt.Errorf("unknown phase %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Segment is one leg of a profile in flight order.
type Segment struct {
	Phase    Phase   `json:"phase"`
	Length   float64 `json:"length_nm"`
	EntryAlt float64 `json:"entry_alt_ft"`
	ExitAlt  float64 `json:"exit_alt_ft"`
}

// Segments lists the legs of p in flight order: six for Short and Medium,
// eight for Long and VeryLong.
func Segments(p Profile) []Segment {
	switch p := p.(type) {
	case Short:
		return simpleSegments(p.Legs)
	case Medium:
		return simpleSegments(p.Legs)
	case Long:
		return complexSegments(p.ComplexLegs)
	case VeryLong:
		return complexSegments(p.ComplexLegs)
	default:
		panic(fmt.Sprintf("profile: unexpected profile type %T", p))
	}
}

func simpleSegments(l Legs) []Segment {
	return []Segment{
		{InitialClimb, l.DIC, 0, l.HIC},
		{Climb1, l.DC1, l.HIC, l.HC1},
		{Climb2, l.DC2, l.HC1, l.HC2},
		{Cruise, l.DCR, l.HCR, l.HCR},
		{Descent, l.DD, l.HCR, l.HD},
		{Approach, l.DA, l.HD, l.HA},
	}
}

func complexSegments(l ComplexLegs) []Segment {
	return []Segment{
		{InitialClimb, l.DIC, 0, l.HIC},
		{Climb1, l.DC1, l.HIC, l.HC1},
		{Climb2, l.DC2, l.HC1, l.HC2},
		{MachClimb, l.DMC, l.HC2, l.HMC},
		{Cruise, l.DCR, l.HCR, l.HCR},
		{InitialDescent, l.DID, l.HCR, l.HID},
		{Descent, l.DD, l.HID, l.HD},
		{Approach, l.DA, l.HD, l.HA},
	}
}

// Location is the active phase and the progress through it, in [0,1] for
// well formed profiles.
type Location struct {
	Phase    Phase   `json:"phase"`
	Progress float64 `json:"progress"`
}

func checkFraction(f float64) error {
	if math.IsNaN(f) || f < 0 || f > 1 {
		return fmt.Errorf("%w: %v", ErrOutOfRangeFraction, f)
	}
	return nil
}

// Locate finds the phase flown after fraction f of the profile's total
// distance. Legs are half-open cumulative intervals; Approach takes the
// remainder and f == 1 is always the end of the approach.
func Locate(p Profile, f float64) (Location, error) {
	if err := checkFraction(f); err != nil {
		return Location{}, err
	}

	segs := Segments(p)
	last := segs[len(segs)-1]
	if f == 1 {
		return Location{Phase: last.Phase, Progress: 1}, nil
	}

	passed := p.TotalDistance() * f
	cum := 0.0
	for _, s := range segs[:len(segs)-1] {
		if passed < cum+s.Length {
			return Location{Phase: s.Phase, Progress: legProgress(passed-cum, s.Length)}, nil
		}
		cum += s.Length
	}
	return Location{Phase: last.Phase, Progress: legProgress(passed-cum, last.Length)}, nil
}

func legProgress(into, length float64) float64 {
	if length == 0 {
		return 0
	}
	return into / length
}

// segmentFor returns the segment of p flying phase ph.
func segmentFor(p Profile, ph Phase) (Segment, error) {
	for _, s := range Segments(p) {
		if s.Phase == ph {
			return s, nil
		}
	}
	return Segment{}, fmt.Errorf("%w: %s on %s profile", ErrPhaseNotFlown, ph, p.Kind())
}
