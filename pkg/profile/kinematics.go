package profile

import (
	"fmt"

	"aeroprofile/pkg/perf"
)

// State is the kinematic state at a point along a profile.
type State struct {
	SpeedKt     float64 `json:"speed_kt"`
	AltitudeFt  float64 `json:"altitude_ft"`
	ROCFtPerMin float64 `json:"roc_ft_per_min"`
	ElapsedMin  float64 `json:"time_elapsed_min"`
}

// Evaluate computes the state at loc, which must have been located on p at
// overall fraction f. Elapsed time is T_tot·f, linear in overall progress
// rather than weighted by phase duration.
func Evaluate(c perf.Constants, p Profile, loc Location, f float64) (State, error) {
	if err := checkFraction(f); err != nil {
		return State{}, err
	}
	seg, err := segmentFor(p, loc.Phase)
	if err != nil {
		return State{}, err
	}

	alt := altitude(seg, loc)
	return State{
		SpeedKt:     speed(c, p, loc.Phase, alt),
		AltitudeFt:  alt,
		ROCFtPerMin: verticalRate(c, loc.Phase),
		ElapsedMin:  p.TotalTime() * f,
	}, nil
}

// StateAt locates fraction f on p and evaluates it.
func StateAt(c perf.Constants, p Profile, f float64) (State, Location, error) {
	loc, err := Locate(p, f)
	if err != nil {
		return State{}, Location{}, err
	}
	st, err := Evaluate(c, p, loc, f)
	if err != nil {
		return State{}, Location{}, err
	}
	return st, loc, nil
}

func altitude(seg Segment, loc Location) float64 {
	if seg.Phase == Cruise {
		return seg.EntryAlt
	}
	return seg.EntryAlt + (seg.ExitAlt-seg.EntryAlt)*loc.Progress
}

func speed(c perf.Constants, p Profile, ph Phase, alt float64) float64 {
	switch ph {
	case InitialClimb:
		return c.IASIC
	case Climb1:
		return c.IASC1
	case Climb2:
		return c.IASC2
	case MachClimb:
		return perf.MachToKnots(c.MachMC, alt)
	case Cruise:
		return cruiseSpeed(c, p)
	case InitialDescent:
		return perf.MachToKnots(c.MachID, alt)
	case Descent:
		return c.IASD
	case Approach:
		return c.IASA
	default:
		panic(fmt.Sprintf("profile: unexpected phase %d", int(ph)))
	}
}

// cruiseSpeed is IAS_cr on Medium routes. Every other shape reports
// 573·Mach_cr, including VeryLong whose cruise leg is timed at 605·Mach_cr.
func cruiseSpeed(c perf.Constants, p Profile) float64 {
	switch p.(type) {
	case Medium:
		return p.CruiseSpeed()
	case Short, Long, VeryLong:
		return longCruiseKt * c.MachCR
	default:
		panic(fmt.Sprintf("profile: unexpected profile type %T", p))
	}
}

// verticalRate is signed: negative for every descending phase.
func verticalRate(c perf.Constants, ph Phase) float64 {
	switch ph {
	case InitialClimb:
		return c.ROCIC
	case Climb1:
		return c.ROCC1
	case Climb2:
		return c.ROCC2
	case MachClimb:
		return c.ROCMC
	case Cruise:
		return 0
	case InitialDescent:
		return -c.ROCID
	case Descent:
		return -c.RODD
	case Approach:
		return -c.RODA
	default:
		panic(fmt.Sprintf("profile: unexpected phase %d", int(ph)))
	}
}
