package profile

import "errors"

var (
	// ErrInvalidDistance is returned for negative or non-finite route distances.
	ErrInvalidDistance = errors.New("invalid distance")
	// ErrOutOfRangeFraction is returned for progress fractions outside [0,1].
	ErrOutOfRangeFraction = errors.New("fraction out of range")
	// ErrPhaseNotFlown is returned when a location names a phase the profile
	// does not contain, e.g. MachClimb on a Medium profile.
	ErrPhaseNotFlown = errors.New("phase not flown by profile")
)
