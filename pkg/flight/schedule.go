package flight

import (
	"errors"
	"time"
)

// ErrNoAnchor is returned when neither a departure nor an arrival time is set.
var ErrNoAnchor = errors.New("no departure or arrival time set")

// Schedule anchors a flight in clock time. Departure wins when both are set.
type Schedule struct {
	Departure time.Time `json:"departure,omitzero"`
	Arrival   time.Time `json:"arrival,omitzero"`
}

// Times are the resolved clock times of a flight.
type Times struct {
	Departure time.Time `json:"departure"`
	Arrival   time.Time `json:"arrival"`
	Current   time.Time `json:"current"`
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}

// Resolve derives the missing clock times from the flight's total and
// elapsed minutes. Anchored on the arrival, the current time is counted
// back from the arrival by the elapsed time.
func (s Schedule) Resolve(totalMin, elapsedMin float64) (Times, error) {
	switch {
	case !s.Departure.IsZero():
		return Times{
			Departure: s.Departure,
			Arrival:   s.Departure.Add(minutes(totalMin)),
			Current:   s.Departure.Add(minutes(elapsedMin)),
		}, nil
	case !s.Arrival.IsZero():
		return Times{
			Departure: s.Arrival.Add(-minutes(totalMin)),
			Arrival:   s.Arrival,
			Current:   s.Arrival.Add(-minutes(elapsedMin)),
		}, nil
	default:
		return Times{}, ErrNoAnchor
	}
}
