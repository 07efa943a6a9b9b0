// Package profile builds synthetic vertical profiles for a route length and
// evaluates speed, altitude, vertical rate and elapsed time along them.
//
// All functions are pure: they read a perf.Constants table and their
// arguments and return values. They are safe for concurrent use.
package profile

import (
	"fmt"
	"math"

	"aeroprofile/pkg/perf"
)

// Profile is one of Short, Medium, Long or VeryLong.
type Profile interface {
	// Kind names the profile shape.
	Kind() string
	// TotalDistance is D_tot in nautical miles.
	TotalDistance() float64
	// TotalTime is T_tot in minutes.
	TotalTime() float64
	// CruiseAltitude is H_cr in feet.
	CruiseAltitude() float64
	// CruiseSpeed is the speed in knots used to time the cruise leg. The
	// speed reported while cruising may differ, see Evaluate.
	CruiseSpeed() float64

	isProfile()
}

// Legs carries the fields shared by every profile shape. Distances are in
// NM, altitudes in ft, times in minutes.
type Legs struct {
	DIC float64 `json:"d_ic"`
	DC1 float64 `json:"d_c1"`
	DC2 float64 `json:"d_c2"`
	DCR float64 `json:"d_cr"`
	DD  float64 `json:"d_d"`
	DA  float64 `json:"d_a"`

	HIC float64 `json:"h_ic"`
	HC1 float64 `json:"h_c1"`
	HC2 float64 `json:"h_c2"`
	HCR float64 `json:"h_cr"`
	HD  float64 `json:"h_d"`
	HA  float64 `json:"h_a"`

	IASCR float64 `json:"ias_cr"`
	TCR   float64 `json:"t_cr"`
	DTot  float64 `json:"d_tot"`
	TTot  float64 `json:"t_tot"`
}

// TotalDistance implements Profile.
func (l Legs) TotalDistance() float64 { return l.DTot }

// TotalTime implements Profile.
func (l Legs) TotalTime() float64 { return l.TTot }

// CruiseAltitude implements Profile.
func (l Legs) CruiseAltitude() float64 { return l.HCR }

// CruiseSpeed implements Profile.
func (l Legs) CruiseSpeed() float64 { return l.IASCR }

// ComplexLegs adds the Mach climb and initial descent legs flown on long
// routes. DID always equals DMC.
type ComplexLegs struct {
	Legs
	DMC float64 `json:"d_mc"`
	DID float64 `json:"d_id"`
	HMC float64 `json:"h_mc"`
	HID float64 `json:"h_id"`
	TMC float64 `json:"t_mc"`
}

// Short is a route too short for a cruise leg. Its DTot is the input
// distance, not the sum of its legs.
type Short struct{ Legs }

// Medium is a route with a cruise leg at H_cr and no Mach climb.
type Medium struct{ Legs }

// Long is a route with a Mach climb to a distance dependent apex.
type Long struct{ ComplexLegs }

// VeryLong is a route cruising at the table ceiling.
type VeryLong struct{ ComplexLegs }

func (Short) Kind() string    { return "short" }
func (Medium) Kind() string   { return "medium" }
func (Long) Kind() string     { return "long" }
func (VeryLong) Kind() string { return "very_long" }

func (Short) isProfile()    {}
func (Medium) isProfile()   {}
func (Long) isProfile()     {}
func (VeryLong) isProfile() {}

// Knots per Mach used for the complex cruise legs.
const (
	longCruiseKt     = 573
	veryLongCruiseKt = 605
)

// Build computes the profile for a great-circle route of distKm kilometres.
func Build(c perf.Constants, distKm float64) (Profile, error) {
	if math.IsNaN(distKm) || math.IsInf(distKm, 0) || distKm < 0 {
		return nil, fmt.Errorf("%w: %v km", ErrInvalidDistance, distKm)
	}

	dTotal := distKm * perf.KmToNM
	fixed := c.FixedLegs()

	switch {
	case dTotal <= fixed.Sum():
		return buildShort(c, dTotal, fixed), nil
	case dTotal <= c.Threshold1:
		return buildMedium(c, dTotal, fixed), nil
	case dTotal <= c.Threshold2:
		apex := MachClimbApex(c, dTotal, fixed)
		return Long{buildComplex(c, dTotal, fixed, apex, apex, longCruiseKt*c.MachCR)}, nil
	default:
		return VeryLong{buildComplex(c, dTotal, fixed, c.HMC, c.HMC, veryLongCruiseKt*c.MachCR)}, nil
	}
}

func simpleLegs(c perf.Constants, fixed perf.FixedLegs, dcr float64) Legs {
	tcr := dcr / c.IASCR * 60
	return Legs{
		DIC:   fixed.IC,
		DC1:   fixed.C1,
		DC2:   fixed.C2,
		DCR:   dcr,
		DD:    fixed.D,
		DA:    fixed.A,
		HIC:   c.HIC,
		HC1:   c.HC1,
		HC2:   c.HC2,
		HCR:   c.HCR,
		HD:    c.HD,
		HA:    c.HA,
		IASCR: c.IASCR,
		TCR:   tcr,
		TTot:  c.TIC + c.TC1 + c.TC2() + tcr + c.TD + c.TA(),
	}
}

// buildShort keeps all five fixed legs unscaled even when they overrun the
// route; only the cruise leg absorbs the slack.
func buildShort(c perf.Constants, dTotal float64, fixed perf.FixedLegs) Short {
	l := simpleLegs(c, fixed, math.Max(0, dTotal-fixed.Sum()))
	l.DTot = dTotal
	return Short{l}
}

func buildMedium(c perf.Constants, dTotal float64, fixed perf.FixedLegs) Medium {
	l := simpleLegs(c, fixed, dTotal-fixed.Sum())
	l.DTot = l.DIC + l.DC1 + l.DC2 + l.DCR + l.DD + l.DA
	return Medium{l}
}

func buildComplex(c perf.Constants, dTotal float64, fixed perf.FixedLegs, hmc, hcr, iasCR float64) ComplexLegs {
	tmc := (hmc - c.HC2) / c.ROCMC
	dmc := 589 * c.MachMC / 60 * tmc
	did := dmc

	dcr := dTotal - (fixed.IC + fixed.C1 + fixed.C2 + dmc + did + fixed.D + fixed.A)
	tcr := dcr / iasCR * 60

	l := Legs{
		DIC:   fixed.IC,
		DC1:   fixed.C1,
		DC2:   fixed.C2,
		DCR:   dcr,
		DD:    fixed.D,
		DA:    fixed.A,
		HIC:   c.HIC,
		HC1:   c.HC1,
		HC2:   c.HC2,
		HCR:   hcr,
		HD:    c.HD,
		HA:    c.HA,
		IASCR: iasCR,
		TCR:   tcr,
		TTot:  c.TIC + c.TC1 + c.TC2() + tmc + tcr + tmc + c.TD + c.TA(),
	}
	l.DTot = l.DIC + l.DC1 + l.DC2 + dmc + l.DCR + did + l.DD + l.DA

	return ComplexLegs{
		Legs: l,
		DMC:  dmc,
		DID:  did,
		HMC:  hmc,
		HID:  c.HID,
		TMC:  tmc,
	}
}

// apexScale is an empirical ft/NM/Mach factor of the Mach climb model.
const apexScale = 0.00393197088

// MachClimbApex solves for the Mach climb top-of-climb altitude that fits a
// route of dTotal NM. When the quadratic has no real root the table's
// nominal H_mc is used. Apexes at or above FL360 are replaced by a distance
// proportional estimate capped at H_mc.
func MachClimbApex(c perf.Constants, dTotal float64, fixed perf.FixedLegs) float64 {
	remaining := dTotal - fixed.Sum()

	a := -c.MachMC * apexScale
	b := 675.2792976*c.MachMC - 29.4897816*c.MachCR + apexScale*c.HCR*c.MachMC
	k := 5.064594732e6*c.MachCR - 675.2792976*c.HCR*c.MachMC - 30000*remaining

	h := c.HMC
	if delta := b*b - 4*a*k; delta >= 0 {
		h = (-b + math.Sqrt(delta)) / (2 * a)
	}

	if h/100 >= 360 {
		h = (dTotal-215.8)*30000/(574*0.79) + c.HC2
		if h > c.HMC {
			h = c.HMC
		}
	}
	return h
}
