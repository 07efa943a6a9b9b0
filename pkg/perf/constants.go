// Package perf holds the fixed aircraft performance table the profile
// builder works from.
package perf

// Unit conversions.
const (
	KtToKmh = 1.852
	KmToNM  = 0.539956803
)

// Constants is the performance table. Altitudes are in feet, rates in
// feet per minute, speeds in knots (IAS) or Mach, durations in minutes and
// thresholds in nautical miles. A Constants value is never mutated after
// construction; callers pass it by value.
type Constants struct {
	// Initial climb
	HIC   float64 `yaml:"h_ic"`
	ROCIC float64 `yaml:"roc_ic"`
	IASIC float64 `yaml:"ias_ic"`
	TIC   float64 `yaml:"t_ic"`

	// Climb 1
	HC1   float64 `yaml:"h_c1"`
	ROCC1 float64 `yaml:"roc_c1"`
	IASC1 float64 `yaml:"ias_c1"`
	TC1   float64 `yaml:"t_c1"`

	// Climb 2
	HC2   float64 `yaml:"h_c2"`
	ROCC2 float64 `yaml:"roc_c2"`
	IASC2 float64 `yaml:"ias_c2"`

	// Cruise
	HCR    float64 `yaml:"h_cr"`
	MachCR float64 `yaml:"mach_cr"`
	IASCR  float64 `yaml:"ias_cr"`

	// Descent
	HD   float64 `yaml:"h_d"`
	RODD float64 `yaml:"rod_d"`
	IASD float64 `yaml:"ias_d"`
	TD   float64 `yaml:"t_d"`

	// Approach
	HA   float64 `yaml:"h_a"`
	RODA float64 `yaml:"rod_a"`
	IASA float64 `yaml:"ias_a"`

	// Mach climb
	HMC    float64 `yaml:"h_mc"`
	MachMC float64 `yaml:"mach_mc"`
	ROCMC  float64 `yaml:"roc_mc"`
	TMC    float64 `yaml:"t_mc"`

	// Initial descent
	HID    float64 `yaml:"h_id"`
	MachID float64 `yaml:"mach_id"`
	ROCID  float64 `yaml:"roc_id"`
	TID    float64 `yaml:"t_id"`

	Threshold1 float64 `yaml:"threshold_1"`
	Threshold2 float64 `yaml:"threshold_2"`
	Threshold3 float64 `yaml:"threshold_3"`

	DefaultSpeedKmh float64 `yaml:"default_speed_kmh"`
}

// Default returns the stock performance table.
func Default() Constants {
	return Constants{
		HIC:   5000,
		ROCIC: 2500,
		IASIC: 175,
		TIC:   2,

		HC1:   15000,
		ROCC1: 2000,
		IASC1: 290,
		TC1:   5,

		HC2:   24000,
		ROCC2: 1400,
		IASC2: 290,

		HCR:    24000,
		MachCR: 0.78,
		IASCR:  290,

		HD:   10000,
		RODD: 3500,
		IASD: 290,
		TD:   4,

		HA:   0,
		RODA: 1500,
		IASA: 250,

		HMC:    41000,
		MachMC: 0.78,
		ROCMC:  1000,
		TMC:    17,

		HID:    24000,
		MachID: 0.78,
		ROCID:  1000,
		TID:    17,

		Threshold1: 220.62,
		Threshold2: 476.112,
		Threshold3: 579.606,

		DefaultSpeedKmh: 450 * KtToKmh,
	}
}

// Climb 2 spans a fixed 9000 ft band and the approach a fixed 10000 ft band
// flown at 1500 ft/min, independent of the table.
const (
	climb2BandFt   = 9000
	approachBandFt = 10000
	approachROD    = 1500
)

// TC2 is the climb 2 duration in minutes.
func (c Constants) TC2() float64 {
	return climb2BandFt / c.ROCC2
}

// TA is the approach duration in minutes.
func (c Constants) TA() float64 {
	return float64(approachBandFt) / approachROD
}

// FixedLegs are the lengths in NM of the five legs every profile flies.
type FixedLegs struct {
	IC, C1, C2, D, A float64
}

// Sum is the total length of the fixed legs.
func (l FixedLegs) Sum() float64 {
	return l.IC + l.C1 + l.C2 + l.D + l.A
}

// FixedLegs derives the fixed leg lengths from the table: speed divided by
// the number of legs of that duration that fit in an hour.
func (c Constants) FixedLegs() FixedLegs {
	return FixedLegs{
		IC: c.IASIC / (60 / c.TIC),
		C1: c.IASC1 / (60 / c.TC1),
		C2: c.IASC2 / (60 / c.TC2()),
		D:  c.IASD / (60 / c.TD),
		A:  c.IASA / (60 / c.TA()),
	}
}

// FixedTime is the summed duration in minutes of the five fixed legs.
func (c Constants) FixedTime() float64 {
	return c.TIC + c.TC1 + c.TC2() + c.TD + c.TA()
}

// MachToKnots maps a Mach number to a speed using a coarse standard
// atmosphere band keyed on altitude. Boundaries are inclusive.
func MachToKnots(mach, altFt float64) float64 {
	switch {
	case altFt >= 40000:
		return mach * 573
	case altFt >= 35000:
		return mach * 574
	case altFt >= 30000:
		return mach * 589
	case altFt >= 25000:
		return mach * 602
	case altFt >= 20000:
		return mach * 614
	default:
		return mach * 589
	}
}
