package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration read from YAML with the extra units d and w,
// e.g. "1d12h" for a cache TTL.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Nanoseconds per duration unit.
var durationUnits = map[string]float64{
	"ns": 1,
	"us": 1e3,
	"µs": 1e3,
	"ms": 1e6,
	"s":  1e9,
	"m":  60e9,
	"h":  3600e9,
	"d":  24 * 3600e9,
	"w":  7 * 24 * 3600e9,
}

// ParseDuration parses "250ms", "1h30m" or "2d". A bare number is only
// accepted when it is zero.
func ParseDuration(s string) (time.Duration, error) {
	ns, err := parseQuantity(s, durationUnits, 0)
	if err != nil {
		return 0, fmt.Errorf("duration %q: %w", s, err)
	}
	return time.Duration(ns), nil
}

// Distance is a route length in meters.
type Distance float64

// Km returns d in kilometers, the unit the profile builder takes.
func (d Distance) Km() float64 {
	return float64(d) / 1000
}

// Meters per distance unit.
var distanceUnits = map[string]float64{
	"m":  1,
	"km": 1000,
	"nm": 1852,
	"ft": 0.3048,
}

// ParseDistance parses a route length such as "500km", "270nm" or
// "1nm200ft". A bare number is meters. Negative lengths parse and are left
// for the profile builder to reject.
func ParseDistance(s string) (Distance, error) {
	m, err := parseQuantity(s, distanceUnits, 1)
	if err != nil {
		return 0, fmt.Errorf("distance %q: %w", s, err)
	}
	return Distance(m), nil
}

// parseQuantity sums the number+unit parts of s, scaled by units. A lone
// number is scaled by bare; bare 0 rejects it unless the number is 0.
func parseQuantity(s string, units map[string]float64, bare float64) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}

	sign := 1.0
	switch s[0] {
	case '-':
		sign, s = -1, s[1:]
	case '+':
		s = s[1:]
	}

	isNum := func(r rune) bool { return unicode.IsDigit(r) || r == '.' }

	var total float64
	for parts := 0; s != ""; parts++ {
		i := strings.IndexFunc(s, func(r rune) bool { return !isNum(r) })
		if i == -1 {
			i = len(s)
		}
		if i == 0 {
			return 0, fmt.Errorf("missing number before %q", s)
		}
		val, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", s[:i])
		}
		s = s[i:]

		j := strings.IndexFunc(s, isNum)
		if j == -1 {
			j = len(s)
		}
		name := strings.TrimSpace(s[:j])
		s = s[j:]

		if name == "" {
			if parts > 0 || (bare == 0 && val != 0) {
				return 0, fmt.Errorf("missing unit after %v", val)
			}
			total += val * bare
			continue
		}
		scale, ok := units[name]
		if !ok {
			return 0, fmt.Errorf("unknown unit %q", name)
		}
		total += val * scale
	}
	return sign * total, nil
}
