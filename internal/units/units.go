// Package units converts between scene units and the measurement unit shown to the user.
// One scene unit is one centimeter.
package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is a display measurement unit. The zero value is Meters.
type Unit int

const (
	Meters Unit = iota
	Centimeters
	Feet
	Inches
)

// All lists the units in menu order.
var All = []Unit{Meters, Centimeters, Feet, Inches}

type unitInfo struct {
	name   string
	suffix string
	scale  float32 // scene units per display unit
}

var infos = map[Unit]unitInfo{
	Meters:      {"meters", "m", 100},
	Centimeters: {"centimeters", "cm", 1},
	Feet:        {"feet", "ft", 30.48},
	Inches:      {"inches", "in", 2.54},
}

func (u Unit) info() unitInfo {
	if i, ok := infos[u]; ok {
		return i
	}
	return infos[Meters]
}

// String returns the long name used in preference files ("meters", "feet", ...).
func (u Unit) String() string { return u.info().name }

// Suffix returns the short label shown after values ("m", "cm", "ft", "in").
func (u Unit) Suffix() string { return u.info().suffix }

// Scale returns the number of scene units in one display unit.
func (u Unit) Scale() float32 { return u.info().scale }

// ToDisplay converts a scene length to this unit.
func (u Unit) ToDisplay(v float32) float32 { return v / u.Scale() }

// FromDisplay converts a length in this unit to scene units.
func (u Unit) FromDisplay(v float32) float32 { return v * u.Scale() }

// Format renders a scene length in this unit, e.g. "3.20 m".
func (u Unit) Format(v float32) string {
	return strconv.FormatFloat(float64(u.ToDisplay(v)), 'f', 2, 32) + " " + u.Suffix()
}

// ParseUnit returns the unit named by s: a long name or a suffix, case-insensitive.
func ParseUnit(s string) (Unit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, u := range All {
		i := infos[u]
		if s == i.name || s == i.suffix {
			return u, nil
		}
	}
	return Meters, fmt.Errorf("units: unknown unit %q", s)
}

// Parse reads a length such as "3.2m", "320 cm" or "10ft" and returns it in scene units.
// A bare number is taken to be in u.
func (u Unit) Parse(s string) (float32, error) {
	s = strings.TrimSpace(s)
	end := len(s)
	for end > 0 && isLetter(s[end-1]) {
		end--
	}
	unit := u
	if end < len(s) {
		var err error
		if unit, err = ParseUnit(s[end:]); err != nil {
			return 0, err
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s[:end]), 32)
	if err != nil {
		return 0, fmt.Errorf("units: parse %q: %w", s, err)
	}
	return unit.FromDisplay(float32(v)), nil
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// MarshalText writes the long name, so YAML and JSON files read "meters" rather than 0.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText accepts any name ParseUnit does. Unknown names fall back to Meters.
func (u *Unit) UnmarshalText(b []byte) error {
	v, err := ParseUnit(string(b))
	if err != nil {
		v = Meters
	}
	*u = v
	return nil
}
