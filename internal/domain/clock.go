package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ClockTime is a time of day expressed in minutes since midnight (0..1439).
type ClockTime int

const minutesPerDay = 24 * 60

// ParseClockTime parses an "HH:MM" string.
func ParseClockTime(s string) (ClockTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("clock time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("clock time %q: bad hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q: bad minute", s)
	}
	return ClockTime(h*60 + m), nil
}

// MustClockTime is ParseClockTime that panics on error. Intended for literals.
func MustClockTime(s string) ClockTime {
	t, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Valid reports whether t lies within a single day.
func (t ClockTime) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// String formats t as "HH:MM".
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}
