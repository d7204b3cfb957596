package ageverify

import (
	"time"

	dErrors "botilleria/pkg/domain-errors"
)

// BirthDateLayout is the wire format for birth dates: ISO-8601 calendar date,
// day precision.
const BirthDateLayout = "2006-01-02"

// ComputeAge returns the exact calendar age in whole years at asOf.
// The year difference is decremented when asOf's month/day falls before the
// birthday within the year, so the result is exact to the day: someone is 17
// the day before their 18th birthday and 18 on it.
func ComputeAge(birthDate, asOf time.Time) int {
	age := asOf.Year() - birthDate.Year()
	if asOf.Month() < birthDate.Month() ||
		(asOf.Month() == birthDate.Month() && asOf.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// IsOldEnough reports whether the birth date satisfies minimumAge at asOf.
func IsOldEnough(birthDate time.Time, minimumAge int, asOf time.Time) bool {
	return ComputeAge(birthDate, asOf) >= minimumAge
}

// ParseBirthDate validates and parses a submitted birth date string.
//
// Errors distinguish the three form-level failure kinds so the UI can show
// different messages:
//   - CodeMissingInput: empty string
//   - CodeInvalidInput: unparseable, or a date in the future
func ParseBirthDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Time{}, dErrors.New(dErrors.CodeMissingInput, "birth date is required")
	}
	birthDate, err := time.Parse(BirthDateLayout, s)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "invalid birth date format, expected YYYY-MM-DD")
	}
	if birthDate.After(now) {
		return time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "birth date cannot be in the future")
	}
	return birthDate, nil
}
