// Package matching holds the pure compatibility logic: age derivation,
// affinity scoring and the reciprocal interest filter. Nothing in this
// package touches storage or performs I/O.
package matching

import "time"

// birthDateLayout is the wire format for dates of birth.
const birthDateLayout = "2006-01-02"

// AgeAt computes the age in whole years at the given instant, decrementing
// when the month/day has not yet been reached. An empty or unparseable date
// yields 0; the function never fails. A future date yields a non-positive
// value, which callers treat like any other integer.
func AgeAt(dob string, now time.Time) int {
	born, err := time.Parse(birthDateLayout, dob)
	if err != nil {
		return 0
	}

	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	return years
}

// Age computes the age in whole years as of now.
func Age(dob string) int {
	return AgeAt(dob, time.Now())
}
