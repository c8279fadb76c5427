package generator

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"custmaker/core/domain"
)

// ParseAgeBucket strips the trailing unit suffix ("30대", "30세", "100세 이상")
// and returns the leading age digits. Signs are not digits.
func ParseAgeBucket(label string) (int, error) {
	trimmed := strings.TrimSpace(label)
	end := strings.IndexFunc(trimmed, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if end < 0 {
		end = len(trimmed)
	}
	digits := trimmed[:end]
	if digits == "" {
		return 0, fmt.Errorf("%w: age bucket %q has no digits", ErrInvalidDistribution, label)
	}
	age, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: age bucket %q: %v", ErrInvalidDistribution, label, err)
	}
	return age, nil
}

// BirthYear converts an age bucket to a birth year counting the birth year as age 1.
func BirthYear(currentYear, age int) int {
	return currentYear - age + 1
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DayOffset draws an offset from January 1 uniformly within the year.
func DayOffset(rng *rand.Rand, year int) int {
	return rng.IntN(DaysInYear(year))
}

// Birthdate formats January 1 of year plus offset days as YYYYMMDD.
func Birthdate(year, offset int) string {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, offset).
		Format(domain.DateLayout)
}
