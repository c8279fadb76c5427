package domain

import (
	"strconv"
	"time"
)

// DateLayout is the 8-digit date format used for birth and join dates.
const DateLayout = "20060102"

// Sex is the sex label stored on a customer row.
type Sex string

const (
	SexMale   Sex = "남"
	SexFemale Sex = "여"
)

// DisplayName returns the English label shown on the dashboard.
func (s Sex) DisplayName() string {
	switch s {
	case SexMale, "M":
		return "Male"
	case SexFemale, "F":
		return "Female"
	default:
		return string(s)
	}
}

// Customer is one synthetic customer record.
type Customer struct {
	ID        int64  `json:"id,omitempty"`
	LastName  string `json:"lastname"`
	FirstName string `json:"firstname"`
	Sex       Sex    `json:"sex"`
	Birthdate string `json:"birthdate"`
	JoinDate  string `json:"joindate"`
}

// BirthYear returns the year part of the birthdate, or 0 if malformed.
func (c Customer) BirthYear() int {
	if len(c.Birthdate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(c.Birthdate[:4])
	if err != nil {
		return 0
	}
	return year
}

// AgeAt returns the Korean-style age (counting the birth year as 1) in the given year.
func AgeAt(birthYear, currentYear int) int {
	return currentYear - birthYear + 1
}

// IsValidDate reports whether s is an 8-digit numeric string naming a real date.
func IsValidDate(s string) bool {
	if len(s) != 8 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
