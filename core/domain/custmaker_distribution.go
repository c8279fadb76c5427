package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidReference marks reference data that cannot be stored or used.
var ErrInvalidReference = errors.New("invalid reference data")

// Category names one reference distribution.
type Category string

const (
	CategorySex       Category = "sex"
	CategoryLastName  Category = "lastname"
	CategoryFirstName Category = "firstname"
	CategoryAge       Category = "age"
	CategoryRegion    Category = "region"
)

// AllCategories lists every reference category, including region which is stored
// but not sampled.
var AllCategories = []Category{
	CategorySex, CategoryLastName, CategoryFirstName, CategoryAge, CategoryRegion,
}

// ParseCategory accepts the canonical names plus a few aliases used by the CLI.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sex", "gender":
		return CategorySex, nil
	case "lastname", "last_name", "surname":
		return CategoryLastName, nil
	case "firstname", "first_name", "given_name":
		return CategoryFirstName, nil
	case "age", "age_bucket":
		return CategoryAge, nil
	case "region":
		return CategoryRegion, nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// WeightedValue is one row of a reference table.
type WeightedValue struct {
	Value  string  `json:"value" db:"value"`
	Weight float64 `json:"weight" db:"ratio"`
}

// Distribution is a categorical weight table for one customer attribute.
// Weights need not sum to 1.
type Distribution struct {
	Category Category        `json:"category"`
	Entries  []WeightedValue `json:"entries"`
}

// NewDistribution builds a distribution from a value->weight map. Entries are
// ordered by value so sampling with a fixed seed is reproducible.
func NewDistribution(category Category, weights map[string]float64) Distribution {
	entries := make([]WeightedValue, 0, len(weights))
	for v, w := range weights {
		entries = append(entries, WeightedValue{Value: v, Weight: w})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Value < entries[j].Value })
	return Distribution{Category: category, Entries: entries}
}

// Total returns the sum of all weights.
func (d Distribution) Total() float64 {
	var sum float64
	for _, e := range d.Entries {
		sum += e.Weight
	}
	return sum
}

// Len returns the number of entries.
func (d Distribution) Len() int { return len(d.Entries) }

// Lookup returns the weight for value.
func (d Distribution) Lookup(value string) (float64, bool) {
	for _, e := range d.Entries {
		if e.Value == value {
			return e.Weight, true
		}
	}
	return 0, false
}

// SortedByWeight returns a copy ordered by descending weight, ties by value.
func (d Distribution) SortedByWeight() []WeightedValue {
	out := make([]WeightedValue, len(d.Entries))
	copy(out, d.Entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Distributions groups the four tables the generator samples from.
type Distributions struct {
	Sex       Distribution
	LastName  Distribution
	FirstName Distribution
	AgeBucket Distribution
}
