package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"custmaker/core/domain"
)

// Sampler draws values from a categorical distribution with replacement using a
// cumulative-weight table and binary search.
type Sampler struct {
	values     []string
	cumulative []float64
	total      float64
}

// NewSampler validates d and builds its cumulative table.
func NewSampler(d domain.Distribution) (*Sampler, error) {
	if len(d.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s has no entries", ErrInvalidDistribution, d.Category)
	}

	s := &Sampler{
		values:     make([]string, 0, len(d.Entries)),
		cumulative: make([]float64, 0, len(d.Entries)),
	}
	for _, e := range d.Entries {
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight < 0 {
			return nil, fmt.Errorf("%w: %s weight for %q is %v", ErrInvalidDistribution, d.Category, e.Value, e.Weight)
		}
		// zero weights can never be drawn
		if e.Weight == 0 {
			continue
		}
		s.total += e.Weight
		s.values = append(s.values, e.Value)
		s.cumulative = append(s.cumulative, s.total)
	}
	if s.total <= 0 || math.IsInf(s.total, 0) {
		return nil, fmt.Errorf("%w: %s total weight is %v", ErrInvalidDistribution, d.Category, s.total)
	}
	return s, nil
}

// Draw returns one value.
func (s *Sampler) Draw(rng *rand.Rand) string {
	r := rng.Float64() * s.total
	i := sort.Search(len(s.cumulative), func(i int) bool { return s.cumulative[i] > r })
	if i == len(s.cumulative) {
		// r can only reach total through float rounding
		i--
	}
	return s.values[i]
}

// DrawN returns n independent draws.
func (s *Sampler) DrawN(rng *rand.Rand, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s.Draw(rng)
	}
	return out
}

// Probability returns the normalized probability of value.
func (s *Sampler) Probability(value string) float64 {
	prev := 0.0
	for i, v := range s.values {
		if v == value {
			return (s.cumulative[i] - prev) / s.total
		}
		prev = s.cumulative[i]
	}
	return 0
}
