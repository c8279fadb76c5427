package generator

import (
	"math/rand/v2"
	"testing"

	"custmaker/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler_Frequencies(t *testing.T) {
	d := domain.NewDistribution(domain.CategoryLastName, map[string]float64{
		"Kim": 0.2, "Lee": 0.15, "Park": 0.1, "Choi": 0.05,
	})
	s, err := NewSampler(d)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 2))
	const n = 100000
	counts := make(map[string]int)
	for _, v := range s.DrawN(rng, n) {
		counts[v]++
	}

	for _, e := range d.Entries {
		want := e.Weight / d.Total()
		got := float64(counts[e.Value]) / n
		assert.InDelta(t, want, got, 0.01, "value %s", e.Value)
		assert.InDelta(t, want, s.Probability(e.Value), 1e-9)
	}
}

func TestSampler_SkipsZeroWeights(t *testing.T) {
	d := domain.NewDistribution(domain.CategorySex, map[string]float64{"남": 1, "여": 0})
	s, err := NewSampler(d)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(3, 4))
	for _, v := range s.DrawN(rng, 1000) {
		assert.Equal(t, "남", v)
	}
	assert.Zero(t, s.Probability("여"))
}

func TestSampler_SingleEntry(t *testing.T) {
	s, err := NewSampler(domain.NewDistribution(domain.CategoryAge, map[string]float64{"30대": 5}))
	require.NoError(t, err)
	assert.Equal(t, "30대", s.Draw(rand.New(rand.NewPCG(0, 0))))
}
