package comparison

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"custmaker/core/domain"
	"custmaker/core/port/out"
	"custmaker/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource map[domain.Category]domain.Distribution

func (s stubSource) Load(_ context.Context, c domain.Category) (domain.Distribution, error) {
	d, ok := s[c]
	if !ok {
		return domain.Distribution{}, errors.New("missing")
	}
	return d, nil
}

type stubCustomers struct {
	by          map[out.CustomerField][]domain.CategoryCount
	years       []domain.CategoryCount
	total       int64
	err         error
	countByHits int
}

func (s *stubCustomers) Persist(context.Context, []domain.Customer) error { return nil }
func (s *stubCustomers) Count(context.Context) (int64, error)             { return s.total, s.err }
func (s *stubCustomers) Truncate(context.Context) error                   { return nil }

func (s *stubCustomers) CountBy(_ context.Context, f out.CustomerField) ([]domain.CategoryCount, error) {
	s.countByHits++
	return s.by[f], s.err
}

func (s *stubCustomers) CountByValues(_ context.Context, f out.CustomerField, values []string) ([]domain.CategoryCount, error) {
	var rows []domain.CategoryCount
	for _, c := range s.by[f] {
		for _, v := range values {
			if c.Value == v {
				rows = append(rows, c)
			}
		}
	}
	return rows, s.err
}

func (s *stubCustomers) CountByBirthYear(context.Context) ([]domain.CategoryCount, error) {
	return s.years, s.err
}

func fixture() (stubSource, *stubCustomers) {
	firstNames := make(map[string]float64)
	var firstCounts []domain.CategoryCount
	var total int64
	for i := 0; i < 30; i++ {
		name := fmt.Sprintf("name%02d", i)
		firstNames[name] = float64(30 - i)
		firstCounts = append(firstCounts, domain.CategoryCount{Value: name, Count: int64(30 - i)})
		total += int64(30 - i)
	}

	src := stubSource{
		domain.CategorySex: domain.NewDistribution(domain.CategorySex, map[string]float64{"남": 0.5, "여": 0.5}),
		domain.CategoryLastName: domain.NewDistribution(domain.CategoryLastName, map[string]float64{
			"김": 0.2, "이": 0.15, "박": 0.08, "최": 0.05, "정": 0.04, "강": 0.02,
		}),
		domain.CategoryFirstName: domain.NewDistribution(domain.CategoryFirstName, firstNames),
		domain.CategoryAge: domain.NewDistribution(domain.CategoryAge, map[string]float64{
			"20대": 1, "30대": 2, "40대": 1,
		}),
	}
	customers := &stubCustomers{
		by: map[out.CustomerField][]domain.CategoryCount{
			out.FieldSex: {{Value: "여", Count: 3}, {Value: "남", Count: 1}},
			out.FieldLastName: {
				{Value: "김", Count: 50}, {Value: "이", Count: 30}, {Value: "박", Count: 20},
			},
			out.FieldFirstName: firstCounts,
		},
		total: total,
		years: []domain.CategoryCount{
			{Value: "2004", Count: 1}, // 20
			{Value: "1994", Count: 2}, // 30
			{Value: "1984", Count: 1}, // 40
		},
	}
	return src, customers
}

func newTestService() *Service {
	src, customers := fixture()
	return NewService(src, customers).WithClock(func() time.Time {
		return time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	})
}

func sum(rows []domain.RatioRow) float64 {
	var s float64
	for _, r := range rows {
		s += r.Ratio
	}
	return s
}

func TestSex(t *testing.T) {
	c, err := newTestService().Sex(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.RatioRow{{Label: "Female", Ratio: 50}, {Label: "Male", Ratio: 50}}, sortRows(c.Reference))
	assert.Equal(t, []domain.RatioRow{{Label: "Female", Ratio: 75, Count: 3}, {Label: "Male", Ratio: 25, Count: 1}}, c.Actual)
}

func sortRows(rows []domain.RatioRow) []domain.RatioRow {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Label < rows[j].Label })
	return rows
}

func TestLastNames(t *testing.T) {
	svc := newTestService()

	c, err := svc.LastNames(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, c.Reference, 2)
	assert.Equal(t, "김", c.Reference[0].Label)
	assert.Equal(t, "이", c.Reference[1].Label)
	assert.InDelta(t, 37.04, c.Reference[0].Ratio, 0.001)
	require.Len(t, c.Actual, 2)
	assert.Equal(t, domain.RatioRow{Label: "김", Ratio: 50, Count: 50}, c.Actual[0])
	assert.Contains(t, c.Title, "Top 2")

	c, err = svc.LastNames(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, c.Reference, 6)
	assert.InDelta(t, 100, sum(c.Reference), 0.05)
	assert.InDelta(t, 100, sum(c.Actual), 0.05)
	assert.Contains(t, c.Title, "Top 25")

	c, err = svc.LastNames(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, c.Reference, 1)
}

func TestFirstNames(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name       string
		query      string
		wantRef    int
		wantActual int
		message    string
	}{
		{"empty shows top", "", FirstNameFallback, FirstNameFallback, ""},
		{"exact match", "name03", 1, 1, ""},
		{"unknown name", "없는이름", FirstNameFallback, FirstNameFallback, "Wrong Name!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := svc.FirstNames(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Len(t, c.Reference, tt.wantRef)
			assert.Len(t, c.Actual, tt.wantActual)
			assert.Equal(t, tt.message, c.Message)
		})
	}

	c, err := svc.FirstNames(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "name00", c.Reference[0].Label)
}

func TestFirstNames_ExactMatchSkipsFullGrouping(t *testing.T) {
	src, customers := fixture()
	svc := NewService(src, customers)

	c, err := svc.FirstNames(context.Background(), "name00")
	require.NoError(t, err)

	assert.Zero(t, customers.countByHits)
	require.Len(t, c.Actual, 1)
	assert.Equal(t, "name00", c.Actual[0].Label)
	assert.EqualValues(t, 30, c.Actual[0].Count)
	assert.InDelta(t, 6.45, c.Actual[0].Ratio, 0.001) // 30 of 465
}

func TestFirstNames_UnknownNameFallsBackToGrouping(t *testing.T) {
	src, customers := fixture()
	svc := NewService(src, customers)

	c, err := svc.FirstNames(context.Background(), "없는이름")
	require.NoError(t, err)

	assert.Equal(t, 1, customers.countByHits)
	assert.Len(t, c.Actual, FirstNameFallback)
}

func TestAges(t *testing.T) {
	svc := newTestService()

	c, err := svc.Ages(context.Background(), 0, 99)
	require.NoError(t, err)
	assert.Equal(t, []domain.RatioRow{
		{Label: "20 years", Ratio: 25},
		{Label: "30 years", Ratio: 50},
		{Label: "40 years", Ratio: 25},
	}, c.Reference)
	assert.Equal(t, []domain.RatioRow{
		{Label: "20 years", Ratio: 25, Count: 1},
		{Label: "30 years", Ratio: 50, Count: 2},
		{Label: "40 years", Ratio: 25, Count: 1},
	}, c.Actual)

	c, err = svc.Ages(context.Background(), 25, 40)
	require.NoError(t, err)
	assert.Len(t, c.Reference, 2)
	assert.Len(t, c.Actual, 2)
	assert.Equal(t, "30 years", c.Reference[0].Label)

	_, err = svc.Ages(context.Background(), 50, 10)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidInput, apperr.AsAppError(err).Code)
}

func TestAge(t *testing.T) {
	svc := newTestService()

	p, err := svc.Age(context.Background(), "30 years")
	require.NoError(t, err)
	assert.Equal(t, &domain.PointComparison{Label: "30 years", Reference: 50, Actual: 50}, p)

	p, err = svc.Age(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "20 years", p.Label)

	_, err = svc.Age(context.Background(), "77")
	assert.Equal(t, apperr.CodeNotFound, apperr.AsAppError(err).Code)

	_, err = svc.Age(context.Background(), "abc")
	assert.Equal(t, apperr.CodeInvalidInput, apperr.AsAppError(err).Code)
}

func TestRepositoryErrors(t *testing.T) {
	src, customers := fixture()
	customers.err = errors.New("db down")
	svc := NewService(src, customers)

	_, err := svc.Sex(context.Background())
	assert.Equal(t, apperr.CodeDatabaseError, apperr.AsAppError(err).Code)

	_, err = NewService(stubSource{}, customers).LastNames(context.Background(), 5)
	assert.Equal(t, apperr.CodeUnavailable, apperr.AsAppError(err).Code)
}
