// Package comparison contrasts the reference distributions with the generated
// customer population.
package comparison

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"custmaker/core/domain"
	"custmaker/core/port/in"
	"custmaker/core/port/out"
	"custmaker/core/service/generator"
	"custmaker/pkg/apperr"
)

const (
	DefaultTopN       = 5
	MaxTopN           = 25
	FirstNameFallback = 20
	MinAge            = 0
	MaxAge            = 99

	wrongNameMessage = "Wrong Name!"
)

type Service struct {
	source    out.DistributionSource
	customers out.CustomerRepository
	now       func() time.Time
}

var _ in.ComparisonService = (*Service)(nil)

func NewService(source out.DistributionSource, customers out.CustomerRepository) *Service {
	return &Service{source: source, customers: customers, now: time.Now}
}

// WithClock fixes the year used to turn birth years into ages.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(part/total*10000) / 100
}

func referenceRows(entries []domain.WeightedValue, total float64) []domain.RatioRow {
	rows := make([]domain.RatioRow, len(entries))
	for i, e := range entries {
		rows[i] = domain.RatioRow{Label: e.Value, Ratio: percent(e.Weight, total)}
	}
	return rows
}

func actualRows(counts []domain.CategoryCount) []domain.RatioRow {
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	rows := make([]domain.RatioRow, len(counts))
	for i, c := range counts {
		rows[i] = domain.RatioRow{Label: c.Value, Ratio: percent(float64(c.Count), float64(total)), Count: c.Count}
	}
	return rows
}

func head(rows []domain.RatioRow, n int) []domain.RatioRow {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

func (s *Service) load(ctx context.Context, category domain.Category) (domain.Distribution, error) {
	d, err := s.source.Load(ctx, category)
	if err != nil {
		return domain.Distribution{}, apperr.Unavailable("reference data", fmt.Errorf("load %s: %w", category, err))
	}
	return d, nil
}

func (s *Service) countBy(ctx context.Context, field out.CustomerField) ([]domain.CategoryCount, error) {
	counts, err := s.customers.CountBy(ctx, field)
	if err != nil {
		return nil, apperr.DatabaseError("count customers by "+string(field), err)
	}
	return counts, nil
}

// Sex compares the male/female split.
func (s *Service) Sex(ctx context.Context) (*domain.Comparison, error) {
	ref, err := s.load(ctx, domain.CategorySex)
	if err != nil {
		return nil, err
	}
	counts, err := s.countBy(ctx, out.FieldSex)
	if err != nil {
		return nil, err
	}

	c := &domain.Comparison{
		Title:     "Comparison of gender distribution",
		Reference: referenceRows(ref.Entries, ref.Total()),
		Actual:    actualRows(counts),
	}
	for _, rows := range [][]domain.RatioRow{c.Reference, c.Actual} {
		for i := range rows {
			rows[i].Label = domain.Sex(rows[i].Label).DisplayName()
		}
	}
	return c, nil
}

// LastNames compares the top most frequent last names. top is clamped to [1, 25].
func (s *Service) LastNames(ctx context.Context, top int) (*domain.Comparison, error) {
	top = min(max(top, 1), MaxTopN)

	ref, err := s.load(ctx, domain.CategoryLastName)
	if err != nil {
		return nil, err
	}
	counts, err := s.countBy(ctx, out.FieldLastName)
	if err != nil {
		return nil, err
	}

	return &domain.Comparison{
		Title:     fmt.Sprintf("Comparison of lastname distribution (Top %d)", top),
		Reference: head(referenceRows(ref.SortedByWeight(), ref.Total()), top),
		Actual:    head(actualRows(counts), top),
	}, nil
}

// FirstNames shows the searched name on each side, or the 20 most frequent names
// on a side where it does not occur.
func (s *Service) FirstNames(ctx context.Context, name string) (*domain.Comparison, error) {
	name = strings.TrimSpace(name)

	ref, err := s.load(ctx, domain.CategoryFirstName)
	if err != nil {
		return nil, err
	}

	c := &domain.Comparison{Title: "Comparison of firstname distribution"}

	refRows := referenceRows(ref.SortedByWeight(), ref.Total())
	c.Reference = pick(refRows, name)
	if c.Reference == nil {
		c.Reference = head(refRows, FirstNameFallback)
		if name != "" {
			c.Message = wrongNameMessage
		}
	}

	c.Actual, err = s.actualFirstName(ctx, name)
	if err != nil {
		return nil, err
	}
	if c.Actual == nil {
		counts, err := s.countBy(ctx, out.FieldFirstName)
		if err != nil {
			return nil, err
		}
		c.Actual = head(actualRows(counts), FirstNameFallback)
	}
	return c, nil
}

// actualFirstName counts a single name against the whole population. It returns
// nil when name is empty or no customer carries it.
func (s *Service) actualFirstName(ctx context.Context, name string) ([]domain.RatioRow, error) {
	if name == "" {
		return nil, nil
	}
	counts, err := s.customers.CountByValues(ctx, out.FieldFirstName, []string{name})
	if err != nil {
		return nil, apperr.DatabaseError("count customers by firstname", err)
	}
	if len(counts) == 0 {
		return nil, nil
	}
	total, err := s.customers.Count(ctx)
	if err != nil {
		return nil, apperr.DatabaseError("count customers", err)
	}
	c := counts[0]
	return []domain.RatioRow{{Label: c.Value, Ratio: percent(float64(c.Count), float64(total)), Count: c.Count}}, nil
}

func pick(rows []domain.RatioRow, label string) []domain.RatioRow {
	if label == "" {
		return nil
	}
	for _, r := range rows {
		if r.Label == label {
			return []domain.RatioRow{r}
		}
	}
	return nil
}

// AgeLabel formats an age the way the dashboard shows it.
func AgeLabel(age int) string {
	return fmt.Sprintf("%d years", age)
}

// ParseAgeLabel accepts "30 years", "30" or a reference bucket such as "30대".
func ParseAgeLabel(label string) (int, error) {
	return generator.ParseAgeBucket(label)
}

type ageRow struct {
	age int
	row domain.RatioRow
}

func (s *Service) ageRows(ctx context.Context) (ref, act []ageRow, err error) {
	dist, err := s.load(ctx, domain.CategoryAge)
	if err != nil {
		return nil, nil, err
	}
	total := dist.Total()
	for _, e := range dist.Entries {
		age, err := generator.ParseAgeBucket(e.Value)
		if err != nil {
			return nil, nil, apperr.InternalWithError(err)
		}
		ref = append(ref, ageRow{age, domain.RatioRow{Label: AgeLabel(age), Ratio: percent(e.Weight, total)}})
	}

	years, err := s.customers.CountByBirthYear(ctx)
	if err != nil {
		return nil, nil, apperr.DatabaseError("count customers by birth year", err)
	}
	currentYear := s.now().Year()
	byAge := make(map[int]int64, len(years))
	var n int64
	for _, y := range years {
		year, err := strconv.Atoi(y.Value)
		if err != nil {
			continue
		}
		byAge[domain.AgeAt(year, currentYear)] += y.Count
		n += y.Count
	}
	for age, count := range byAge {
		act = append(act, ageRow{age, domain.RatioRow{
			Label: AgeLabel(age),
			Ratio: percent(float64(count), float64(n)),
			Count: count,
		}})
	}

	byAgeAsc := func(rows []ageRow) {
		sort.Slice(rows, func(i, j int) bool { return rows[i].age < rows[j].age })
	}
	byAgeAsc(ref)
	byAgeAsc(act)
	return ref, act, nil
}

func filterAges(rows []ageRow, from, to int) []domain.RatioRow {
	out := make([]domain.RatioRow, 0, len(rows))
	for _, r := range rows {
		if r.age >= from && r.age <= to {
			out = append(out, r.row)
		}
	}
	return out
}

// Ages compares the age distribution restricted to ages in [from, to].
func (s *Service) Ages(ctx context.Context, from, to int) (*domain.Comparison, error) {
	from = min(max(from, MinAge), MaxAge)
	to = min(max(to, MinAge), MaxAge)
	if from > to {
		return nil, apperr.InvalidInput("from", fmt.Sprintf("%d is greater than to=%d", from, to))
	}

	ref, act, err := s.ageRows(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Comparison{
		Title:     "Comparison of age distribution",
		Reference: filterAges(ref, from, to),
		Actual:    filterAges(act, from, to),
	}, nil
}

// Age compares a single age. An empty label selects the youngest reference age.
func (s *Service) Age(ctx context.Context, label string) (*domain.PointComparison, error) {
	ref, act, err := s.ageRows(ctx)
	if err != nil {
		return nil, err
	}

	var age int
	switch {
	case strings.TrimSpace(label) != "":
		if age, err = ParseAgeLabel(label); err != nil {
			return nil, apperr.InvalidInput("age", fmt.Sprintf("%q is not an age", label))
		}
	case len(ref) > 0:
		age = ref[0].age
	default:
		return nil, apperr.NotFound("age")
	}

	p := &domain.PointComparison{Label: AgeLabel(age)}
	found := false
	for _, r := range ref {
		if r.age == age {
			p.Reference, found = r.row.Ratio, true
		}
	}
	for _, r := range act {
		if r.age == age {
			p.Actual, found = r.row.Ratio, true
		}
	}
	if !found {
		return nil, apperr.NotFound(p.Label)
	}
	return p, nil
}
