// Package generator synthesizes customer records from reference distributions.
package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"custmaker/core/domain"
)

// Generator produces batches of synthetic customers. It performs no I/O and holds
// no state besides its random source, which is not safe for concurrent use:
// parallel callers should create one Generator each.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes the generator deterministic.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand uses the given random source.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithClock overrides the clock used to resolve the current year.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New creates a generator seeded from the runtime's random source unless an
// option says otherwise.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// maxBirthYear keeps birthdates at eight digits.
const maxBirthYear = 9999

type plan struct {
	sex, lastName, firstName, age *Sampler
	birthYears                    map[string]int
}

// Generate draws count customers. Every input is validated before sampling, so
// the batch is either complete or not produced at all.
func (g *Generator) Generate(count int, joinDate string, d domain.Distributions) ([]domain.Customer, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if !domain.IsValidDate(joinDate) {
		return nil, fmt.Errorf("%w: join date %q is not YYYYMMDD", ErrInvalidDate, joinDate)
	}

	p, err := g.prepare(d)
	if err != nil {
		return nil, err
	}

	customers := make([]domain.Customer, count)
	if count == 0 {
		return customers, nil
	}

	// each field is drawn as its own column so fields stay independent
	sexes := p.sex.DrawN(g.rng, count)
	lastNames := p.lastName.DrawN(g.rng, count)
	firstNames := p.firstName.DrawN(g.rng, count)
	buckets := p.age.DrawN(g.rng, count)

	for i := range customers {
		year := p.birthYears[buckets[i]]
		customers[i] = domain.Customer{
			LastName:  lastNames[i],
			FirstName: firstNames[i],
			Sex:       domain.Sex(sexes[i]),
			Birthdate: Birthdate(year, DayOffset(g.rng, year)),
			JoinDate:  joinDate,
		}
	}
	return customers, nil
}

func (g *Generator) prepare(d domain.Distributions) (*plan, error) {
	var (
		p   plan
		err error
	)
	if p.sex, err = NewSampler(d.Sex); err != nil {
		return nil, err
	}
	if p.lastName, err = NewSampler(d.LastName); err != nil {
		return nil, err
	}
	if p.firstName, err = NewSampler(d.FirstName); err != nil {
		return nil, err
	}
	if p.age, err = NewSampler(d.AgeBucket); err != nil {
		return nil, err
	}

	currentYear := g.now().Year()
	p.birthYears = make(map[string]int, len(d.AgeBucket.Entries))
	for _, e := range d.AgeBucket.Entries {
		age, err := ParseAgeBucket(e.Value)
		if err != nil {
			return nil, err
		}
		year := BirthYear(currentYear, age)
		if year < 1 || year > maxBirthYear {
			return nil, fmt.Errorf("%w: age bucket %q gives birth year %d", ErrInvalidDistribution, e.Value, year)
		}
		p.birthYears[e.Value] = year
	}
	return &p, nil
}
