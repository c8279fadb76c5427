package out

import (
	"context"

	"custmaker/core/domain"
)

// CustomerField is a groupable column of the customer table.
type CustomerField string

const (
	FieldSex       CustomerField = "sex"
	FieldLastName  CustomerField = "lastname"
	FieldFirstName CustomerField = "firstname"
)

// RecordSink persists a generated batch. The whole batch is stored or none of it.
type RecordSink interface {
	Persist(ctx context.Context, batch []domain.Customer) error
}

// CustomerRepository is the customer table: the record sink plus the aggregate
// queries behind the comparison report.
type CustomerRepository interface {
	RecordSink
	Count(ctx context.Context) (int64, error)
	CountBy(ctx context.Context, field CustomerField) ([]domain.CategoryCount, error)
	// CountByValues is CountBy restricted to the listed values.
	CountByValues(ctx context.Context, field CustomerField, values []string) ([]domain.CategoryCount, error)
	CountByBirthYear(ctx context.Context) ([]domain.CategoryCount, error)
	Truncate(ctx context.Context) error
}
