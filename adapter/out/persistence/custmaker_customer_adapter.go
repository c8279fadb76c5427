package persistence

import (
	"context"
	"fmt"
	"strings"

	"custmaker/core/domain"
	"custmaker/core/port/out"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// insertChunk keeps one INSERT well under the 65535 bind parameter limit.
const insertChunk = 1000

// CustomerAdapter implements out.CustomerRepository using PostgreSQL.
type CustomerAdapter struct {
	db *sqlx.DB
}

// NewCustomerAdapter creates a new CustomerAdapter.
func NewCustomerAdapter(db *sqlx.DB) *CustomerAdapter {
	return &CustomerAdapter{db: db}
}

var groupableFields = map[out.CustomerField]bool{
	out.FieldSex:       true,
	out.FieldLastName:  true,
	out.FieldFirstName: true,
}

func fieldColumn(field out.CustomerField) (string, error) {
	if !groupableFields[field] {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return pq.QuoteIdentifier(string(field)), nil
}

// Persist inserts the batch in a single transaction using multi-row INSERTs.
func (a *CustomerAdapter) Persist(ctx context.Context, batch []domain.Customer) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(batch); start += insertChunk {
		end := min(start+insertChunk, len(batch))
		query, args := buildInsert(batch[start:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert customers %d-%d: %w", start, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit customers: %w", err)
	}
	return nil
}

func buildInsert(rows []domain.Customer) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO customer (lastname, firstname, sex, birthdate, joindate) VALUES `)

	args := make([]any, 0, len(rows)*5)
	for i, c := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, c.LastName, c.FirstName, string(c.Sex), c.Birthdate, c.JoinDate)
	}
	return sb.String(), args
}

// Count returns the number of stored customers.
func (a *CustomerAdapter) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := a.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM customer`); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}

// CountBy groups customers by field, most frequent first.
func (a *CustomerAdapter) CountBy(ctx context.Context, field out.CustomerField) ([]domain.CategoryCount, error) {
	col, err := fieldColumn(field)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s AS value, COUNT(*) AS count
		FROM customer
		GROUP BY %s
		ORDER BY count DESC, value ASC`, col, col)

	var rows []domain.CategoryCount
	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count customers by %s: %w", field, err)
	}
	return rows, nil
}

// CountByValues counts only the listed values of field.
func (a *CustomerAdapter) CountByValues(ctx context.Context, field out.CustomerField, values []string) ([]domain.CategoryCount, error) {
	col, err := fieldColumn(field)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s AS value, COUNT(*) AS count
		FROM customer
		WHERE %s = ANY($1)
		GROUP BY %s
		ORDER BY count DESC, value ASC`, col, col, col)

	var rows []domain.CategoryCount
	if err := a.db.SelectContext(ctx, &rows, query, pq.Array(values)); err != nil {
		return nil, fmt.Errorf("failed to count customers by %s: %w", field, err)
	}
	return rows, nil
}

// CountByBirthYear groups customers by the year part of their birthdate.
func (a *CustomerAdapter) CountByBirthYear(ctx context.Context) ([]domain.CategoryCount, error) {
	query := `
		SELECT substr(birthdate, 1, 4) AS value, COUNT(*) AS count
		FROM customer
		GROUP BY 1
		ORDER BY 1 DESC`

	var rows []domain.CategoryCount
	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count customers by birth year: %w", err)
	}
	return rows, nil
}

// Truncate deletes every customer and restarts the id sequence.
func (a *CustomerAdapter) Truncate(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, `TRUNCATE TABLE customer RESTART IDENTITY`); err != nil {
		return fmt.Errorf("failed to truncate customers: %w", err)
	}
	return nil
}
