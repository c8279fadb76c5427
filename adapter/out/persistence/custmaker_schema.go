// Package persistence provides database adapters implementing outbound ports.
package persistence

import (
	"context"
	"fmt"

	"custmaker/core/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const customerTable = "customer"

// referenceTable describes the table backing one reference category.
type referenceTable struct {
	Name   string
	Key    string
	KeyLen int
}

var referenceTables = map[domain.Category]referenceTable{
	domain.CategorySex:       {Name: "sex_stat", Key: "sex", KeyLen: 2},
	domain.CategoryLastName:  {Name: "korean_lastname", Key: "lastname", KeyLen: 5},
	domain.CategoryFirstName: {Name: "korean_firstname", Key: "firstname", KeyLen: 5},
	domain.CategoryAge:       {Name: "age_stat", Key: "age", KeyLen: 5},
	domain.CategoryRegion:    {Name: "region_stat", Key: "region", KeyLen: 8},
}

func tableFor(category domain.Category) (referenceTable, error) {
	t, ok := referenceTables[category]
	if !ok {
		return referenceTable{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return t, nil
}

func (t referenceTable) ddl() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s VARCHAR(%d) PRIMARY KEY,
		ratio DOUBLE PRECISION NOT NULL DEFAULT 0
	)`, pq.QuoteIdentifier(t.Name), pq.QuoteIdentifier(t.Key), t.KeyLen)
}

const customerDDL = `CREATE TABLE IF NOT EXISTS customer (
	id SERIAL PRIMARY KEY,
	lastname VARCHAR(5),
	firstname VARCHAR(5),
	sex VARCHAR(2),
	birthdate VARCHAR(8),
	joindate VARCHAR(8)
)`

// EnsureSchema creates the customer table and every reference table.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, customerDDL); err != nil {
		return fmt.Errorf("failed to create %s table: %w", customerTable, err)
	}
	for _, category := range domain.AllCategories {
		t := referenceTables[category]
		if _, err := tx.ExecContext(ctx, t.ddl()); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.Name, err)
		}
	}

	return tx.Commit()
}
