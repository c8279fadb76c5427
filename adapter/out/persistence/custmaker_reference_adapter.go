package persistence

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"custmaker/core/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ReferenceAdapter reads and writes the reference distribution tables.
type ReferenceAdapter struct {
	db *sqlx.DB
}

// NewReferenceAdapter creates a new ReferenceAdapter.
func NewReferenceAdapter(db *sqlx.DB) *ReferenceAdapter {
	return &ReferenceAdapter{db: db}
}

// Load returns the category's distribution ordered by descending ratio.
func (a *ReferenceAdapter) Load(ctx context.Context, category domain.Category) (domain.Distribution, error) {
	t, err := tableFor(category)
	if err != nil {
		return domain.Distribution{}, err
	}

	key := pq.QuoteIdentifier(t.Key)
	query := fmt.Sprintf(`SELECT %s AS value, ratio FROM %s ORDER BY ratio DESC, %s ASC`,
		key, pq.QuoteIdentifier(t.Name), key)

	var rows []domain.WeightedValue
	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return domain.Distribution{}, fmt.Errorf("failed to load %s: %w", t.Name, err)
	}

	return domain.Distribution{Category: category, Entries: rows}, nil
}

// Upsert inserts or updates entries in one transaction and returns the number written.
func (a *ReferenceAdapter) Upsert(ctx context.Context, category domain.Category, entries []domain.WeightedValue) (int, error) {
	t, err := tableFor(category)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if n := utf8.RuneCountInString(e.Value); n == 0 || n > t.KeyLen {
			return 0, fmt.Errorf("%w: %s value %q must be 1-%d characters", ErrInvalidInput, category, e.Value, t.KeyLen)
		}
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	key := pq.QuoteIdentifier(t.Key)
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, ratio) VALUES ($1, $2)
		ON CONFLICT (%s) DO UPDATE SET ratio = EXCLUDED.ratio`,
		pq.QuoteIdentifier(t.Name), key, key)

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query, e.Value, e.Weight); err != nil {
			return 0, fmt.Errorf("failed to upsert %s %q: %w", t.Name, e.Value, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit %s import: %w", t.Name, err)
	}
	return len(entries), nil
}

// ImportCSV parses "value,ratio" rows and upserts them.
func (a *ReferenceAdapter) ImportCSV(ctx context.Context, category domain.Category, r io.Reader) (int, error) {
	entries, err := ParseReferenceCSV(r)
	if err != nil {
		return 0, err
	}
	return a.Upsert(ctx, category, entries)
}
