package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vibhorverma24/vacation-calendar/internal/holiday"
)

// ErrStoreUnavailable wraps failures to reach the underlying storage.
var ErrStoreUnavailable = errors.New("holiday store unavailable")

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository provides database access for holiday records. Records are
// immutable once written; there are no update or delete operations.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

const holidayColumns = `id, date, name, description, country, year, month, category, created_at, updated_at`

// FindByCountryYear returns all stored records for the country and year,
// in date order.
func (r *Repository) FindByCountryYear(ctx context.Context, country string, year int) ([]holiday.Holiday, error) {
	const q = `
		SELECT ` + holidayColumns + `
		FROM holidays
		WHERE country = $1 AND year = $2
		ORDER BY date
	`

	rows, err := r.q.Query(ctx, q, country, year)
	if err != nil {
		return nil, fmt.Errorf("%w: querying holidays for %s/%d: %v", ErrStoreUnavailable, country, year, err)
	}

	return scanHolidays(rows)
}

// FindByCountryYearMonth returns the records additionally filtered by month.
func (r *Repository) FindByCountryYearMonth(ctx context.Context, country string, year, month int) ([]holiday.Holiday, error) {
	const q = `
		SELECT ` + holidayColumns + `
		FROM holidays
		WHERE country = $1 AND year = $2 AND month = $3
		ORDER BY date
	`

	rows, err := r.q.Query(ctx, q, country, year, month)
	if err != nil {
		return nil, fmt.Errorf("%w: querying holidays for %s/%d/%d: %v", ErrStoreUnavailable, country, year, month, err)
	}

	return scanHolidays(rows)
}

// InsertMany persists a batch of records in a single statement, so the
// batch lands atomically or not at all. Timestamps are assigned by the
// database; the returned records carry the assigned ids and timestamps.
func (r *Repository) InsertMany(ctx context.Context, records []holiday.Holiday) ([]holiday.Holiday, error) {
	if len(records) == 0 {
		return []holiday.Holiday{}, nil
	}

	dates := make([]string, len(records))
	names := make([]string, len(records))
	descriptions := make([]string, len(records))
	countries := make([]string, len(records))
	years := make([]int, len(records))
	months := make([]int, len(records))
	categories := make([]string, len(records))
	for i, rec := range records {
		dates[i] = rec.Date
		names[i] = rec.Name
		descriptions[i] = rec.Description
		countries[i] = rec.Country
		years[i] = rec.Year
		months[i] = rec.Month
		categories[i] = rec.Category
	}

	const q = `
		INSERT INTO holidays (date, name, description, country, year, month, category)
		SELECT * FROM unnest(
			$1::text[], $2::text[], $3::text[], $4::text[], $5::int[], $6::int[], $7::text[]
		)
		RETURNING ` + holidayColumns

	rows, err := r.q.Query(ctx, q, dates, names, descriptions, countries, years, months, categories)
	if err != nil {
		return nil, fmt.Errorf("%w: inserting %d holidays: %v", ErrStoreUnavailable, len(records), err)
	}

	return scanHolidays(rows)
}

// scanHolidays drains rows into holiday records, closing the rows.
func scanHolidays(rows pgx.Rows) ([]holiday.Holiday, error) {
	defer rows.Close()

	var results []holiday.Holiday
	for rows.Next() {
		var h holiday.Holiday
		if err := rows.Scan(
			&h.ID,
			&h.Date,
			&h.Name,
			&h.Description,
			&h.Country,
			&h.Year,
			&h.Month,
			&h.Category,
			&h.CreatedAt,
			&h.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning holiday row: %w", err)
		}
		results = append(results, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating holiday rows: %v", ErrStoreUnavailable, err)
	}

	return results, nil
}
