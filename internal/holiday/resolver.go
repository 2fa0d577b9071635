package holiday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Store is the persistent holiday storage the Resolver reads and fills.
type Store interface {
	FindByCountryYear(ctx context.Context, country string, year int) ([]Holiday, error)
	FindByCountryYearMonth(ctx context.Context, country string, year, month int) ([]Holiday, error)
	InsertMany(ctx context.Context, records []Holiday) ([]Holiday, error)
}

// Provider is the upstream holiday source consulted on a store miss.
type Provider interface {
	Holidays(ctx context.Context, country string, year int) ([]ProviderHoliday, error)
}

// Resolver implements the cache-or-fetch policy: answer from the Store
// when any data exists for the query, otherwise fetch the full year from
// the Provider, persist it, and answer from the freshly written records.
// The store check and the provider call are strictly sequential, and
// nothing is retried; two concurrent misses for the same country/year
// may both fetch and insert, since the store enforces no uniqueness.
type Resolver struct {
	store    Store
	provider Provider
	log      *slog.Logger
}

// NewResolver constructs a Resolver over the given store and provider.
func NewResolver(store Store, provider Provider, log *slog.Logger) *Resolver {
	return &Resolver{store: store, provider: provider, log: log}
}

// Year returns all holidays for a country and year. The provider is
// consulted only when the store holds no records at all for the pair.
func (r *Resolver) Year(ctx context.Context, country string, year int) ([]Holiday, error) {
	country = strings.ToUpper(country)

	existing, err := r.store.FindByCountryYear(ctx, country, year)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	return r.populate(ctx, country, year)
}

// Month returns the holidays for a single month. A year that was
// previously populated but has no record for the month answers with an
// empty slice: within a populated year, absence means "no holidays that
// month", and the provider is not consulted again.
func (r *Resolver) Month(ctx context.Context, country string, year, month int) ([]Holiday, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	country = strings.ToUpper(country)

	existing, err := r.store.FindByCountryYearMonth(ctx, country, year, month)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	yearRecords, err := r.store.FindByCountryYear(ctx, country, year)
	if err != nil {
		return nil, err
	}
	if len(yearRecords) > 0 {
		return []Holiday{}, nil
	}

	inserted, err := r.populate(ctx, country, year)
	if err != nil {
		return nil, err
	}

	monthly := make([]Holiday, 0, len(inserted))
	for _, h := range inserted {
		if h.Month == month {
			monthly = append(monthly, h)
		}
	}
	return monthly, nil
}

// populate runs the miss path: one provider call for the whole year,
// normalization, and a single batch insert. Nothing is written unless
// the full provider response is in hand.
func (r *Resolver) populate(ctx context.Context, country string, year int) ([]Holiday, error) {
	entries, err := r.provider.Holidays(ctx, country, year)
	if err != nil {
		if errors.Is(err, ErrMissingKey) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w for %s/%d", ErrNoData, country, year)
	}

	records := make([]Holiday, 0, len(entries))
	for _, e := range entries {
		rec, err := Normalize(e, country)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		records = append(records, rec)
	}

	inserted, err := r.store.InsertMany(ctx, records)
	if err != nil {
		return nil, err
	}

	r.log.Info("populated holidays", "country", country, "year", year, "count", len(inserted))
	return inserted, nil
}

// Normalize maps a provider entry onto a storable Holiday. Year and
// month come from the entry's own date, so records crossing a year
// boundary stay consistent with what they describe. The country is the
// queried code, not whatever the provider echoes back.
func Normalize(e ProviderHoliday, country string) (Holiday, error) {
	iso := e.Date
	if len(iso) > 10 {
		iso = iso[:10] // provider dates may carry a time component
	}

	d, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return Holiday{}, fmt.Errorf("parsing provider date %q: %w", e.Date, err)
	}

	category := strings.Join(e.Types, ",")
	if category == "" {
		category = "national"
	}

	return Holiday{
		Date:        iso,
		Name:        e.Name,
		Description: e.Description,
		Country:     strings.ToUpper(country),
		Year:        d.Year(),
		Month:       int(d.Month()),
		Category:    category,
	}, nil
}
