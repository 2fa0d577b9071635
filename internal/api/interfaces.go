package api

import (
	"context"

	"github.com/vibhorverma24/vacation-calendar/internal/holiday"
)

// HolidayResolver answers holiday queries, filling the store from the
// upstream provider on a miss.
type HolidayResolver interface {
	Year(ctx context.Context, country string, year int) ([]holiday.Holiday, error)
	Month(ctx context.Context, country string, year, month int) ([]holiday.Holiday, error)
}

// ResponseCache defines the caching of successful query results needed
// by handlers.
type ResponseCache interface {
	GetYear(ctx context.Context, country string, year int) ([]holiday.Holiday, error)
	SetYear(ctx context.Context, country string, year int, records []holiday.Holiday) error
	GetMonth(ctx context.Context, country string, year, month int) ([]holiday.Holiday, error)
	SetMonth(ctx context.Context, country string, year, month int, records []holiday.Holiday) error
}
