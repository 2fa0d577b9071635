package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/vibhorverma24/vacation-calendar/internal/holiday"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	resolver HolidayResolver
	cache    ResponseCache
	log      *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(resolver HolidayResolver, cache ResponseCache, log *slog.Logger) *Handlers {
	return &Handlers{
		resolver: resolver,
		cache:    cache,
		log:      log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// GetYearHolidays handles GET /api/holidays/{country}/{year}.
// Cache hit → return. Otherwise resolve (store-or-fetch) and cache.
func (h *Handlers) GetYearHolidays(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Year must be a number")
		return
	}

	cached, err := h.cache.GetYear(r.Context(), country, year)
	if err != nil {
		h.log.Error("cache get failed", "country", country, "year", year, "err", err)
	}
	if cached != nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	records, err := h.resolver.Year(r.Context(), country, year)
	if err != nil {
		h.writeResolveError(w, err, country, year)
		return
	}

	if err := h.cache.SetYear(r.Context(), country, year, records); err != nil {
		h.log.Warn("cache set failed", "country", country, "year", year, "err", err)
	}

	writeJSON(w, http.StatusOK, records)
}

// GetMonthHolidays handles GET /api/holidays/{country}/{year}/{month}.
// An empty array is a valid, cacheable answer: it means the year is
// populated and has no holidays in that month.
func (h *Handlers) GetMonthHolidays(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Year must be a number")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Month must be a number")
		return
	}

	cached, err := h.cache.GetMonth(r.Context(), country, year, month)
	if err != nil {
		h.log.Error("cache get failed", "country", country, "year", year, "month", month, "err", err)
	}
	if cached != nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	records, err := h.resolver.Month(r.Context(), country, year, month)
	if err != nil {
		h.writeResolveError(w, err, country, year)
		return
	}

	if err := h.cache.SetMonth(r.Context(), country, year, month, records); err != nil {
		h.log.Warn("cache set failed", "country", country, "year", year, "month", month, "err", err)
	}

	writeJSON(w, http.StatusOK, records)
}

// writeResolveError maps the resolver's error taxonomy to HTTP statuses.
func (h *Handlers) writeResolveError(w http.ResponseWriter, err error, country string, year int) {
	switch {
	case errors.Is(err, holiday.ErrInvalidMonth):
		writeError(w, http.StatusBadRequest, "Month must be between 1 and 12")
	case errors.Is(err, holiday.ErrNoData):
		writeError(w, http.StatusNotFound, "No holidays found from Calendarific.")
	case errors.Is(err, holiday.ErrMissingKey):
		h.log.Error("provider key not configured", "country", country, "year", year)
		writeError(w, http.StatusInternalServerError, "API key missing. Please configure CALENDARIFIC_API_KEY.")
	default:
		h.log.Error("holiday resolve failed", "country", country, "year", year, "err", err)
		writeError(w, http.StatusInternalServerError, "Error fetching holidays. Please try again later.")
	}
}

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis
// connectivity. The two pings run concurrently; returns 200 if both ok,
// 503 otherwise.
func HealthHandlerFunc(db dbPinger, redisClient redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "ok"
		redisStatus := "ok"

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := db.Ping(gCtx); err != nil {
				log.Error("health check: db ping failed", "err", err)
				dbStatus = "error"
			}
			return nil
		})
		g.Go(func() error {
			if err := redisClient.Ping(gCtx); err != nil {
				log.Error("health check: redis ping failed", "err", err)
				redisStatus = "error"
			}
			return nil
		})
		_ = g.Wait()

		status := http.StatusOK
		overall := "ok"
		if dbStatus != "ok" || redisStatus != "ok" {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}
