package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// NewRouter builds and returns the Chi router with all routes configured.
// Both holiday endpoints are read-only and unauthenticated; the calendar
// frontend calls them cross-origin, so CORS is applied globally.
// Rate limiting is applied globally: 60 requests per minute per IP.
func NewRouter(handlers *Handlers, db dbPinger, redisClient redisPinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(CORS)
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/api/health", HealthHandlerFunc(db, redisClient, log))
	r.Get("/api/holidays/{country}/{year}", handlers.GetYearHolidays)
	r.Get("/api/holidays/{country}/{year}/{month}", handlers.GetMonthHolidays)

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
