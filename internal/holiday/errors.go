package holiday

import "errors"

// Error taxonomy surfaced by the Resolver. Handlers map these to HTTP
// status codes with errors.Is.
var (
	// ErrInvalidMonth is returned when a month outside 1-12 is requested.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")

	// ErrNoData is returned when the provider has no holidays for the
	// requested country and year. The outcome is never cached, so the
	// next identical request asks the provider again.
	ErrNoData = errors.New("no holidays available")

	// ErrUpstream covers provider transport failures, non-success
	// statuses, timeouts, and malformed provider payloads.
	ErrUpstream = errors.New("holiday provider unavailable")

	// ErrMissingKey is returned when no provider API key is configured.
	ErrMissingKey = errors.New("holiday provider API key not configured")
)
