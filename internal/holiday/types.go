package holiday

import "time"

// Holiday is a single national-holiday record as stored in the database.
// Year and month are always derived from Date; the store never receives
// a record where they disagree.
type Holiday struct {
	ID          int       `json:"id,omitempty"`
	Date        string    `json:"date"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Country     string    `json:"country"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProviderHoliday is one entry as returned by the upstream provider,
// before normalization.
type ProviderHoliday struct {
	Date        string
	Name        string
	Description string
	Types       []string
}
