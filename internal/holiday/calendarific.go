package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

const calendarificDefaultURL = "https://calendarific.com/api/v2/holidays"

// CalendarificClient fetches national holidays from the Calendarific API.
type CalendarificClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewCalendarificClient constructs a client with the given API key.
// An empty key is allowed at construction time; Holidays reports it as
// ErrMissingKey on the first call instead.
func NewCalendarificClient(apiKey string) *CalendarificClient {
	return &CalendarificClient{
		apiKey:  apiKey,
		baseURL: calendarificDefaultURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// NewCalendarificClientWithURL constructs a client pointing at a custom
// base URL (for tests).
func NewCalendarificClientWithURL(baseURL, apiKey string) *CalendarificClient {
	return &CalendarificClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// typeList accepts both a single string and an array of strings; the
// provider has been observed to return either for the type field.
type typeList []string

func (t *typeList) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = typeList{s}
		return nil
	}
	var ss []string
	if err := json.Unmarshal(b, &ss); err != nil {
		return err
	}
	*t = typeList(ss)
	return nil
}

type calendarificResponse struct {
	Response struct {
		Holidays []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Date        struct {
				ISO string `json:"iso"`
			} `json:"date"`
			Type typeList `json:"type"`
		} `json:"holidays"`
	} `json:"response"`
}

// Holidays retrieves the national holidays for a country and year.
func (c *CalendarificClient) Holidays(ctx context.Context, country string, year int) ([]ProviderHoliday, error) {
	if c.apiKey == "" {
		return nil, ErrMissingKey
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("country", strings.ToLower(country))
	params.Set("year", strconv.Itoa(year))
	params.Set("type", "national")
	endpoint := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", c.baseURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s returned status %d", c.baseURL, resp.StatusCode)
	}

	var raw calendarificResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding calendarific response: %w", err)
	}

	entries := make([]ProviderHoliday, 0, len(raw.Response.Holidays))
	for _, h := range raw.Response.Holidays {
		entries = append(entries, ProviderHoliday{
			Date:        h.Date.ISO,
			Name:        h.Name,
			Description: h.Description,
			Types:       h.Type,
		})
	}

	return entries, nil
}
