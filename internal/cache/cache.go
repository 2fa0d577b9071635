package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vibhorverma24/vacation-calendar/internal/holiday"
)

const defaultTTL = time.Hour

// Cache wraps a Redis client and provides typed get/set for resolved
// holiday queries. Only successful resolutions are cached; the resolver's
// not-found and upstream-failure outcomes never land here, so a failed
// lookup is always retried on the next request.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache with a 1-hour TTL.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: defaultTTL}
}

// yearKey returns the Redis key for a country/year query.
func yearKey(country string, year int) string {
	return fmt.Sprintf("holidays:%s:%d", strings.ToUpper(strings.TrimSpace(country)), year)
}

// monthKey returns the Redis key for a country/year/month query.
func monthKey(country string, year, month int) string {
	return fmt.Sprintf("holidays:%s:%d:%d", strings.ToUpper(strings.TrimSpace(country)), year, month)
}

// GetYear retrieves a cached year query result.
// Returns nil, nil on a cache miss (not an error). A cached empty result
// comes back as an empty, non-nil slice.
func (c *Cache) GetYear(ctx context.Context, country string, year int) ([]holiday.Holiday, error) {
	return c.get(ctx, yearKey(country, year))
}

// SetYear stores a year query result with the configured TTL.
func (c *Cache) SetYear(ctx context.Context, country string, year int, records []holiday.Holiday) error {
	return c.set(ctx, yearKey(country, year), records)
}

// GetMonth retrieves a cached month query result.
func (c *Cache) GetMonth(ctx context.Context, country string, year, month int) ([]holiday.Holiday, error) {
	return c.get(ctx, monthKey(country, year, month))
}

// SetMonth stores a month query result with the configured TTL.
func (c *Cache) SetMonth(ctx context.Context, country string, year, month int, records []holiday.Holiday) error {
	return c.set(ctx, monthKey(country, year, month), records)
}

func (c *Cache) get(ctx context.Context, key string) ([]holiday.Holiday, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}

	records := []holiday.Holiday{}
	if err := json.Unmarshal([]byte(val), &records); err != nil {
		return nil, fmt.Errorf("unmarshaling cached holidays at %s: %w", key, err)
	}

	return records, nil
}

func (c *Cache) set(ctx context.Context, key string, records []holiday.Holiday) error {
	if records == nil {
		return nil
	}

	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling holidays for %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}

	return nil
}
