package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightsearch/config"
	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores serialized query result sets with a fixed TTL. Entries are
// derived data; the flights table stays authoritative.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.ttl).Err()
}

func (c *RedisCache) GetSearchResults(ctx context.Context, origin, destination, date string) ([]domain.SearchResult, error) {
	data, err := c.client.Get(ctx, searchKey(origin, destination, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var results []domain.SearchResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *RedisCache) SetSearchResults(ctx context.Context, origin, destination, date string, results []domain.SearchResult) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(origin, destination, date), payload, c.ttl).Err()
}

// Invalidate drops the list entry and every search entry. Used by the worker
// when a flight-change event arrives.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, flightsKey()).Err(); err != nil {
		return err
	}

	iter := c.client.Scan(ctx, 0, "search:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func flightsKey() string {
	return "all_flights"
}

// searchKey normalizes the raw query terms (trim, lowercase) so differently
// cased but semantically identical queries share one entry. The date is left
// as supplied.
func searchKey(origin, destination, date string) string {
	return fmt.Sprintf("search:%s:%s:%s", normalizeTerm(origin), normalizeTerm(destination), strings.TrimSpace(date))
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
