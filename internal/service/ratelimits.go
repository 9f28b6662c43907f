package service

import (
	"context"
	"fmt"
	"net/url"

	"sense-console/internal/gateway"
)

// RateLimitService manages per-endpoint request limits under
// /admin/rate-limits.
type RateLimitService struct {
	gw *gateway.Client
}

// RateLimit is the limit configuration for one endpoint pattern.
type RateLimit struct {
	Endpoint  string `json:"endpoint"`
	PerMinute int    `json:"requests_per_minute"`
	Burst     int    `json:"burst,omitempty"`
	Enabled   bool   `json:"enabled"`
}

// RateLimitStats is the aggregate counter view.
type RateLimitStats struct {
	TotalRequests int64            `json:"total_requests"`
	Throttled     int64            `json:"throttled"`
	ByEndpoint    map[string]int64 `json:"by_endpoint,omitempty"`
}

func (s *RateLimitService) List(ctx context.Context) ([]RateLimit, error) {
	var limits []RateLimit
	if err := s.gw.Get(ctx, "/admin/rate-limits", nil, &limits); err != nil {
		return nil, fmt.Errorf("load rate limits: %w", err)
	}
	return limits, nil
}

func (s *RateLimitService) Stats(ctx context.Context) (*RateLimitStats, error) {
	var stats RateLimitStats
	if err := s.gw.Get(ctx, "/admin/rate-limits/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("load rate limit stats: %w", err)
	}
	return &stats, nil
}

func (s *RateLimitService) Update(ctx context.Context, limit RateLimit) error {
	path := "/admin/rate-limits/" + url.PathEscape(limit.Endpoint)
	if err := s.gw.Put(ctx, path, limit, nil); err != nil {
		return fmt.Errorf("update rate limit for %s: %w", limit.Endpoint, err)
	}
	return nil
}

// Reset clears the counters for one endpoint, or for a single caller when
// identifier is set.
func (s *RateLimitService) Reset(ctx context.Context, endpoint, identifier string) error {
	path := "/admin/rate-limits/" + url.PathEscape(endpoint) + "/reset"
	body := map[string]string{}
	if identifier != "" {
		body["identifier"] = identifier
	}
	if err := s.gw.Post(ctx, path, body, nil); err != nil {
		return fmt.Errorf("reset rate limit for %s: %w", endpoint, err)
	}
	return nil
}
