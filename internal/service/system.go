package service

import (
	"context"
	"fmt"
	"net/url"

	"sense-console/internal/gateway"
)

// SystemService covers health and diagnostics endpoints.
type SystemService struct {
	gw *gateway.Client
}

type Health struct {
	Status     string            `json:"status"`
	Uptime     int64             `json:"uptime_seconds,omitempty"`
	Components map[string]string `json:"components,omitempty"`
}

type DiagnosticResult struct {
	TestID  string `json:"test_id"`
	Type    string `json:"type"`
	Status  string `json:"status"`
	Summary string `json:"summary,omitempty"`
}

func (s *SystemService) Health(ctx context.Context) (*Health, error) {
	var health Health
	if err := s.gw.Get(ctx, "/health", nil, &health); err != nil {
		return nil, fmt.Errorf("load health: %w", err)
	}
	return &health, nil
}

func (s *SystemService) DetailedHealth(ctx context.Context) (*Health, error) {
	var health Health
	if err := s.gw.Get(ctx, "/health/detailed", nil, &health); err != nil {
		return nil, fmt.Errorf("load detailed health: %w", err)
	}
	return &health, nil
}

// Metrics returns raw time-series points for the requested range tag
// (e.g. "1h", "24h").
func (s *SystemService) Metrics(ctx context.Context, timeRange string) (map[string]any, error) {
	query := url.Values{"range": {timeRange}}
	var metrics map[string]any
	if err := s.gw.Get(ctx, "/health/metrics", query, &metrics); err != nil {
		return nil, fmt.Errorf("load metrics: %w", err)
	}
	return metrics, nil
}

// RunDiagnostic starts a diagnostic test and returns its handle.
func (s *SystemService) RunDiagnostic(ctx context.Context, testType string) (*DiagnosticResult, error) {
	body := map[string]string{"test_type": testType}
	var result DiagnosticResult
	if err := s.gw.Post(ctx, "/diagnostics/run", body, &result); err != nil {
		return nil, fmt.Errorf("run diagnostic %s: %w", testType, err)
	}
	return &result, nil
}

func (s *SystemService) DiagnosticResult(ctx context.Context, testID string) (*DiagnosticResult, error) {
	var result DiagnosticResult
	if err := s.gw.Get(ctx, "/diagnostics/results/"+url.PathEscape(testID), nil, &result); err != nil {
		return nil, fmt.Errorf("load diagnostic result %s: %w", testID, err)
	}
	return &result, nil
}
