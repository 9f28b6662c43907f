package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"sense-console/internal/gateway"
)

// EventService covers security events and the RF jamming monitor.
type EventService struct {
	gw      *gateway.Client
	retries int
}

// Event severity and status values as reported by the backend.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"

	StatusNew          = "new"
	StatusAcknowledged = "acknowledged"
	StatusInProgress   = "in_progress"
	StatusResolved     = "resolved"
	StatusFalseAlarm   = "false_positive"
)

type Event struct {
	ID         int       `json:"id"`
	Type       string    `json:"type"`
	Category   string    `json:"category,omitempty"`
	Severity   string    `json:"severity"`
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	DeviceID   int       `json:"device_id,omitempty"`
	CustomerID int       `json:"customer_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at,omitzero"`
}

// EventFilter narrows List results. Zero fields are not sent.
type EventFilter struct {
	Severity string
	Status   string
	Since    time.Time
}

// RFStatus is a snapshot of one monitored frequency band.
type RFStatus struct {
	Band        string    `json:"band"`
	NoiseFloor  float64   `json:"noise_floor_dbm"`
	SignalLevel float64   `json:"signal_level_dbm"`
	Jamming     bool      `json:"jamming_detected"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

func (s *EventService) List(ctx context.Context, filter EventFilter) ([]Event, error) {
	query := url.Values{}
	if filter.Severity != "" {
		query.Set("severity", filter.Severity)
	}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if !filter.Since.IsZero() {
		query.Set("since", filter.Since.Format(time.RFC3339))
	}

	var events []Event
	err := gateway.Retry(ctx, s.retries, func() error {
		return s.gw.Get(ctx, "/security-events", query, &events)
	})
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	return events, nil
}

// SetStatus moves an event through its workflow (acknowledge, resolve, mark
// false positive).
func (s *EventService) SetStatus(ctx context.Context, id int, status string) error {
	body := map[string]string{"status": status}
	if err := s.gw.Put(ctx, fmt.Sprintf("/security-events/%d/status", id), body, nil); err != nil {
		return fmt.Errorf("set status of event %d: %w", id, err)
	}
	return nil
}

// RFStatus returns the current state of all monitored bands.
func (s *EventService) RFStatus(ctx context.Context) ([]RFStatus, error) {
	var bands []RFStatus
	err := gateway.Retry(ctx, s.retries, func() error {
		return s.gw.Get(ctx, "/rf/status", nil, &bands)
	})
	if err != nil {
		return nil, fmt.Errorf("load rf status: %w", err)
	}
	return bands, nil
}
