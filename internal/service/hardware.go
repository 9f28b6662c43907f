package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"sense-console/internal/gateway"
)

// HardwareService covers the device inventory: edge controllers, cameras and
// NVRs. The three share a record shape; the backend keeps them on separate
// endpoints.
type HardwareService struct {
	gw      *gateway.Client
	retries int
}

// Device is a piece of managed hardware.
type Device struct {
	ID         int       `json:"id"`
	CustomerID int       `json:"customer_id,omitempty"`
	Name       string    `json:"name"`
	Model      string    `json:"model,omitempty"`
	Serial     string    `json:"serial,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	Status     string    `json:"status,omitempty"`
	LastSeen   time.Time `json:"last_seen,omitzero"`
}

type DeviceInput struct {
	CustomerID int    `json:"customer_id,omitempty"`
	Name       string `json:"name"`
	Model      string `json:"model,omitempty"`
	Serial     string `json:"serial,omitempty"`
	IPAddress  string `json:"ip_address,omitempty"`
}

// DeviceKind selects the inventory endpoint.
type DeviceKind string

const (
	KindController DeviceKind = "controllers"
	KindCamera     DeviceKind = "cameras"
	KindNVR        DeviceKind = "nvr"
)

func (s *HardwareService) List(ctx context.Context, kind DeviceKind, customerID int) ([]Device, error) {
	var query url.Values
	if customerID > 0 {
		query = url.Values{"customer_id": {fmt.Sprint(customerID)}}
	}
	var devices []Device
	err := gateway.Retry(ctx, s.retries, func() error {
		return s.gw.Get(ctx, "/"+string(kind), query, &devices)
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	return devices, nil
}

func (s *HardwareService) Get(ctx context.Context, kind DeviceKind, id int) (*Device, error) {
	var device Device
	if err := s.gw.Get(ctx, fmt.Sprintf("/%s/%d", kind, id), nil, &device); err != nil {
		return nil, fmt.Errorf("load %s %d: %w", kind, id, err)
	}
	return &device, nil
}

func (s *HardwareService) Create(ctx context.Context, kind DeviceKind, in DeviceInput) (*Device, error) {
	var device Device
	if err := s.gw.Post(ctx, "/"+string(kind), in, &device); err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	return &device, nil
}

func (s *HardwareService) Update(ctx context.Context, kind DeviceKind, id int, in DeviceInput) (*Device, error) {
	var device Device
	if err := s.gw.Put(ctx, fmt.Sprintf("/%s/%d", kind, id), in, &device); err != nil {
		return nil, fmt.Errorf("update %s %d: %w", kind, id, err)
	}
	return &device, nil
}

func (s *HardwareService) Delete(ctx context.Context, kind DeviceKind, id int) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/%s/%d", kind, id), nil); err != nil {
		return fmt.Errorf("delete %s %d: %w", kind, id, err)
	}
	return nil
}
