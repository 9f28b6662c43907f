package service

import (
	"context"
	"fmt"

	"sense-console/internal/gateway"
)

// TierService manages service tier definitions under /service-tiers.
type TierService struct {
	gw      *gateway.Client
	retries int
}

type ServiceTier struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Active      bool           `json:"active"`
	Features    map[string]any `json:"features,omitempty"`
}

type TierInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

func (s *TierService) List(ctx context.Context) ([]ServiceTier, error) {
	var tiers []ServiceTier
	err := gateway.Retry(ctx, s.retries, func() error {
		return s.gw.Get(ctx, "/service-tiers", nil, &tiers)
	})
	if err != nil {
		return nil, fmt.Errorf("load service tiers: %w", err)
	}
	return tiers, nil
}

func (s *TierService) Get(ctx context.Context, id int) (*ServiceTier, error) {
	var tier ServiceTier
	if err := s.gw.Get(ctx, fmt.Sprintf("/service-tiers/%d", id), nil, &tier); err != nil {
		return nil, fmt.Errorf("load service tier %d: %w", id, err)
	}
	return &tier, nil
}

func (s *TierService) Create(ctx context.Context, in TierInput) (*ServiceTier, error) {
	var tier ServiceTier
	if err := s.gw.Post(ctx, "/service-tiers", in, &tier); err != nil {
		return nil, fmt.Errorf("create service tier: %w", err)
	}
	return &tier, nil
}

func (s *TierService) Update(ctx context.Context, id int, in TierInput) (*ServiceTier, error) {
	var tier ServiceTier
	if err := s.gw.Put(ctx, fmt.Sprintf("/service-tiers/%d", id), in, &tier); err != nil {
		return nil, fmt.Errorf("update service tier %d: %w", id, err)
	}
	return &tier, nil
}

func (s *TierService) Delete(ctx context.Context, id int) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/service-tiers/%d", id), nil); err != nil {
		return fmt.Errorf("delete service tier %d: %w", id, err)
	}
	return nil
}

// ReplaceFeatures replaces the tier's feature flag map.
func (s *TierService) ReplaceFeatures(ctx context.Context, id int, features map[string]any) error {
	if err := s.gw.Put(ctx, fmt.Sprintf("/service-tiers/%d/features", id), features, nil); err != nil {
		return fmt.Errorf("replace features for tier %d: %w", id, err)
	}
	return nil
}
