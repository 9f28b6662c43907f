package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"sense-console/internal/gateway"
)

// ContractService manages service contracts under /contracts, including their
// service tier assignments.
type ContractService struct {
	gw      *gateway.Client
	retries int
}

type Contract struct {
	ID         int       `json:"id"`
	CustomerID int       `json:"customer_id"`
	Name       string    `json:"name"`
	Status     string    `json:"status,omitempty"`
	StartDate  time.Time `json:"start_date,omitzero"`
	EndDate    time.Time `json:"end_date,omitzero"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

type ContractInput struct {
	CustomerID int       `json:"customer_id"`
	Name       string    `json:"name"`
	Status     string    `json:"status,omitempty"`
	StartDate  time.Time `json:"start_date,omitzero"`
	EndDate    time.Time `json:"end_date,omitzero"`
}

// TierAssignment links a contract to a service tier for a period.
type TierAssignment struct {
	ID         int       `json:"id"`
	ContractID int       `json:"contract_id"`
	TierID     int       `json:"tier_id"`
	AssignedAt time.Time `json:"assigned_at,omitzero"`
	EndedAt    time.Time `json:"ended_at,omitzero"`
}

func (s *ContractService) List(ctx context.Context, customerID int) ([]Contract, error) {
	var query url.Values
	if customerID > 0 {
		query = url.Values{"customer_id": {fmt.Sprint(customerID)}}
	}
	var contracts []Contract
	err := gateway.Retry(ctx, s.retries, func() error {
		return s.gw.Get(ctx, "/contracts", query, &contracts)
	})
	if err != nil {
		return nil, fmt.Errorf("load contracts: %w", err)
	}
	return contracts, nil
}

func (s *ContractService) Get(ctx context.Context, id int) (*Contract, error) {
	var contract Contract
	if err := s.gw.Get(ctx, fmt.Sprintf("/contracts/%d", id), nil, &contract); err != nil {
		return nil, fmt.Errorf("load contract %d: %w", id, err)
	}
	return &contract, nil
}

func (s *ContractService) Create(ctx context.Context, in ContractInput) (*Contract, error) {
	var contract Contract
	if err := s.gw.Post(ctx, "/contracts", in, &contract); err != nil {
		return nil, fmt.Errorf("create contract: %w", err)
	}
	return &contract, nil
}

func (s *ContractService) Update(ctx context.Context, id int, in ContractInput) (*Contract, error) {
	var contract Contract
	if err := s.gw.Put(ctx, fmt.Sprintf("/contracts/%d", id), in, &contract); err != nil {
		return nil, fmt.Errorf("update contract %d: %w", id, err)
	}
	return &contract, nil
}

func (s *ContractService) Delete(ctx context.Context, id int) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/contracts/%d", id), nil); err != nil {
		return fmt.Errorf("delete contract %d: %w", id, err)
	}
	return nil
}

// AssignTier puts the contract on a service tier.
func (s *ContractService) AssignTier(ctx context.Context, contractID, tierID int) (*TierAssignment, error) {
	body := map[string]int{"tier_id": tierID}
	var assignment TierAssignment
	if err := s.gw.Post(ctx, fmt.Sprintf("/contracts/%d/service-tiers", contractID), body, &assignment); err != nil {
		return nil, fmt.Errorf("assign tier to contract %d: %w", contractID, err)
	}
	return &assignment, nil
}

// TierHistory returns past and current tier assignments of the contract.
func (s *ContractService) TierHistory(ctx context.Context, contractID int) ([]TierAssignment, error) {
	var history []TierAssignment
	if err := s.gw.Get(ctx, fmt.Sprintf("/contracts/%d/service-tier-history", contractID), nil, &history); err != nil {
		return nil, fmt.Errorf("load tier history for contract %d: %w", contractID, err)
	}
	return history, nil
}
