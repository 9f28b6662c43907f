package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"sense-console/internal/gateway"
)

// CustomerService manages customer records under /customers.
type CustomerService struct {
	gw      *gateway.Client
	retries int
}

type Customer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type CustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Active  bool   `json:"active"`
}

// List returns customers, optionally filtered by a free-text search term.
func (s *CustomerService) List(ctx context.Context, search string) ([]Customer, error) {
	var query url.Values
	if search != "" {
		query = url.Values{"search": {search}}
	}
	var customers []Customer
	err := gateway.Retry(ctx, s.retries, func() error {
		return s.gw.Get(ctx, "/customers", query, &customers)
	})
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	return customers, nil
}

func (s *CustomerService) Get(ctx context.Context, id int) (*Customer, error) {
	var customer Customer
	if err := s.gw.Get(ctx, fmt.Sprintf("/customers/%d", id), nil, &customer); err != nil {
		return nil, fmt.Errorf("load customer %d: %w", id, err)
	}
	return &customer, nil
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*Customer, error) {
	var customer Customer
	if err := s.gw.Post(ctx, "/customers", in, &customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return &customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id int, in CustomerInput) (*Customer, error) {
	var customer Customer
	if err := s.gw.Put(ctx, fmt.Sprintf("/customers/%d", id), in, &customer); err != nil {
		return nil, fmt.Errorf("update customer %d: %w", id, err)
	}
	return &customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id int) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/customers/%d", id), nil); err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	return nil
}
