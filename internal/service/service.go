// Package service wraps the backend's REST resources in typed clients. Each
// service owns one resource family and goes through the shared gateway; list
// calls retry transient failures, mutations do not.
package service

import "sense-console/internal/gateway"

// Services bundles every resource client over one gateway.
type Services struct {
	Users      *UserService
	Roles      *RoleService
	APIKeys    *APIKeyService
	Customers  *CustomerService
	Contracts  *ContractService
	Tiers      *TierService
	Hardware   *HardwareService
	Events     *EventService
	RateLimits *RateLimitService
	System     *SystemService
}

// New builds the service bundle. retries applies to read calls only.
func New(gw *gateway.Client, retries int) *Services {
	return &Services{
		Users:      &UserService{gw: gw, retries: retries},
		Roles:      &RoleService{gw: gw, retries: retries},
		APIKeys:    &APIKeyService{gw: gw, retries: retries},
		Customers:  &CustomerService{gw: gw, retries: retries},
		Contracts:  &ContractService{gw: gw, retries: retries},
		Tiers:      &TierService{gw: gw, retries: retries},
		Hardware:   &HardwareService{gw: gw, retries: retries},
		Events:     &EventService{gw: gw, retries: retries},
		RateLimits: &RateLimitService{gw: gw},
		System:     &SystemService{gw: gw},
	}
}
