package service

import (
	"context"
	"fmt"
	"time"

	"sense-console/internal/catalog"
	"sense-console/internal/gateway"
	"sense-console/internal/permission"
	"sense-console/internal/validate"
)

// APIKeyService manages external credentials under /auth/api-keys.
type APIKeyService struct {
	gw      *gateway.Client
	retries int
}

// APIKey is the credential record. Key is only populated in the create
// response; the backend never returns it again.
type APIKey struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Key         string         `json:"key,omitempty"`
	Prefix      string         `json:"prefix,omitempty"`
	Permissions permission.Set `json:"permissions"`
	Active      bool           `json:"active"`
	LastUsed    time.Time      `json:"last_used,omitzero"`
	ExpiresAt   time.Time      `json:"expires_at,omitzero"`
	CreatedAt   time.Time      `json:"created_at,omitzero"`
}

// APIKeyInput is the create/update payload.
type APIKeyInput struct {
	Name        string         `json:"name"`
	Permissions permission.Set `json:"permissions"`
	ExpiresAt   time.Time      `json:"expires_at,omitzero"`
}

// APIKeyUsage is the per-key request accounting returned by the usage
// endpoint.
type APIKeyUsage struct {
	TotalRequests int64            `json:"total_requests"`
	LastUsed      time.Time        `json:"last_used,omitzero"`
	ByEndpoint    map[string]int64 `json:"by_endpoint,omitempty"`
}

// keyNameRule is the client-side name check for the key form.
var keyNameRule = validate.Combine(
	validate.Required("key_name"),
	validate.MaxLen("key_name", 100),
)

// ValidateAPIKeyInput runs the client-side checks for the key form: a name,
// at least one permission, and only resources eligible for external
// credentials.
func ValidateAPIKeyInput(in APIKeyInput, c *catalog.Catalog) []string {
	var errs []string
	if msg := keyNameRule(in.Name); msg != "" {
		errs = append(errs, msg)
	}
	errs = append(errs, permission.ValidateRequired(in.Permissions, c)...)

	allowed := make(map[string]bool)
	for _, r := range c.APIKeyResources() {
		allowed[r.Name] = true
	}
	for _, resource := range in.Permissions.Resources() {
		if !allowed[resource] {
			errs = append(errs, fmt.Sprintf("resource %q cannot be granted to an API key", resource))
		}
	}
	return errs
}

func (s *APIKeyService) List(ctx context.Context) ([]APIKey, error) {
	var keys []APIKey
	err := gateway.Retry(ctx, s.retries, func() error {
		return s.gw.Get(ctx, "/auth/api-keys", nil, &keys)
	})
	if err != nil {
		return nil, fmt.Errorf("load api keys: %w", err)
	}
	return keys, nil
}

func (s *APIKeyService) Get(ctx context.Context, id int) (*APIKey, error) {
	var key APIKey
	if err := s.gw.Get(ctx, fmt.Sprintf("/auth/api-keys/%d", id), nil, &key); err != nil {
		return nil, fmt.Errorf("load api key %d: %w", id, err)
	}
	return &key, nil
}

func (s *APIKeyService) Create(ctx context.Context, in APIKeyInput) (*APIKey, error) {
	in.Permissions = in.Permissions.Clone()
	var key APIKey
	if err := s.gw.Post(ctx, "/auth/api-keys", in, &key); err != nil {
		return nil, fmt.Errorf("create api key: %w", err)
	}
	return &key, nil
}

func (s *APIKeyService) Update(ctx context.Context, id int, in APIKeyInput) (*APIKey, error) {
	in.Permissions = in.Permissions.Clone()
	var key APIKey
	if err := s.gw.Put(ctx, fmt.Sprintf("/auth/api-keys/%d", id), in, &key); err != nil {
		return nil, fmt.Errorf("update api key %d: %w", id, err)
	}
	return &key, nil
}

// Revoke deletes the key. There is no deactivate-only path; revocation is
// permanent.
func (s *APIKeyService) Revoke(ctx context.Context, id int) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/auth/api-keys/%d", id), nil); err != nil {
		return fmt.Errorf("revoke api key %d: %w", id, err)
	}
	return nil
}

// ReplacePermissions replaces the key's permission set.
func (s *APIKeyService) ReplacePermissions(ctx context.Context, id int, set permission.Set) error {
	if err := s.gw.Put(ctx, fmt.Sprintf("/auth/api-keys/%d/permissions", id), set.Clone(), nil); err != nil {
		return fmt.Errorf("replace permissions for api key %d: %w", id, err)
	}
	return nil
}

func (s *APIKeyService) Usage(ctx context.Context, id int) (*APIKeyUsage, error) {
	var usage APIKeyUsage
	if err := s.gw.Get(ctx, fmt.Sprintf("/auth/api-keys/%d/usage", id), nil, &usage); err != nil {
		return nil, fmt.Errorf("load usage for api key %d: %w", id, err)
	}
	return &usage, nil
}
