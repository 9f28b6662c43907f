// Package session holds the console's single authenticated principal: the
// login/logout/refresh lifecycle, durable credential storage, and the
// authorization query every screen and command guard goes through.
package session

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sense-console/internal/gateway"
	"sense-console/internal/permission"
)

// State of the principal slot.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

// FailureKind classifies why an auth operation failed.
type FailureKind string

const (
	FailureInvalidCredentials FailureKind = "invalid_credentials"
	FailureAccountLocked      FailureKind = "account_locked"
	FailureAccountInactive    FailureKind = "account_inactive"
	FailureNetwork            FailureKind = "network_error"
	FailureServer             FailureKind = "server_error"
	FailureLoginInFlight      FailureKind = "login_in_flight"
	FailureSessionInvalid     FailureKind = "session_invalid"
)

// Failure is the side-channel error recorded by Login and RefreshProfile.
// Expected failures (bad password, locked account) are states to render, not
// exceptions to handle, so the operations return a bool and park the detail
// here.
type Failure struct {
	Kind    FailureKind
	Message string
}

// Options configures a Session.
type Options struct {
	// PermissiveFallback grants every permission check for an authenticated
	// principal that carries no permission model at all. This matches the
	// long-standing console behavior; stricter deployments turn it off.
	PermissiveFallback bool
}

// Session is the process-wide authorization context. It is constructed
// explicitly and handed to its consumers; there is no package-level instance.
// One writer (itself), many readers.
type Session struct {
	gw    *gateway.Client
	store CredentialStore
	opts  Options

	mu            sync.Mutex
	state         State
	token         string
	principal     *Principal
	failure       *Failure
	loginInFlight bool
}

// New builds a session and restores any persisted credentials from the store.
// Restoration is purely local; call RefreshProfile afterwards to confirm the
// token is still honored by the backend.
func New(gw *gateway.Client, store CredentialStore, opts Options) *Session {
	s := &Session{gw: gw, store: store, opts: opts, state: StateAnonymous}

	token, err := store.ReadToken()
	if err != nil {
		log.Printf("WARN: reading stored token: %v", err)
	}
	if token != "" {
		s.token = token
		s.state = StateAuthenticated
		gw.SetToken(token)

		raw, err := store.ReadUser()
		if err != nil {
			log.Printf("WARN: reading stored user: %v", err)
		}
		if len(raw) > 0 {
			var p Principal
			if err := json.Unmarshal(raw, &p); err != nil {
				log.Printf("WARN: stored user is not valid JSON, ignoring: %v", err)
			} else {
				s.principal = &p
			}
		}
	}

	// An auth-scoped 401 anywhere means the token is dead. Fail closed.
	gw.OnAuthExpired(func() { s.clearLocked() })

	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// Principal returns the authenticated principal, or nil.
func (s *Session) Principal() *Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// LastFailure returns the most recent auth failure, or nil.
func (s *Session) LastFailure() *Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// TokenExpiry returns the expiry claim of the current token, if the token is
// a JWT carrying one. The claim is read without signature verification; only
// the backend verifies tokens.
func (s *Session) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

type loginResponse struct {
	Token string     `json:"token"`
	User  *Principal `json:"user"`
}

// Login authenticates against the backend. On success the token and
// principal are held in memory and persisted. On failure the previous state
// is kept (a failed re-login never tears down a valid session) and the
// failure is recorded. A login while another is in flight is rejected.
func (s *Session) Login(ctx context.Context, username, password string) bool {
	s.mu.Lock()
	if s.loginInFlight {
		s.failure = &Failure{Kind: FailureLoginInFlight, Message: "another login attempt is already in progress"}
		s.mu.Unlock()
		return false
	}
	prev := s.state
	s.loginInFlight = true
	s.state = StateAuthenticating
	s.failure = nil
	s.mu.Unlock()

	var resp loginResponse
	err := s.gw.Post(ctx, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginInFlight = false

	if err != nil {
		s.state = prev
		s.failure = classifyLoginError(err)
		return false
	}
	if resp.Token == "" {
		s.state = prev
		s.failure = &Failure{Kind: FailureServer, Message: "no authentication token received"}
		return false
	}

	s.token = resp.Token
	s.principal = resp.User
	s.failure = nil
	if s.principal == nil {
		s.principal = &Principal{Username: username}
	}
	s.state = StateAuthenticated
	s.gw.SetToken(resp.Token)
	s.persistLocked()
	return true
}

// Logout invalidates the session remotely on a best-effort basis, then always
// clears local state and storage.
func (s *Session) Logout(ctx context.Context) {
	if s.Token() != "" {
		if err := s.gw.Post(ctx, "/auth/logout", nil, nil); err != nil {
			log.Printf("WARN: remote logout failed: %v", err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearStateLocked()
}

// RefreshProfile re-fetches the principal with the current token. Any failure
// invalidates the session: a token the backend no longer vouches for is not
// worth keeping.
func (s *Session) RefreshProfile(ctx context.Context) bool {
	if s.Token() == "" {
		return false
	}

	var p Principal
	if err := s.gw.Get(ctx, "/auth/profile", nil, &p); err != nil {
		log.Printf("WARN: profile refresh failed, signing out: %v", err)
		s.Logout(ctx)
		s.mu.Lock()
		s.failure = &Failure{Kind: FailureSessionInvalid, Message: "session is no longer valid"}
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.principal = &p
	s.persistLocked()
	return true
}

// HasPermission is the authorization decision used by command guards and
// rendering. Admins pass everything; otherwise the principal's permission
// representation decides; principals with no model at all fall back to the
// configured policy. An empty action asks for any access to the resource.
func (s *Session) HasPermission(resource, action string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated || s.principal == nil {
		return false
	}
	if s.principal.IsAdmin || strings.EqualFold(s.principal.RoleName(), "admin") {
		return true
	}

	rep := s.principal.representation()
	if _, none := rep.(permission.None); none {
		return s.opts.PermissiveFallback
	}
	return rep.Allows(resource, action)
}

// --- internals ---

// clearLocked acquires the lock and clears state; used by the auth-expired
// callback.
func (s *Session) clearLocked() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearStateLocked()
	s.failure = &Failure{Kind: FailureSessionInvalid, Message: "session expired"}
}

// clearStateLocked clears token, principal and storage. Caller holds the lock.
func (s *Session) clearStateLocked() {
	s.token = ""
	s.principal = nil
	s.state = StateAnonymous
	s.gw.SetToken("")
	if err := s.store.Clear(); err != nil {
		log.Printf("WARN: clearing credential store: %v", err)
	}
}

// persistLocked mirrors the current token and principal to storage. Caller
// holds the lock.
func (s *Session) persistLocked() {
	if err := s.store.WriteToken(s.token); err != nil {
		log.Printf("WARN: persisting token: %v", err)
	}
	raw, err := json.Marshal(s.principal)
	if err != nil {
		log.Printf("WARN: encoding principal: %v", err)
		return
	}
	if err := s.store.WriteUser(raw); err != nil {
		log.Printf("WARN: persisting user: %v", err)
	}
}

func classifyLoginError(err error) *Failure {
	switch {
	case gateway.IsTransportError(err):
		return &Failure{Kind: FailureNetwork, Message: "cannot connect to the backend"}
	case gateway.StatusOf(err) == http.StatusUnauthorized:
		return &Failure{Kind: FailureInvalidCredentials, Message: err.Error()}
	case gateway.IsLockedError(err):
		return &Failure{Kind: FailureAccountLocked, Message: err.Error()}
	case gateway.IsPermissionError(err):
		return &Failure{Kind: FailureAccountInactive, Message: err.Error()}
	default:
		return &Failure{Kind: FailureServer, Message: err.Error()}
	}
}
