// Package backendtest runs an in-memory stand-in for the platform backend.
// It serves the auth, role, user, API key and customer endpoints the console
// talks to, with bcrypt-checked fixture accounts and real JWTs, so session
// and service tests exercise the full HTTP path without external services.
package backendtest

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 15 * time.Minute

// Role mirrors the backend's role record.
type Role struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
	// Permissions is either a map[string][]string or a []string (legacy).
	Permissions any   `json:"permissions,omitempty"`
	System      *bool `json:"is_system,omitempty"`
}

// Account is a fixture user.
type Account struct {
	Username string
	Password string
	Locked   bool
	Inactive bool
	IsAdmin  bool
	Role     *Role
	// LegacyPermissions is served as the principal-level flat list.
	LegacyPermissions []string

	hash []byte
}

// Server is the fake backend. Fields are guarded by mu; handlers run on
// fiber's worker goroutines.
type Server struct {
	URL string

	app    *fiber.App
	secret string

	mu         sync.Mutex
	accounts   map[string]*Account
	roles      map[int]*Role
	nextRoleID int
	apiKeys    []map[string]any
	customers  []map[string]any

	// LoginCount tracks login attempts for concurrency tests.
	LoginCount int
	// LoginDelay slows the login handler down, for racing logins in tests.
	LoginDelay time.Duration
}

// Start brings the server up on a loopback port and waits until it accepts
// requests. Callers must Close it.
func Start(accounts ...*Account) (*Server, error) {
	s := &Server{
		secret:     uuid.New().String(),
		accounts:   make(map[string]*Account),
		roles:      make(map[int]*Role),
		nextRoleID: 1,
	}
	for _, a := range accounts {
		if err := s.AddAccount(a); err != nil {
			return nil, err
		}
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return errorJSON(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		},
	})
	s.app.Use(recover.New())
	s.routes()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s.URL = "http://" + ln.Addr().String()
	go func() { _ = s.app.Listener(ln) }()

	// The listener goroutine needs a moment; poll /health until it answers.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(s.URL + "/health")
		if err == nil {
			resp.Body.Close()
			return s, nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	_ = s.app.Shutdown()
	return nil, fmt.Errorf("backendtest: server did not become ready")
}

func (s *Server) Close() {
	_ = s.app.Shutdown()
}

// AddAccount hashes the fixture password and registers the account.
func (s *Server) AddAccount(a *Account) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	a.hash = hash
	s.mu.Lock()
	s.accounts[a.Username] = a
	if a.Role != nil && a.Role.ID == 0 {
		a.Role.ID = s.nextRoleID
		s.nextRoleID++
		s.roles[a.Role.ID] = a.Role
	}
	s.mu.Unlock()
	return nil
}

// SeedRole registers a role directly, assigning an ID.
func (s *Server) SeedRole(r *Role) *Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextRoleID
	s.nextRoleID++
	s.roles[r.ID] = r
	return r
}

func (s *Server) routes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.app.Post("/auth/login", s.handleLogin)
	s.app.Post("/auth/logout", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Logged out"})
	})

	authed := s.app.Group("", s.requireToken)
	authed.Get("/auth/profile", s.handleProfile)
	authed.Get("/auth/roles", s.handleListRoles)
	authed.Post("/auth/roles", s.handleCreateRole)
	authed.Get("/auth/roles/:id", s.handleGetRole)
	authed.Delete("/auth/roles/:id", s.handleDeleteRole)
	authed.Get("/auth/users", s.handleListUsers)
	authed.Post("/auth/users", s.handleCreateUser)
	authed.Get("/auth/api-keys", s.handleListAPIKeys)
	authed.Post("/auth/api-keys", s.handleCreateAPIKey)
	authed.Get("/customers", s.handleListCustomers)
	authed.Post("/customers", s.handleCreateCustomer)
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
	}

	s.mu.Lock()
	s.LoginCount++
	account := s.accounts[body.Username]
	delay := s.LoginDelay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if account == nil || bcrypt.CompareHashAndPassword(account.hash, []byte(body.Password)) != nil {
		return errorJSON(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
	}
	if account.Locked {
		return errorJSON(c, http.StatusLocked, "ACCOUNT_LOCKED", "Account locked due to too many failed attempts")
	}
	if account.Inactive {
		return errorJSON(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "Account inactive")
	}

	token, err := s.issueToken(account.Username)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate token")
	}
	return c.JSON(fiber.Map{"token": token, "user": principalJSON(account)})
}

func (s *Server) handleProfile(c *fiber.Ctx) error {
	account := s.accountFor(c)
	if account == nil {
		return errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unknown subject")
	}
	return c.JSON(principalJSON(account))
}

func (s *Server) handleListRoles(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	roles := make([]*Role, 0, len(s.roles))
	for id := 1; id < s.nextRoleID; id++ {
		if r, ok := s.roles[id]; ok {
			roles = append(roles, r)
		}
	}
	return c.JSON(roles)
}

func (s *Server) handleCreateRole(c *fiber.Ctx) error {
	var role Role
	if err := c.BodyParser(&role); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
	}
	if role.Name == "" {
		return errorJSON(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "Role name is required")
	}
	s.mu.Lock()
	role.ID = s.nextRoleID
	s.nextRoleID++
	s.roles[role.ID] = &role
	s.mu.Unlock()
	return c.JSON(role)
}

func (s *Server) handleGetRole(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	s.mu.Lock()
	role := s.roles[id]
	s.mu.Unlock()
	if role == nil {
		return errorJSON(c, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("role with id %d not found", id))
	}
	return c.JSON(role)
}

func (s *Server) handleDeleteRole(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	role := s.roles[id]
	if role == nil {
		return errorJSON(c, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("role with id %d not found", id))
	}
	for _, a := range s.accounts {
		if a.Role != nil && a.Role.ID == id {
			return errorJSON(c, http.StatusConflict, "ROLE_IN_USE", "Role is assigned to active users")
		}
	}
	delete(s.roles, id)
	return c.JSON(fiber.Map{"message": "Role deleted"})
}

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]fiber.Map, 0, len(s.accounts))
	id := 1
	for _, a := range s.accounts {
		users = append(users, fiber.Map{
			"id":       id,
			"username": a.Username,
			"active":   !a.Inactive,
			"role":     a.Role,
		})
		id++
	}
	return c.JSON(users)
}

func (s *Server) handleCreateUser(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Active   bool   `json:"active"`
	}
	if err := c.BodyParser(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
	}
	if body.Username == "" || body.Password == "" {
		return errorJSON(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "Username and password are required")
	}

	s.mu.Lock()
	_, taken := s.accounts[body.Username]
	s.mu.Unlock()
	if taken {
		return errorJSON(c, http.StatusConflict, "USERNAME_TAKEN", "Username already exists")
	}

	if err := s.AddAccount(&Account{Username: body.Username, Password: body.Password}); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to store account")
	}

	s.mu.Lock()
	id := len(s.accounts)
	s.mu.Unlock()
	return c.JSON(fiber.Map{
		"id": id, "username": body.Username, "email": body.Email, "active": true,
	})
}

func (s *Server) handleListAPIKeys(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(s.apiKeys)
}

func (s *Server) handleCreateAPIKey(c *fiber.Ctx) error {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fiber.Map{
		"id":          len(s.apiKeys) + 1,
		"name":        body["name"],
		"key":         "sk_" + uuid.New().String(),
		"permissions": body["permissions"],
		"active":      true,
		"created_at":  time.Now().UTC(),
	}
	s.apiKeys = append(s.apiKeys, key)
	return c.JSON(key)
}

func (s *Server) handleListCustomers(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(s.customers)
}

func (s *Server) handleCreateCustomer(c *fiber.Ctx) error {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	body["id"] = len(s.customers) + 1
	s.customers = append(s.customers, body)
	return c.JSON(body)
}

// --- token handling ---

func (s *Server) signingSecret() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return []byte(s.secret)
}

func (s *Server) issueToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingSecret())
}

func (s *Server) requireToken(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" {
		return errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth token")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid auth header format")
	}

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(parts[1], &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingSecret(), nil
	})
	if err != nil || !token.Valid {
		return errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
	}

	c.Locals("subject", claims.Subject)
	return c.Next()
}

// RevokeAll invalidates every outstanding token by rotating the signing
// secret. Used to simulate a backend-side session expiry.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	s.secret = uuid.New().String()
	s.mu.Unlock()
}

func (s *Server) accountFor(c *fiber.Ctx) *Account {
	subject, _ := c.Locals("subject").(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[subject]
}

func principalJSON(a *Account) fiber.Map {
	out := fiber.Map{
		"username": a.Username,
		"is_admin": a.IsAdmin,
	}
	if a.Role != nil {
		out["role"] = a.Role
	}
	if len(a.LegacyPermissions) > 0 {
		out["permissions"] = a.LegacyPermissions
	}
	return out
}

func errorJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{"code": code, "message": message},
	})
}
