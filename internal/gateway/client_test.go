package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestGetDecodesJSONAndSendsHeaders(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		if r.URL.Query().Get("search") != "acme" {
			t.Errorf("query not forwarded: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Acme"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	c.SetToken("tok-1")

	var out struct {
		Name string `json:"name"`
	}
	query := url.Values{"search": {"acme"}}
	if err := c.Get(context.Background(), "/customers", query, &out); err != nil {
		t.Fatal(err)
	}
	if out.Name != "Acme" {
		t.Fatalf("decoded %+v", out)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatal("X-Request-ID missing")
	}
}

func TestErrorEnvelopeShapes(t *testing.T) {
	cases := []struct {
		body        string
		wantMessage string
		wantCode    string
	}{
		{`{"error":{"code":"NOT_FOUND","message":"no such role"}}`, "no such role", "NOT_FOUND"},
		{`{"message":"plain message"}`, "plain message", ""},
		{`{"detail":"detail wins"}`, "detail wins", ""},
		{`{"errors":["first","second"]}`, "first", ""},
		{`not json at all`, http.StatusText(http.StatusNotFound), ""},
	}
	for _, tc := range cases {
		apiErr := decodeAPIError(http.StatusNotFound, []byte(tc.body))
		if apiErr.Message != tc.wantMessage || apiErr.Code != tc.wantCode {
			t.Fatalf("body %s decoded as %+v", tc.body, apiErr)
		}
		if apiErr.Status != http.StatusNotFound {
			t.Fatalf("status lost: %+v", apiErr)
		}
	}
}

func TestErrorClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusLocked)
		w.Write([]byte(`{"error":{"code":"ACCOUNT_LOCKED","message":"locked"}}`))
	}))
	defer srv.Close()

	err := New(srv.URL, 0).Get(context.Background(), "/auth/login", nil, nil)
	if !IsLockedError(err) {
		t.Fatalf("expected locked error, got %v", err)
	}
	if StatusOf(err) != http.StatusLocked {
		t.Fatalf("StatusOf = %d", StatusOf(err))
	}
	if IsTransportError(err) || IsServerError(err) {
		t.Fatalf("misclassified: %v", err)
	}
}

func TestTransportError(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	err := c.Get(context.Background(), "/health", nil, nil)
	if !IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if StatusOf(err) != 0 {
		t.Fatalf("transport errors carry no status, got %d", StatusOf(err))
	}
}

func TestAuthExpiredCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"expired"}}`))
	}))
	defer srv.Close()

	fired := 0
	c := New(srv.URL, 0)
	c.OnAuthExpired(func() { fired++ })
	ctx := context.Background()

	// Auth-scoped 401: the session is dead.
	_ = c.Get(ctx, "/auth/profile", nil, nil)
	if fired != 1 {
		t.Fatalf("callback fired %d times after /auth/profile", fired)
	}

	// A rejected login is not an expired session.
	_ = c.Post(ctx, "/auth/login", nil, nil)
	if fired != 1 {
		t.Fatalf("callback fired on /auth/login: %d", fired)
	}

	// A 401 outside /auth/ is a permission problem, not expiry.
	_ = c.Get(ctx, "/customers", nil, nil)
	if fired != 1 {
		t.Fatalf("callback fired on /customers: %d", fired)
	}
}

func TestRetryStopsOnClientError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, func() error {
		calls++
		return &APIError{Status: http.StatusNotFound, Message: "gone"}
	})
	if calls != 1 {
		t.Fatalf("4xx retried %d times", calls)
	}
	if !IsNotFoundError(err) {
		t.Fatalf("error lost: %v", err)
	}
}

func TestRetryRecoversFromServerError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, func() error {
		calls++
		if calls < 2 {
			return &APIError{Status: http.StatusInternalServerError}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("retry did not recover: %v", err)
	}
	if calls != 2 {
		t.Fatalf("fn called %d times", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 2, func() error {
		calls++
		return &TransportError{Err: errors.New("refused")}
	})
	if calls != 2 {
		t.Fatalf("fn called %d times, want 2", calls)
	}
	if !IsTransportError(err) {
		t.Fatalf("final error lost: %v", err)
	}
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_ = Retry(ctx, 5, func() error {
		calls++
		return &APIError{Status: http.StatusBadGateway}
	})
	if calls != 1 {
		t.Fatalf("cancelled context still retried: %d calls", calls)
	}
}
