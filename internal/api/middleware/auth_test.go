package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskmanager/task-manager-api/internal/core/domain"
)

type stubAuthenticator struct {
	fn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return s.fn(ctx, token)
}

func newCtx(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	c, rec := newCtx("Bearer tok-1")
	stub := &stubAuthenticator{fn: func(ctx context.Context, token string) (*domain.User, error) {
		if token != "tok-1" {
			t.Fatalf("unexpected token %q", token)
		}
		return &domain.User{ID: "u1", Name: "Alice"}, nil
	}}

	called := false
	handler := Auth(stub)(func(c echo.Context) error {
		called = true
		user, ok := c.Get(ContextKeyUser).(*domain.User)
		if !ok || user.ID != "u1" {
			t.Fatalf("user not set")
		}
		if c.Get(ContextKeyToken) != "tok-1" {
			t.Fatalf("token not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	c, _ := newCtx("")
	stub := &stubAuthenticator{fn: func(ctx context.Context, token string) (*domain.User, error) {
		t.Fatalf("authenticator must not be called")
		return nil, nil
	}}

	err := Auth(stub)(func(c echo.Context) error { return nil })(c)
	assertUnauthorized(t, err)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	for _, header := range []string{"Basic abc", "Bearer", "Bearer    "} {
		c, _ := newCtx(header)
		stub := &stubAuthenticator{fn: func(ctx context.Context, token string) (*domain.User, error) {
			t.Fatalf("authenticator must not be called for %q", header)
			return nil, nil
		}}

		err := Auth(stub)(func(c echo.Context) error { return nil })(c)
		assertUnauthorized(t, err)
	}
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	c, _ := newCtx("Bearer revoked")
	stub := &stubAuthenticator{fn: func(ctx context.Context, token string) (*domain.User, error) {
		return nil, domain.ErrUnauthenticated
	}}

	called := false
	err := Auth(stub)(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	assertUnauthorized(t, err)
	if called {
		t.Fatalf("next must not be called")
	}
}

func TestAuthMiddleware_StorageErrorPropagates(t *testing.T) {
	c, _ := newCtx("Bearer tok")
	boom := errors.New("mongo down")
	stub := &stubAuthenticator{fn: func(ctx context.Context, token string) (*domain.User, error) {
		return nil, boom
	}}

	err := Auth(stub)(func(c echo.Context) error { return nil })(c)
	if !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", he.Code)
	}
	if he.Message != "please authenticate" {
		t.Fatalf("unexpected message %v", he.Message)
	}
}
