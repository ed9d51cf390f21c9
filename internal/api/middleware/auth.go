package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskmanager/task-manager-api/internal/core/domain"
)

const (
	ContextKeyUser  = "user"
	ContextKeyToken = "token"
)

// Authenticator resolves a bearer token to the account it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Auth reads the bearer token, resolves the account and injects both into context.
func Auth(authenticator Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorized()
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return unauthorized()
			}
			token := strings.TrimSpace(parts[1])

			user, err := authenticator.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					return unauthorized()
				}
				return err
			}

			c.Set(ContextKeyUser, user)
			c.Set(ContextKeyToken, token)

			return next(c)
		}
	}
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
}
