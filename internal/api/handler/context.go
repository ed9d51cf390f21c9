package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmanager/task-manager-api/internal/api/middleware"
	"github.com/taskmanager/task-manager-api/internal/core/domain"
)

// ctxUser extracts the account and token injected by the Auth middleware.
// A missing account means the route was registered without the middleware.
func ctxUser(c echo.Context) (*domain.User, string, error) {
	user, ok := c.Get(middleware.ContextKeyUser).(*domain.User)
	if !ok || user == nil {
		return nil, "", echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
	}
	token, _ := c.Get(middleware.ContextKeyToken).(string)
	return user, token, nil
}
