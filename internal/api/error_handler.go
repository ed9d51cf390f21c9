package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskmanager/task-manager-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
// Violations is set only for validation failures.
type errorResponse struct {
	Error      string      `json:"error"`
	Violations []violation `json:"violations,omitempty"`
}

type violation struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to status codes, logs unexpected errors without leaking them and
// renders {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var verrs *domain.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, validationResponse(verrs.Violations...)
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, validationResponse(verr)
	}

	// Not-found and bad password share one message.
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized, errorResponse{Error: authErr.Error()}
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: domain.ErrUnauthenticated.Error()}
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, errorResponse{Error: domain.ErrTooManyAttempts.Error()}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrAvatarNotFound):
		return http.StatusNotFound, errorResponse{Error: domain.ErrAvatarNotFound.Error()}
	case errors.Is(err, domain.ErrAvatarTooLarge):
		return http.StatusRequestEntityTooLarge, errorResponse{Error: domain.ErrAvatarTooLarge.Error()}
	case errors.Is(err, domain.ErrUnsupportedAvatar):
		return http.StatusUnsupportedMediaType, errorResponse{Error: domain.ErrUnsupportedAvatar.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

func validationResponse(violations ...*domain.ValidationError) errorResponse {
	resp := errorResponse{Error: "validation failed"}
	for _, v := range violations {
		resp.Violations = append(resp.Violations, violation{
			Field:   v.Field,
			Kind:    string(v.Kind),
			Message: v.Message,
		})
	}
	return resp
}
