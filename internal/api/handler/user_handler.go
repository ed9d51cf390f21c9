package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmanager/task-manager-api/internal/core/domain"
	"github.com/taskmanager/task-manager-api/internal/core/ports"
)

const avatarFormField = "avatar"

// UserHandler handles HTTP requests for account operations. Every account in
// a response body goes through domain.User.Public.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create registers an account and returns it together with its first token.
//
// @Summary      Sign up
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.service.Register(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		if user == nil {
			return err
		}
		// Stored without a token: the client logs in to get one.
		return c.JSON(http.StatusCreated, authResponse{User: user.Public()})
	}

	return c.JSON(http.StatusCreated, authResponse{User: user.Public(), Token: token})
}

// Login authenticates by email and password and issues a new token.
//
// @Summary      Log in
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{User: user.Public(), Token: token})
}

// Logout revokes the token the request was authenticated with.
//
// @Summary      Log out the current session
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /users/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	user, token, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Logout(c.Request().Context(), user, token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// LogoutAll revokes every token of the current account.
//
// @Summary      Log out every session
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /users/logoutAll [post]
func (h *UserHandler) LogoutAll(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.service.LogoutAll(c.Request().Context(), user); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the current account.
//
// @Summary      Current account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PublicUser
// @Failure      401  {object}  errorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Public())
}

// UpdateMe applies a partial update limited to name, email, password and age.
//
// @Summary      Update current account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.PublicUser
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	req, err := decodeUpdate(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid updates")
	}

	if err := h.service.Update(c.Request().Context(), user, ports.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user.Public())
}

func decodeUpdate(body io.Reader) (updateUserRequest, error) {
	var req updateUserRequest
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return updateUserRequest{}, err
	}
	return req, nil
}

// DeleteMe deletes the current account and every task it owns.
//
// @Summary      Delete current account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PublicUser
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users/me [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Public())
}

// UploadAvatar stores the "avatar" multipart file on the current account.
//
// @Summary      Upload avatar
// @Tags         users
// @Accept       multipart/form-data
// @Security     BearerAuth
// @Param        avatar  formData  file  true  "PNG or JPEG image"
// @Success      204
// @Failure      400     {object}  errorResponse
// @Failure      413     {object}  errorResponse
// @Failure      415     {object}  errorResponse
// @Router       /users/me/avatar [put]
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile(avatarFormField)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "avatar file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "avatar file is unreadable")
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "avatar file is unreadable")
	}

	if err := h.service.SetAvatar(c.Request().Context(), user, buf.Bytes()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAvatar removes the current account's avatar.
//
// @Summary      Remove avatar
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Router       /users/me/avatar [delete]
func (h *UserHandler) DeleteAvatar(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.service.RemoveAvatar(c.Request().Context(), user); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Avatar serves the avatar of any account.
//
// @Summary      Get avatar
// @Tags         users
// @Produce      png,jpeg
// @Param        id   path      string  true  "Account id"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/avatar [get]
func (h *UserHandler) Avatar(c echo.Context) error {
	data, err := h.service.Avatar(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrAvatarNotFound
		}
		return err
	}
	return c.Blob(http.StatusOK, domain.AvatarContentType(data), data)
}

// MyTasks lists the tasks owned by the current account.
//
// @Summary      Tasks of the current account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Task
// @Failure      401  {object}  errorResponse
// @Router       /users/me/tasks [get]
func (h *UserHandler) MyTasks(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	tasks, err := h.service.Tasks(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}
