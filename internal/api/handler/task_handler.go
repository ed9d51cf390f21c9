package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmanager/task-manager-api/internal/core/ports"
)

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create stores a task owned by the current account.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {object}  domain.Task
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.service.Create(c.Request().Context(), user.ID, ports.CreateTaskInput{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}
