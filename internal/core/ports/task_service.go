package ports

import (
	"context"

	"github.com/taskmanager/task-manager-api/internal/core/domain"
)

// CreateTaskInput carries the fields of a new task.
type CreateTaskInput struct {
	Description string
	Completed   bool
}

// TaskService defines task use cases.
type TaskService interface {
	Create(ctx context.Context, ownerID string, input CreateTaskInput) (*domain.Task, error)
}
