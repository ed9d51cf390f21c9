package ports

import (
	"context"

	"github.com/taskmanager/task-manager-api/internal/core/domain"
)

// TaskRepository is the work item store an account's tasks live in.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error)
	// DeleteAllByOwner removes every task owned by ownerID and returns how many were removed.
	DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error)
}
