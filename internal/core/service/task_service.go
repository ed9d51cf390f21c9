package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskmanager/task-manager-api/internal/core/domain"
	"github.com/taskmanager/task-manager-api/internal/core/ports"
	"github.com/taskmanager/task-manager-api/internal/pkg/metrics"
)

type TaskService struct {
	repo ports.TaskRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewTaskService(repo ports.TaskRepository, log zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, log: log, now: time.Now}
}

// Create stores a task owned by ownerID.
func (s *TaskService) Create(ctx context.Context, ownerID string, input ports.CreateTaskInput) (*domain.Task, error) {
	task := domain.NewTask(ownerID, input.Description, input.Completed)
	if err := task.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.repo.Create(ctx, task); err != nil {
		s.log.Error().Err(err).Str("owner", ownerID).Msg("failed to create task")
		return nil, fmt.Errorf("create task: %w", err)
	}

	metrics.TasksCreatedTotal.Inc()
	s.log.Info().Str("task_id", task.ID).Str("owner", ownerID).Msg("task created")
	return task, nil
}
