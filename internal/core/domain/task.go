package domain

import (
	"strings"
	"time"
)

// Task is a work item owned by exactly one account.
type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewTask(owner, description string, completed bool) *Task {
	return &Task{
		Owner:       owner,
		Description: strings.TrimSpace(description),
		Completed:   completed,
	}
}

func (t *Task) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return NewValidationErrors(ErrDescriptionRequired)
	}
	return nil
}
