package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTask(t *testing.T) {
	task := NewTask("u1", "  buy milk ", false)

	assert.Equal(t, "buy milk", task.Description)
	assert.Equal(t, "u1", task.Owner)
	assert.False(t, task.Completed)
	assert.NoError(t, task.Validate())
}

func TestTask_Validate_RequiresDescription(t *testing.T) {
	err := NewTask("u1", "   ", true).Validate()

	assert.ErrorIs(t, err, ErrDescriptionRequired)
}
