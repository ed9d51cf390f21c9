package ports

import (
	"context"

	"github.com/taskmanager/task-manager-api/internal/core/domain"
)

// CreateUserInput carries signup data. A nil Age defaults to 0.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Age      *int
}

// UpdateUserInput carries a partial profile update; nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// UserService defines the account use cases consumed by the HTTP layer.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	// Register creates the account and issues its first token.
	Register(ctx context.Context, input CreateUserInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User, input UpdateUserInput) error
	Logout(ctx context.Context, user *domain.User, token string) error
	LogoutAll(ctx context.Context, user *domain.User) error
	SetAvatar(ctx context.Context, user *domain.User, data []byte) error
	RemoveAvatar(ctx context.Context, user *domain.User) error
	Avatar(ctx context.Context, userID string) ([]byte, error)
	Delete(ctx context.Context, user *domain.User) error
	Tasks(ctx context.Context, user *domain.User) ([]*domain.Task, error)
}
