package ports

import (
	"context"

	"github.com/taskmanager/task-manager-api/internal/core/domain"
)

// UserRepository persists account documents. Lookups that match nothing
// return domain.ErrUserNotFound; a unique email clash returns
// domain.ErrDuplicateEmail. Any other error is a storage error.
type UserRepository interface {
	// Insert stores a new account and assigns its ID.
	Insert(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail expects an already normalized address.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDAndToken matches only while token is still listed on the account.
	FindByIDAndToken(ctx context.Context, id, token string) (*domain.User, error)
	// Update writes every mutable field of an existing account in place.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
