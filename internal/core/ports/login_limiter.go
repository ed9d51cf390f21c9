package ports

import "context"

// LoginLimiter throttles repeated failed logins for one email address.
type LoginLimiter interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
