package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskmanager/task-manager-api/internal/core/domain"
	"github.com/taskmanager/task-manager-api/internal/core/ports"
	"github.com/taskmanager/task-manager-api/internal/pkg/metrics"
)

// UserService implements the account lifecycle: the persist pipeline
// (normalize, validate, email uniqueness, hash-if-modified, write), token
// issuance, credential lookup and the cascading delete pipeline.
type UserService struct {
	users          ports.UserRepository
	tasks          ports.TaskRepository
	hasher         ports.PasswordHasher
	signer         ports.TokenSigner
	limiter        ports.LoginLimiter
	maxAvatarBytes int
	log            zerolog.Logger
	now            func() time.Time

	dummyOnce sync.Once
	dummy     string
}

func NewUserService(
	users ports.UserRepository,
	tasks ports.TaskRepository,
	hasher ports.PasswordHasher,
	signer ports.TokenSigner,
	limiter ports.LoginLimiter,
	maxAvatarBytes int,
	log zerolog.Logger,
) *UserService {
	if maxAvatarBytes <= 0 {
		maxAvatarBytes = domain.DefaultMaxAvatarBytes
	}
	return &UserService{
		users:          users,
		tasks:          tasks,
		hasher:         hasher,
		signer:         signer,
		limiter:        limiter,
		maxAvatarBytes: maxAvatarBytes,
		log:            log,
		now:            time.Now,
	}
}

// Create constructs, validates and persists a new account.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	age := 0
	if input.Age != nil {
		age = *input.Age
	}

	user := domain.NewUser(input.Name, input.Email, input.Password, age)
	if err := s.Save(ctx, user); err != nil {
		return nil, err
	}

	metrics.AccountsCreatedTotal.Inc()
	s.log.Info().Str("user_id", user.ID).Msg("account created")
	return user, nil
}

// Register creates the account and issues its first session token. When the
// token cannot be issued the account is already stored: it is returned along
// with the error and the caller can log in later.
func (s *UserService) Register(ctx context.Context, input ports.CreateUserInput) (*domain.User, string, error) {
	user, err := s.Create(ctx, input)
	if err != nil {
		return nil, "", err
	}
	token, err := s.GenerateAuthToken(ctx, user)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("account created without a session token")
		return user, "", fmt.Errorf("issue first token: %w", err)
	}
	return user, token, nil
}

// Save is the persist pipeline. Stages run in order and nothing is written
// when one fails: normalize, validate, email uniqueness, hash the password
// if it changed since the last save, then insert or update.
func (s *UserService) Save(ctx context.Context, user *domain.User) error {
	user.Normalize()

	if err := user.Validate(); err != nil {
		s.countViolations(err)
		return err
	}

	if err := s.ensureEmailAvailable(ctx, user); err != nil {
		return err
	}

	plaintext := user.Password
	if err := s.hashIfModified(user); err != nil {
		return err
	}

	prevCreated, prevUpdated := user.CreatedAt, user.UpdatedAt
	now := s.now().UTC()
	user.UpdatedAt = now

	var err error
	if user.IsNew() {
		user.CreatedAt = now
		err = s.users.Insert(ctx, user)
	} else {
		err = s.users.Update(ctx, user)
	}
	if err != nil {
		// Restore caller input so a retry hashes the plaintext, not the hash.
		user.Password = plaintext
		user.CreatedAt, user.UpdatedAt = prevCreated, prevUpdated
		if errors.Is(err, domain.ErrDuplicateEmail) {
			s.countViolations(err)
			return domain.NewValidationErrors(domain.ErrDuplicateEmail)
		}
		return fmt.Errorf("save user: %w", err)
	}

	user.MarkPersisted()
	return nil
}

func (s *UserService) ensureEmailAvailable(ctx context.Context, user *domain.User) error {
	existing, err := s.users.FindByEmail(ctx, user.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("check email availability: %w", err)
	}
	if existing.ID != user.ID {
		verr := domain.NewValidationErrors(domain.ErrDuplicateEmail)
		s.countViolations(verr)
		return verr
	}
	return nil
}

func (s *UserService) hashIfModified(user *domain.User) error {
	if !user.PasswordModified() {
		return nil
	}

	start := time.Now()
	hashed, err := s.hasher.Hash(user.Password)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.Password = hashed
	return nil
}

func (s *UserService) countViolations(err error) {
	var verrs *domain.ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	for _, v := range verrs.Violations {
		metrics.ValidationFailuresTotal.WithLabelValues(string(v.Kind)).Inc()
	}
}

// GenerateAuthToken signs a token carrying the account ID, appends it to the
// account's token list and persists the account.
func (s *UserService) GenerateAuthToken(ctx context.Context, user *domain.User) (string, error) {
	if user.IsNew() || user.ID == "" {
		return "", domain.ErrUserNotPersisted
	}

	token, err := s.signer.Sign(user.ID)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	n := len(user.Tokens)
	if err := user.AddToken(token); err != nil {
		return "", err
	}
	if err := s.Save(ctx, user); err != nil {
		user.Tokens = user.Tokens[:n]
		return "", err
	}

	metrics.AuthTokensIssuedTotal.Inc()
	return token, nil
}

// FindByCredentials looks the account up by normalized email and verifies the
// password against the stored hash. Both failures return a *domain.AuthError
// with the same message.
func (s *UserService) FindByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Pay the same hashing cost as a wrong password.
			s.hasher.Verify(password, s.dummyHash())
			return nil, domain.ErrUnknownAccount
		}
		return nil, fmt.Errorf("find by credentials: %w", err)
	}

	if !s.hasher.Verify(password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Login checks the failed-attempt limiter, verifies the credentials and
// issues a new token. Limiter errors are logged and do not block the login.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	key := domain.NormalizeEmail(email)

	blocked, err := s.limiter.Blocked(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("email_domain", emailDomain(key)).Msg("login limiter check failed, continuing")
	} else if blocked {
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.FindByCredentials(ctx, email, password)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
			if recErr := s.limiter.RecordFailure(ctx, key); recErr != nil {
				s.log.Warn().Err(recErr).Str("email_domain", emailDomain(key)).Msg("failed to record login failure")
			}
		}
		return "", nil, err
	}

	token, err := s.GenerateAuthToken(ctx, user)
	if err != nil {
		return "", nil, err
	}

	if err := s.limiter.Reset(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to reset login limiter")
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// Authenticate resolves a bearer token to the account it was issued to. A
// token removed by logout no longer authenticates even if its signature is valid.
func (s *UserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.signer.Parse(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("token rejected")
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByIDAndToken(ctx, userID, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}

// Update applies a partial profile change and persists it. The password is
// re-hashed only when the update sets it.
func (s *UserService) Update(ctx context.Context, user *domain.User, input ports.UpdateUserInput) error {
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Password != nil {
		user.Password = *input.Password
	}
	if input.Age != nil {
		user.Age = *input.Age
	}
	return s.Save(ctx, user)
}

// Logout revokes a single session token.
func (s *UserService) Logout(ctx context.Context, user *domain.User, token string) error {
	if !user.RemoveToken(token) {
		return nil
	}
	return s.Save(ctx, user)
}

// LogoutAll revokes every session token of the account.
func (s *UserService) LogoutAll(ctx context.Context, user *domain.User) error {
	user.Tokens = []string{}
	return s.Save(ctx, user)
}

func (s *UserService) SetAvatar(ctx context.Context, user *domain.User, data []byte) error {
	if err := domain.ValidateAvatar(data, s.maxAvatarBytes); err != nil {
		return err
	}
	user.Avatar = data
	return s.Save(ctx, user)
}

func (s *UserService) RemoveAvatar(ctx context.Context, user *domain.User) error {
	user.Avatar = nil
	return s.Save(ctx, user)
}

// Avatar returns the raw avatar payload of any account.
func (s *UserService) Avatar(ctx context.Context, userID string) ([]byte, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Avatar) == 0 {
		return nil, domain.ErrAvatarNotFound
	}
	return user.Avatar, nil
}

// Delete is the cascading delete pipeline: every task owned by the account is
// removed first, and the account is removed only if that succeeded.
func (s *UserService) Delete(ctx context.Context, user *domain.User) error {
	removed, err := s.tasks.DeleteAllByOwner(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("delete user %s: remove owned tasks: %w", user.ID, err)
	}
	metrics.CascadeDeletedTasksTotal.Add(float64(removed))

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user %s: %w", user.ID, err)
	}

	metrics.AccountsDeletedTotal.Inc()
	s.log.Info().Str("user_id", user.ID).Int64("tasks_removed", removed).Msg("account deleted")
	return nil
}

// Tasks resolves the tasks owned by the account. The relation is queried on
// demand and never stored on the account.
func (s *UserService) Tasks(ctx context.Context, user *domain.User) ([]*domain.Task, error) {
	tasks, err := s.tasks.FindByOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks of %s: %w", user.ID, err)
	}
	return tasks, nil
}

// dummyHash is a hash of a fixed value with the configured cost, verified
// against on unknown emails.
func (s *UserService) dummyHash() string {
	s.dummyOnce.Do(func() {
		hashed, err := s.hasher.Hash("unknown-account-placeholder")
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to build placeholder hash")
			return
		}
		s.dummy = hashed
	})
	return s.dummy
}

func emailDomain(email string) string {
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return email[i+1:]
	}
	return ""
}
