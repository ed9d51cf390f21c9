package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/taskmanager/task-manager-api/internal/core/domain"
)

// callLog records repository calls across stubs so tests can assert ordering.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.calls)
}

type stubUserRepo struct {
	users     map[string]*domain.User
	nextID    int
	log       *callLog
	insertErr error
	updateErr error
	deleteErr error
	onDelete  func(id string)
}

func newStubUserRepo(log *callLog) *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), log: log}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Tokens = slices.Clone(u.Tokens)
	clone.Avatar = slices.Clone(u.Avatar)
	return &clone
}

// loaded mimics a repository read: the returned account counts as persisted.
func loaded(u *domain.User) *domain.User {
	clone := cloneUser(u)
	clone.MarkPersisted()
	return clone
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) error {
	r.log.add("users.Insert")
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.nextID++
	user.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return loaded(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return loaded(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDAndToken(_ context.Context, id, token string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok || !u.HasToken(token) {
		return nil, domain.ErrUserNotFound
	}
	return loaded(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.log.add("users.Update")
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.log.add("users.Delete")
	if r.onDelete != nil {
		r.onDelete(id)
	}
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) stored(id string) *domain.User {
	return r.users[id]
}

type stubTaskRepo struct {
	tasks     []*domain.Task
	nextID    int
	log       *callLog
	createErr error
	deleteErr error
}

func newStubTaskRepo(log *callLog) *stubTaskRepo {
	return &stubTaskRepo{log: log}
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.log.add("tasks.Create")
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	task.ID = fmt.Sprintf("t%d", r.nextID)
	clone := *task
	r.tasks = append(r.tasks, &clone)
	return nil
}

func (r *stubTaskRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.Task, error) {
	out := []*domain.Task{}
	for _, t := range r.tasks {
		if t.Owner == ownerID {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubTaskRepo) DeleteAllByOwner(_ context.Context, ownerID string) (int64, error) {
	r.log.add("tasks.DeleteAllByOwner")
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	var removed int64
	r.tasks = slices.DeleteFunc(r.tasks, func(t *domain.Task) bool {
		if t.Owner == ownerID {
			removed++
			return true
		}
		return false
	})
	return removed, nil
}

func (r *stubTaskRepo) countOwnedBy(ownerID string) int {
	n := 0
	for _, t := range r.tasks {
		if t.Owner == ownerID {
			n++
		}
	}
	return n
}

type stubLimiter struct {
	failures   map[string]int
	max        int
	blockedErr error
	resets     int
}

func newStubLimiter(max int) *stubLimiter {
	return &stubLimiter{failures: make(map[string]int), max: max}
}

func (l *stubLimiter) Blocked(_ context.Context, email string) (bool, error) {
	if l.blockedErr != nil {
		return false, l.blockedErr
	}
	return l.failures[email] >= l.max, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, email string) error {
	l.failures[email]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, email string) error {
	l.resets++
	delete(l.failures, email)
	return nil
}
