// Package memory provides the process-local record store for accounts and tasks.
//
// A single RWMutex guards both collections, so every operation is
// linearizable with respect to every other. Records are copied on the way
// in and on the way out; callers never share memory with the store.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	authdomain "todo_backend/internal/feature/auth/domain"
	authentity "todo_backend/internal/feature/auth/domain/entity"
	authusecase "todo_backend/internal/feature/auth/usecase"
	taskdomain "todo_backend/internal/feature/tasks/domain"
	taskentity "todo_backend/internal/feature/tasks/domain/entity"
	taskusecase "todo_backend/internal/feature/tasks/usecase"
)

// Compile-time checks that Store serves both features.
var (
	_ authusecase.AccountRepository = (*Store)(nil)
	_ taskusecase.TaskRepository    = (*Store)(nil)
)

// Store holds accounts and tasks in memory.
type Store struct {
	mu sync.RWMutex

	accounts        []*authentity.Account // insertion order
	accountsByID    map[string]*authentity.Account
	accountsByEmail map[string]*authentity.Account

	taskOrder []string
	tasks     map[string]*taskentity.Task

	now func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	s := &Store{now: time.Now}
	s.reset()
	return s
}

// Reset drops every record. Intended for test isolation.
func (s *Store) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func (s *Store) reset() {
	s.accounts = nil
	s.accountsByID = make(map[string]*authentity.Account)
	s.accountsByEmail = make(map[string]*authentity.Account)
	s.taskOrder = nil
	s.tasks = make(map[string]*taskentity.Task)
}

// CountAccounts returns the number of stored accounts.
func (s *Store) CountAccounts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// CountTasks returns the number of stored tasks.
func (s *Store) CountTasks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// CreateAccount stores the account as given. Email uniqueness is the caller's concern.
func (s *Store) CreateAccount(ctx context.Context, account *authentity.Account) (*authentity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored := *account

	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = append(s.accounts, &stored)
	s.accountsByID[stored.ID] = &stored
	// The first account keeps the email index entry, as a linear scan would.
	if _, taken := s.accountsByEmail[stored.Email]; !taken {
		s.accountsByEmail[stored.Email] = &stored
	}

	out := stored
	return &out, nil
}

// FindAccountByEmail returns a copy of the matching account or authdomain.ErrAccountNotFound.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*authentity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accountsByEmail[email]
	if !ok {
		return nil, authdomain.ErrAccountNotFound
	}
	out := *a
	return &out, nil
}

// FindAccountByID returns a copy of the matching account or authdomain.ErrAccountNotFound.
func (s *Store) FindAccountByID(ctx context.Context, id string) (*authentity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accountsByID[id]
	if !ok {
		return nil, authdomain.ErrAccountNotFound
	}
	out := *a
	return &out, nil
}

// CreateTask stores the task as given.
func (s *Store) CreateTask(ctx context.Context, task *taskentity.Task) (*taskentity.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored := task.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[stored.ID]; !exists {
		s.taskOrder = append(s.taskOrder, stored.ID)
	}
	s.tasks[stored.ID] = stored

	return stored.Clone(), nil
}

// FindTasksByOwner returns the owner's tasks in creation order. The slice is never nil.
func (s *Store) FindTasksByOwner(ctx context.Context, ownerID string) ([]*taskentity.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*taskentity.Task, 0)
	for _, id := range s.taskOrder {
		if t := s.tasks[id]; t.OwnerID == ownerID {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

// FindTaskByID returns the task whoever owns it, or taskdomain.ErrNotFound.
func (s *Store) FindTaskByID(ctx context.Context, id string) (*taskentity.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, taskdomain.ErrNotFound
	}
	return t.Clone(), nil
}

// UpdateTask merges the patch into the task and refreshes UpdatedAt.
func (s *Store) UpdateTask(ctx context.Context, id string, patch taskentity.Patch) (*taskentity.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, taskdomain.ErrNotFound
	}
	now := s.now()
	// Keep UpdatedAt monotonic even if the wall clock steps back.
	if now.Before(t.UpdatedAt) {
		now = t.UpdatedAt
	}
	t.Apply(patch, now)
	return t.Clone(), nil
}

// DeleteTask removes the task and reports whether it existed.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	s.taskOrder = slices.DeleteFunc(s.taskOrder, func(v string) bool { return v == id })
	return true, nil
}
