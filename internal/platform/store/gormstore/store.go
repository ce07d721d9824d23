// Package gormstore is the SQL-backed record store for accounts and tasks.
// It serves the same repository interfaces as the in-memory store.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authdomain "todo_backend/internal/feature/auth/domain"
	authentity "todo_backend/internal/feature/auth/domain/entity"
	authusecase "todo_backend/internal/feature/auth/usecase"
	taskdomain "todo_backend/internal/feature/tasks/domain"
	taskentity "todo_backend/internal/feature/tasks/domain/entity"
	taskusecase "todo_backend/internal/feature/tasks/usecase"
)

var (
	_ authusecase.AccountRepository = (*Store)(nil)
	_ taskusecase.TaskRepository    = (*Store)(nil)
)

// Store implements the record store on top of GORM.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore creates a Store over an already migrated connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// CreateAccount inserts the account. A taken email yields authdomain.ErrDuplicateAccount.
func (s *Store) CreateAccount(ctx context.Context, account *authentity.Account) (*authentity.Account, error) {
	m := AccountModelFromEntity(account)
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, authdomain.ErrDuplicateAccount
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// isUniqueViolation matches the translated gorm error and, for connections
// opened without TranslateError, PostgreSQL's 23505 unique_violation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// FindAccountByEmail returns authdomain.ErrAccountNotFound when no account matches.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*authentity.Account, error) {
	return s.findAccount(ctx, "email = ?", email)
}

// FindAccountByID returns authdomain.ErrAccountNotFound when no account matches.
func (s *Store) FindAccountByID(ctx context.Context, id string) (*authentity.Account, error) {
	return s.findAccount(ctx, "id = ?", id)
}

func (s *Store) findAccount(ctx context.Context, query string, arg string) (*authentity.Account, error) {
	var m AccountModel
	if err := s.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authdomain.ErrAccountNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// CreateTask inserts the task.
func (s *Store) CreateTask(ctx context.Context, task *taskentity.Task) (*taskentity.Task, error) {
	m := TaskModelFromEntity(task)
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m.ToEntity(), nil
}

// FindTasksByOwner returns the owner's tasks in creation order. The slice is never nil.
func (s *Store) FindTasksByOwner(ctx context.Context, ownerID string) ([]*taskentity.Task, error) {
	var models []TaskModel
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("seq ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*taskentity.Task, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out, nil
}

// FindTaskByID returns the task whoever owns it, or taskdomain.ErrNotFound.
func (s *Store) FindTaskByID(ctx context.Context, id string) (*taskentity.Task, error) {
	var m TaskModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskdomain.ErrNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// UpdateTask merges the patch into the task and refreshes UpdatedAt inside one transaction.
func (s *Store) UpdateTask(ctx context.Context, id string, patch taskentity.Patch) (*taskentity.Task, error) {
	var updated *taskentity.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m TaskModel
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return taskdomain.ErrNotFound
			}
			return err
		}

		task := m.ToEntity()
		now := s.now()
		if now.Before(task.UpdatedAt) {
			now = task.UpdatedAt
		}
		task.Apply(patch, now)

		next := TaskModelFromEntity(task)
		if err := tx.Model(&TaskModel{}).Where("seq = ?", m.Seq).Updates(map[string]any{
			"title":       next.Title,
			"description": next.Description,
			"completed":   next.Completed,
			"updated_at":  next.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes the task and reports whether it existed.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&TaskModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Reset drops every record. Intended for test isolation.
func (s *Store) Reset(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := global.Delete(&TaskModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear todos: %w", err)
		}
		if err := global.Delete(&AccountModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear accounts: %w", err)
		}
		return nil
	})
}

// CountAccounts returns the number of stored accounts.
func (s *Store) CountAccounts(ctx context.Context) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&AccountModel{}).Count(&n).Error
	return int(n), err
}

// CountTasks returns the number of stored tasks.
func (s *Store) CountTasks(ctx context.Context) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&TaskModel{}).Count(&n).Error
	return int(n), err
}
