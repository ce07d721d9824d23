// Package usecase implements owner-scoped task operations.
//
// Every method takes the owner ID as a separate argument. It must come from
// the authenticated principal, never from a request payload.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"todo_backend/internal/feature/tasks/domain"
	"todo_backend/internal/feature/tasks/domain/entity"
)

// TaskRepository abstracts the persistence layer for tasks.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (store).
type TaskRepository interface {
	CreateTask(ctx context.Context, task *entity.Task) (*entity.Task, error)
	// FindTasksByOwner returns the owner's tasks in creation order.
	FindTasksByOwner(ctx context.Context, ownerID string) ([]*entity.Task, error)
	// FindTaskByID returns domain.ErrNotFound when no task has that ID, whoever owns it.
	FindTaskByID(ctx context.Context, id string) (*entity.Task, error)
	// UpdateTask merges the patch and refreshes UpdatedAt. domain.ErrNotFound when missing.
	UpdateTask(ctx context.Context, id string, patch entity.Patch) (*entity.Task, error)
	// DeleteTask reports whether a task was removed.
	DeleteTask(ctx context.Context, id string) (bool, error)
}

// TaskUsecase provides business logic for task operations.
type TaskUsecase struct {
	repo TaskRepository
}

// NewTaskUsecase creates a new TaskUsecase with the given repository.
func NewTaskUsecase(r TaskRepository) *TaskUsecase {
	return &TaskUsecase{repo: r}
}

// Create stores a new, not yet completed task for ownerID.
// The title is assumed to be validated upstream.
func (u *TaskUsecase) Create(ctx context.Context, ownerID, title string, description *string) (*entity.Task, error) {
	now := time.Now()
	task := &entity.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Completed:   false,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := u.repo.CreateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// ListForOwner returns ownerID's tasks in creation order. It never returns nil on success.
func (u *TaskUsecase) ListForOwner(ctx context.Context, ownerID string) ([]*entity.Task, error) {
	tasks, err := u.repo.FindTasksByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*entity.Task{}
	}
	return tasks, nil
}

// GetByID returns the task, or domain.ErrNotFound when it is missing or owned by someone else.
func (u *TaskUsecase) GetByID(ctx context.Context, taskID, ownerID string) (*entity.Task, error) {
	return u.owned(ctx, taskID, ownerID)
}

// Update merges patch into the task after the same ownership check as GetByID.
func (u *TaskUsecase) Update(ctx context.Context, taskID, ownerID string, patch entity.Patch) (*entity.Task, error) {
	if _, err := u.owned(ctx, taskID, ownerID); err != nil {
		return nil, err
	}

	updated, err := u.repo.UpdateTask(ctx, taskID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return updated, nil
}

// Delete removes the task. It returns false, without error, when the task is
// missing or owned by someone else.
func (u *TaskUsecase) Delete(ctx context.Context, taskID, ownerID string) (bool, error) {
	if _, err := u.owned(ctx, taskID, ownerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	removed, err := u.repo.DeleteTask(ctx, taskID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return removed, nil
}

// owned loads the task and hides tasks of other owners behind domain.ErrNotFound.
func (u *TaskUsecase) owned(ctx context.Context, taskID, ownerID string) (*entity.Task, error) {
	task, err := u.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return task, nil
}
