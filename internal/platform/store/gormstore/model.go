package gormstore

import (
	"time"

	authentity "todo_backend/internal/feature/auth/domain/entity"
	taskentity "todo_backend/internal/feature/tasks/domain/entity"
)

// AccountModel is the GORM model for the accounts table.
type AccountModel struct {
	Seq          uint      `gorm:"primaryKey;autoIncrement"`
	ID           string    `gorm:"uniqueIndex;size:36;not null"`
	Email        string    `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Name         string    `gorm:"size:255;not null"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime:false"`
}

// TableName returns the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}

// ToEntity converts the GORM model to a domain entity.
func (m *AccountModel) ToEntity() *authentity.Account {
	return &authentity.Account{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		CreatedAt:    m.CreatedAt,
	}
}

// AccountModelFromEntity converts a domain entity to a GORM model.
func AccountModelFromEntity(a *authentity.Account) *AccountModel {
	return &AccountModel{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Name:         a.Name,
		CreatedAt:    a.CreatedAt,
	}
}

// TaskModel is the GORM model for the todos table. Seq preserves creation order.
type TaskModel struct {
	Seq         uint      `gorm:"primaryKey;autoIncrement"`
	ID          string    `gorm:"uniqueIndex;size:36;not null"`
	Title       string    `gorm:"size:200;not null"`
	Description *string   `gorm:"size:1000"`
	Completed   bool      `gorm:"not null;default:false"`
	OwnerID     string    `gorm:"index;size:36;not null"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName returns the table name for GORM.
func (TaskModel) TableName() string {
	return "todos"
}

// ToEntity converts the GORM model to a domain entity.
func (m *TaskModel) ToEntity() *taskentity.Task {
	t := &taskentity.Task{
		ID:        m.ID,
		Title:     m.Title,
		Completed: m.Completed,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Description != nil {
		d := *m.Description
		t.Description = &d
	}
	return t
}

// TaskModelFromEntity converts a domain entity to a GORM model.
func TaskModelFromEntity(t *taskentity.Task) *TaskModel {
	m := &TaskModel{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		OwnerID:   t.OwnerID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Description != nil {
		d := *t.Description
		m.Description = &d
	}
	return m
}

// Models lists every table the store needs migrated.
func Models() []any {
	return []any{&AccountModel{}, &TaskModel{}}
}
