// Package entity defines the domain models for the tasks feature.
package entity

import "time"

// Task is a to-do item owned by exactly one account.
type Task struct {
	ID          string
	Title       string
	Description *string
	Completed   bool
	// OwnerID is the ID of the account that created the task. It is never reassigned.
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Patch lists the fields an update may change. Nil fields are left as they are.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Apply merges the non-nil fields of p into t and refreshes UpdatedAt.
func (t *Task) Apply(p Patch, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		d := *p.Description
		t.Description = &d
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = now
}

// Clone returns a deep copy so callers cannot reach into a store's records.
func (t *Task) Clone() *Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	return &c
}
