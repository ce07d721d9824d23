// Package domain defines domain-level errors for the tasks feature.
package domain

import "errors"

// ErrNotFound is returned when a task does not exist or belongs to another
// account. Callers cannot tell the two apart.
var ErrNotFound = errors.New("todo not found")
