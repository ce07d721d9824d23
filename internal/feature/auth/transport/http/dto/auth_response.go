package dto

import (
	"time"

	"todo_backend/internal/feature/auth/domain/entity"
)

// UserRes is the public shape of an account. It has no credential field.
type UserRes struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthRes is returned by register and login.
type AuthRes struct {
	User  UserRes `json:"user"`
	Token string  `json:"token"`
}

// ErrorRes is the body of every error response.
type ErrorRes struct {
	Error string `json:"error"`
}

// NewUserRes converts a public account to its response shape.
func NewUserRes(a entity.PublicAccount) UserRes {
	return UserRes{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
}
