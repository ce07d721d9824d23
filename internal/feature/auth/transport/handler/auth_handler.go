// Package handler provides HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/feature/auth/domain"
	"todo_backend/internal/feature/auth/transport/http/dto"
	"todo_backend/internal/feature/auth/usecase"
	"todo_backend/internal/platform/logger"
)

// AuthUsecase defines the account operations used by the handler.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	// Register creates an account and returns a session token for it.
	Register(ctx context.Context, email, password, name string) (*usecase.AuthResult, error)
	// Login authenticates the user and returns a session token.
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
}

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/auth/register.
//   - 400 on validation errors
//   - 409 when the email is already registered
//   - 201 with the public account and a token on success
func (h *AuthHandler) Register(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Str("remote_addr", c.ClientIP()).Msg("register validation failed")
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			log.Warn().Str("email", req.Email).Str("remote_addr", c.ClientIP()).Msg("register rejected: duplicate email")
			c.JSON(http.StatusConflict, dto.ErrorRes{Error: domain.ErrDuplicateAccount.Error()})
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("register failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal server error"})
		return
	}

	log.Info().Str("account_id", res.Account.ID).Str("remote_addr", c.ClientIP()).Msg("account registered")
	c.JSON(http.StatusCreated, dto.AuthRes{User: dto.NewUserRes(res.Account), Token: res.Token})
}

// Login handles POST /api/auth/login.
//   - 400 on validation errors
//   - 401 on bad credentials, with one message for every cause
//   - 200 with the public account and a token on success
func (h *AuthHandler) Login(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Str("remote_addr", c.ClientIP()).Msg("login validation failed")
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			log.Warn().Str("email", req.Email).Str("remote_addr", c.ClientIP()).Msg("login failed")
			c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: domain.ErrInvalidCredentials.Error()})
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("login errored")
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal server error"})
		return
	}

	log.Info().Str("account_id", res.Account.ID).Str("remote_addr", c.ClientIP()).Msg("login successful")
	c.JSON(http.StatusOK, dto.AuthRes{User: dto.NewUserRes(res.Account), Token: res.Token})
}
