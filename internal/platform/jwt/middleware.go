package jwtmw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/feature/auth/domain"
	"todo_backend/internal/feature/auth/domain/entity"
	"todo_backend/internal/platform/logger"
)

// ContextPrincipal is the gin context key under which the authenticated account is stored.
const ContextPrincipal = "principal"

const bearerPrefix = "Bearer "

// TokenVerifier resolves a bearer token to the account ID it asserts.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// AccountFinder resolves an account ID to a live account.
type AccountFinder interface {
	FindAccountByID(ctx context.Context, id string) (*entity.Account, error)
}

// AuthRequired returns a Gin middleware that only lets requests with a
// valid bearer token through. A token whose account no longer exists is
// treated exactly like an invalid token.
func AuthRequired(verifier TokenVerifier, accounts AccountFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())

		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
		if !strings.HasPrefix(auth, bearerPrefix) || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrMissingToken.Error()})
			return
		}

		// 2. Verify signature and expiry
		accountID, err := verifier.VerifyToken(tokenStr)
		if err != nil {
			log.Debug().Err(err).Str("remote_addr", c.ClientIP()).Msg("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrInvalidToken.Error()})
			return
		}

		// 3. Resolve the account
		account, err := accounts.FindAccountByID(c.Request.Context(), accountID)
		if err != nil {
			if !errors.Is(err, domain.ErrAccountNotFound) {
				log.Error().Err(err).Str("account_id", accountID).Msg("account lookup failed")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrInvalidToken.Error()})
			return
		}

		// 4. Attach the principal and pass control to the next handler
		c.Set(ContextPrincipal, account.Public())
		c.Next()
	}
}

// PrincipalFrom returns the account attached by AuthRequired.
func PrincipalFrom(c *gin.Context) (entity.PublicAccount, bool) {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return entity.PublicAccount{}, false
	}
	p, ok := v.(entity.PublicAccount)
	return p, ok
}
