// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"todo_backend/internal/feature/auth/domain"
	"todo_backend/internal/feature/auth/domain/entity"
)

// dummyHash is compared against when the email is unknown so that both
// login failure paths pay for one bcrypt comparison.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AccountRepository abstracts the persistence layer for accounts.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (store).
type AccountRepository interface {
	// CreateAccount persists the account as given. It performs no uniqueness check.
	CreateAccount(ctx context.Context, account *entity.Account) (*entity.Account, error)

	// FindAccountByEmail returns domain.ErrAccountNotFound when no account matches.
	FindAccountByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindAccountByID returns domain.ErrAccountNotFound when no account matches.
	FindAccountByID(ctx context.Context, id string) (*entity.Account, error)
}

// TokenManager issues and verifies signed session tokens.
type TokenManager interface {
	// GenerateToken returns a signed token asserting accountID.
	GenerateToken(accountID string) (string, error)
	// ParseToken verifies the signature and expiry and returns the decoded session.
	ParseToken(token string) (*entity.Session, error)
}

// PasswordHasher computes and verifies one-way password hashes.
// Both calls are slow on purpose and may block on a bounded worker pool.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash, password string) error
}

// AuthResult is what registration and login hand back to the caller.
type AuthResult struct {
	Token   string
	Account entity.PublicAccount
}

// AuthUsecase implements registration, login and token verification.
type AuthUsecase struct {
	accounts AccountRepository
	tokens   TokenManager
	hasher   PasswordHasher

	// registerMu serializes the duplicate check and the insert so two
	// concurrent registrations of one email cannot both succeed.
	registerMu sync.Mutex
}

// NewAuthUsecase creates a new AuthUsecase.
func NewAuthUsecase(accounts AccountRepository, tokens TokenManager, hasher PasswordHasher) *AuthUsecase {
	return &AuthUsecase{
		accounts: accounts,
		tokens:   tokens,
		hasher:   hasher,
	}
}

// Register creates an account and returns a session token for it.
// It fails with domain.ErrDuplicateAccount when the email is already registered.
func (u *AuthUsecase) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	// Cheap early exit before paying for the hash.
	if err := u.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hashed, err := u.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &entity.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashed,
		Name:         name,
		CreatedAt:    time.Now(),
	}

	created, err := u.insert(ctx, account)
	if err != nil {
		return nil, err
	}

	return u.issue(created)
}

// Login authenticates the email/password pair and returns a fresh session token.
// Unknown email and wrong password both fail with domain.ErrInvalidCredentials.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := u.accounts.FindAccountByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	passwordHash := dummyHash
	if account != nil {
		passwordHash = account.PasswordHash
	}

	// Always compare, even for an unknown email.
	compareErr := u.hasher.Compare(ctx, passwordHash, password)
	if errors.Is(compareErr, context.Canceled) || errors.Is(compareErr, context.DeadlineExceeded) {
		return nil, compareErr
	}
	if account == nil || compareErr != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return u.issue(account)
}

// VerifyToken checks the token signature and expiry and returns the account ID it asserts.
// It does not consult the store; resolving the ID to a live account is the caller's job.
func (u *AuthUsecase) VerifyToken(token string) (string, error) {
	session, err := u.tokens.ParseToken(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if session.AccountID == "" || session.IsExpired() {
		return "", domain.ErrInvalidToken
	}
	return session.AccountID, nil
}

func (u *AuthUsecase) ensureEmailFree(ctx context.Context, email string) error {
	_, err := u.accounts.FindAccountByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrDuplicateAccount
	case errors.Is(err, domain.ErrAccountNotFound):
		return nil
	default:
		return fmt.Errorf("failed to find account: %w", err)
	}
}

func (u *AuthUsecase) insert(ctx context.Context, account *entity.Account) (*entity.Account, error) {
	u.registerMu.Lock()
	defer u.registerMu.Unlock()

	// The email may have been taken while the password was hashing.
	if err := u.ensureEmailFree(ctx, account.Email); err != nil {
		return nil, err
	}

	created, err := u.accounts.CreateAccount(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return created, nil
}

func (u *AuthUsecase) issue(account *entity.Account) (*AuthResult, error) {
	token, err := u.tokens.GenerateToken(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, Account: account.Public()}, nil
}
