package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo_backend/internal/feature/auth/domain"
	"todo_backend/internal/feature/auth/domain/entity"
)

// mockAccountRepository is a mock implementation of usecase.AccountRepository.
type mockAccountRepository struct {
	createFn      func(ctx context.Context, a *entity.Account) (*entity.Account, error)
	findByEmailFn func(ctx context.Context, email string) (*entity.Account, error)
	findByIDFn    func(ctx context.Context, id string) (*entity.Account, error)
	findByIDCalls int
}

func (m *mockAccountRepository) CreateAccount(ctx context.Context, a *entity.Account) (*entity.Account, error) {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return a, nil
}

func (m *mockAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*entity.Account, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *mockAccountRepository) FindAccountByID(ctx context.Context, id string) (*entity.Account, error) {
	m.findByIDCalls++
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, domain.ErrAccountNotFound
}

var alice = &entity.Account{
	ID:           "acc-1",
	Email:        "alice@example.com",
	PasswordHash: "$2a$10$hash",
	Name:         "Alice",
	CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
}

// alicePublic is what the decorator hands back: alice minus the hash.
var alicePublic = &entity.Account{
	ID:        alice.ID,
	Email:     alice.Email,
	Name:      alice.Name,
	CreatedAt: alice.CreatedAt,
}

func aliceJSON(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(fromEntity(alice))
	require.NoError(t, err)
	return b
}

func TestNewCachingAccountRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 5 * time.Minute, "accounts"},
		{"negative ttl uses default", -time.Minute, "", 5 * time.Minute, "accounts"},
		{"custom values preserved", 10 * time.Minute, "custom", 10 * time.Minute, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingAccountRepository(nil, tt.ttl, &mockAccountRepository{}, tt.namespace)

			assert.Equal(t, tt.expectedTTL, repo.ttl)
			assert.Equal(t, tt.expectedNamespace, repo.namespace)
		})
	}
}

func TestCachingAccountRepository_FindByID_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockAccountRepository{findByIDFn: func(ctx context.Context, id string) (*entity.Account, error) { return alice, nil }}
	repo := NewCachingAccountRepository(nil, time.Minute, inner, "")

	got, err := repo.FindAccountByID(context.Background(), "acc-1")

	require.NoError(t, err)
	assert.Equal(t, alicePublic, got)
	assert.Equal(t, 1, inner.findByIDCalls)
}

func TestCachingAccountRepository_FindByID_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("accounts:acc-1").SetVal(string(aliceJSON(t)))

	inner := &mockAccountRepository{}
	repo := NewCachingAccountRepository(rdb, 5*time.Minute, inner, "accounts")

	got, err := repo.FindAccountByID(context.Background(), "acc-1")

	require.NoError(t, err)
	assert.Equal(t, alicePublic, got)
	assert.Zero(t, inner.findByIDCalls, "inner repository should not be called on cache hit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingAccountRepository_FindByID_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("accounts:acc-1").RedisNil()
	mock.ExpectSet("accounts:acc-1", aliceJSON(t), 5*time.Minute).SetVal("OK")

	inner := &mockAccountRepository{findByIDFn: func(ctx context.Context, id string) (*entity.Account, error) { return alice, nil }}
	repo := NewCachingAccountRepository(rdb, 5*time.Minute, inner, "accounts")

	got, err := repo.FindAccountByID(context.Background(), "acc-1")

	require.NoError(t, err)
	assert.Equal(t, alicePublic, got)
	assert.Equal(t, 1, inner.findByIDCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingAccountRepository_FindByID_HashStaysOutOfRedis(t *testing.T) {
	t.Parallel()

	payload := aliceJSON(t)
	assert.NotContains(t, string(payload), alice.PasswordHash)
	assert.NotContains(t, string(payload), "passwordHash")

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	// A payload written by an older build that still carried the hash.
	mock.ExpectGet("accounts:acc-1").SetVal(`{"id":"acc-1","email":"alice@example.com","passwordHash":"$2a$10$hash","name":"Alice","createdAt":"2026-01-01T00:00:00Z"}`)

	repo := NewCachingAccountRepository(rdb, 5*time.Minute, &mockAccountRepository{}, "accounts")

	got, err := repo.FindAccountByID(context.Background(), "acc-1")

	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)
	assert.Equal(t, alicePublic, got)
}

func TestCachingAccountRepository_FindByID_NotFoundIsNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("accounts:ghost").RedisNil()

	repo := NewCachingAccountRepository(rdb, 5*time.Minute, &mockAccountRepository{}, "accounts")

	_, err := repo.FindAccountByID(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet(), "no SET is expected for a miss")
}

func TestCachingAccountRepository_FindByID_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")
	mock.ExpectGet("accounts:acc-1").RedisNil()

	inner := &mockAccountRepository{findByIDFn: func(ctx context.Context, id string) (*entity.Account, error) { return nil, expectedErr }}
	repo := NewCachingAccountRepository(rdb, 5*time.Minute, inner, "accounts")

	_, err := repo.FindAccountByID(context.Background(), "acc-1")

	assert.ErrorIs(t, err, expectedErr)
}

func TestCachingAccountRepository_FindByID_RedisDown(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("accounts:acc-1").SetErr(errors.New("connection refused"))
	mock.ExpectSet("accounts:acc-1", aliceJSON(t), 5*time.Minute).SetErr(errors.New("connection refused"))

	inner := &mockAccountRepository{findByIDFn: func(ctx context.Context, id string) (*entity.Account, error) { return alice, nil }}
	repo := NewCachingAccountRepository(rdb, 5*time.Minute, inner, "accounts")

	got, err := repo.FindAccountByID(context.Background(), "acc-1")

	require.NoError(t, err, "cache failures are not surfaced")
	assert.Equal(t, alicePublic, got)
}

func TestCachingAccountRepository_FindByID_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("accounts:acc-1").SetVal("invalid json")
	mock.ExpectDel("accounts:acc-1").SetVal(1)
	mock.ExpectSet("accounts:acc-1", aliceJSON(t), 5*time.Minute).SetVal("OK")

	inner := &mockAccountRepository{findByIDFn: func(ctx context.Context, id string) (*entity.Account, error) { return alice, nil }}
	repo := NewCachingAccountRepository(rdb, 5*time.Minute, inner, "accounts")

	got, err := repo.FindAccountByID(context.Background(), "acc-1")

	require.NoError(t, err)
	assert.Equal(t, alicePublic, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingAccountRepository_PassThrough(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	var created, looked bool
	inner := &mockAccountRepository{
		createFn: func(ctx context.Context, a *entity.Account) (*entity.Account, error) {
			created = true
			return a, nil
		},
		findByEmailFn: func(ctx context.Context, email string) (*entity.Account, error) {
			looked = true
			return alice, nil
		},
	}
	repo := NewCachingAccountRepository(rdb, 5*time.Minute, inner, "accounts")

	_, err := repo.CreateAccount(context.Background(), alice)
	require.NoError(t, err)
	_, err = repo.FindAccountByEmail(context.Background(), alice.Email)
	require.NoError(t, err)

	assert.True(t, created)
	assert.True(t, looked)
	assert.NoError(t, mock.ExpectationsWereMet(), "neither call touches Redis")
}

func TestCachingAccountRepository_Purge(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "accounts:*", 200).SetVal([]string{"accounts:a", "accounts:b"}, 7)
	mock.ExpectDel("accounts:a", "accounts:b").SetVal(2)
	mock.ExpectScan(7, "accounts:*", 200).SetVal([]string{}, 0)

	repo := NewCachingAccountRepository(rdb, 5*time.Minute, &mockAccountRepository{}, "accounts")

	require.NoError(t, repo.Purge(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingAccountRepository_Purge_NilRedis(t *testing.T) {
	t.Parallel()

	repo := NewCachingAccountRepository(nil, 0, &mockAccountRepository{}, "")

	assert.NoError(t, repo.Purge(context.Background()))
}

func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"acc-1", "acc-1"},
		{"a b", "a_b"},
		{"key:value", "key_value"},
		{"acc*", "acc_"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, safe(tt.input))
		})
	}
}
