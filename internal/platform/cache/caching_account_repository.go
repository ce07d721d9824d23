// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"todo_backend/internal/feature/auth/domain/entity"
	"todo_backend/internal/feature/auth/usecase"
)

var _ usecase.AccountRepository = (*CachingAccountRepository)(nil)

// CachingAccountRepository decorates an AccountRepository with Redis caching of
// lookups by ID, the lookup every authenticated request makes.
// Only hits are cached; a missing account is always re-read from the inner store.
// The password hash never enters Redis, so FindAccountByID results carry no
// PasswordHash. Credential checks go through FindAccountByEmail.
type CachingAccountRepository struct {
	inner     usecase.AccountRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// cachedAccount is the JSON form stored in Redis: public fields only.
type cachedAccount struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewCachingAccountRepository decorates an AccountRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "accounts".
// A nil rdb disables caching.
func NewCachingAccountRepository(rdb *redis.Client, ttl time.Duration, inner usecase.AccountRepository, namespace string) *CachingAccountRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "accounts"
	}
	return &CachingAccountRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// CreateAccount passes through to the inner repository.
func (c *CachingAccountRepository) CreateAccount(ctx context.Context, account *entity.Account) (*entity.Account, error) {
	return c.inner.CreateAccount(ctx, account)
}

// FindAccountByEmail passes through; login must always see the stored hash.
func (c *CachingAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return c.inner.FindAccountByEmail(ctx, email)
}

// FindAccountByID checks the cache first, then falls back to the inner repository.
func (c *CachingAccountRepository) FindAccountByID(ctx context.Context, id string) (*entity.Account, error) {
	if c.rdb == nil {
		account, err := c.inner.FindAccountByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return fromEntity(account).toEntity(), nil
	}

	key := c.cacheKey(id)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var ca cachedAccount
		if err := json.Unmarshal(b, &ca); err == nil && ca.ID == id {
			return ca.toEntity(), nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	account, err := c.inner.FindAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ca := fromEntity(account)
	if b, err := json.Marshal(ca); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return ca.toEntity(), nil
}

// Purge deletes every entry in the namespace. Call it when the inner store
// does not outlive the process, so a restart cannot resurrect accounts.
func (c *CachingAccountRepository) Purge(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.namespace+":*")
}

func (c *CachingAccountRepository) cacheKey(id string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(id))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingAccountRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			return nil
		}
	}
}

func fromEntity(a *entity.Account) cachedAccount {
	return cachedAccount{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
}

func (ca cachedAccount) toEntity() *entity.Account {
	return &entity.Account{
		ID:        ca.ID,
		Email:     ca.Email,
		Name:      ca.Name,
		CreatedAt: ca.CreatedAt,
	}
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
