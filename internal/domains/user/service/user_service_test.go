package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"nutrition-backend/internal/domains/user"
	"nutrition-backend/pkg/jwt"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// memoryCache is a minimal in-memory Cache for throttle tests.
type memoryCache struct {
	counters map[string]int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{counters: map[string]int64{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	v, ok := c.counters[key]
	if !ok {
		return false, nil
	}
	*dest.(*int64) = v
	return true, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.counters, k)
	}
	return nil
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

func (c *memoryCache) Increment(ctx context.Context, key string) (int64, error) {
	c.counters[key]++
	return c.counters[key], nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.counters[key]
	return ok, nil
}

func (c *memoryCache) Expire(ctx context.Context, key string, ttl time.Duration) error { return nil }

func (c *memoryCache) TTL(ctx context.Context, key string) (time.Duration, error) { return 0, nil }

func testJWT() *jwt.Manager {
	return jwt.NewManager("test-secret", 15, 72)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers and returns tokens", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", ctx, "alex@example.com").Return(nil, user.ErrUserNotFound)
		repo.On("Create", ctx, mock.MatchedBy(func(u *user.User) bool {
			return u.Email == "alex@example.com" && u.Role == user.RoleCustomer && u.PasswordHash != "secret-pass"
		})).Return(&user.User{ID: uuid.New(), Email: "alex@example.com", Role: user.RoleCustomer}, nil)

		svc := NewUserService(repo, testJWT(), newMemoryCache())

		resp, err := svc.Register(ctx, &user.RegisterReq{
			Email: "Alex@Example.com", Password: "secret-pass", FullName: "Alex Doe",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
		assert.NotEmpty(t, resp.Tokens.RefreshToken)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", ctx, "alex@example.com").
			Return(&user.User{ID: uuid.New(), Email: "alex@example.com"}, nil)

		svc := NewUserService(repo, testJWT(), newMemoryCache())

		_, err := svc.Register(ctx, &user.RegisterReq{
			Email: "alex@example.com", Password: "secret-pass", FullName: "Alex Doe",
		})

		assert.ErrorIs(t, err, user.ErrEmailExists)
	})

	t.Run("weak password fails validation", func(t *testing.T) {
		svc := NewUserService(new(mockUserRepo), testJWT(), newMemoryCache())

		_, err := svc.Register(ctx, &user.RegisterReq{
			Email: "alex@example.com", Password: "short", FullName: "Alex Doe",
		})

		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	account := &user.User{
		ID: uuid.New(), Email: "alex@example.com",
		PasswordHash: string(hash), Role: user.RoleCustomer,
	}

	t.Run("valid credentials log in", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", ctx, "alex@example.com").Return(account, nil)

		svc := NewUserService(repo, testJWT(), newMemoryCache())

		resp, err := svc.Login(ctx, &user.LoginReq{Email: "alex@example.com", Password: "secret-pass"})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", ctx, "alex@example.com").Return(account, nil)

		svc := NewUserService(repo, testJWT(), newMemoryCache())

		_, err := svc.Login(ctx, &user.LoginReq{Email: "alex@example.com", Password: "wrong"})

		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("repeated failures trip the throttle", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", ctx, "alex@example.com").Return(account, nil)

		svc := NewUserService(repo, testJWT(), newMemoryCache())

		for i := 0; i < maxLoginAttempts; i++ {
			_, err := svc.Login(ctx, &user.LoginReq{Email: "alex@example.com", Password: "wrong"})
			assert.ErrorIs(t, err, user.ErrInvalidCredentials)
		}

		// Even the right password is refused while locked out.
		_, err := svc.Login(ctx, &user.LoginReq{Email: "alex@example.com", Password: "secret-pass"})
		assert.ErrorIs(t, err, user.ErrTooManyAttempts)
	})

	t.Run("successful login resets the counter", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", ctx, "alex@example.com").Return(account, nil)

		c := newMemoryCache()
		svc := NewUserService(repo, testJWT(), c)

		_, err := svc.Login(ctx, &user.LoginReq{Email: "alex@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)

		_, err = svc.Login(ctx, &user.LoginReq{Email: "alex@example.com", Password: "secret-pass"})
		require.NoError(t, err)

		exists, _ := c.Exists(ctx, "login_attempts:alex@example.com")
		assert.False(t, exists)
	})
}
