package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"nutrition-backend/internal/domains/user"
	"nutrition-backend/pkg/cache"
	"nutrition-backend/pkg/jwt"
	"nutrition-backend/pkg/logger"
)

const (
	maxLoginAttempts = 5
	lockoutWindow    = 15 * time.Minute
)

type userService struct {
	repo  user.UserRepository
	jwt   *jwt.Manager
	cache cache.Cache
}

func NewUserService(repo user.UserRepository, jwtManager *jwt.Manager, c cache.Cache) user.UserService {
	return &userService{repo: repo, jwt: jwtManager, cache: c}
}

func (s *userService) Register(ctx context.Context, req *user.RegisterReq) (*user.AuthResp, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, user.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         user.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	logger.Info("user registered", map[string]interface{}{"user_id": created.ID.String()})

	return s.issueTokens(created)
}

// Login verifies credentials behind a per-email attempt throttle kept
// in the cache. The counter resets on a successful login.
func (s *userService) Login(ctx context.Context, req *user.LoginReq) (*user.AuthResp, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	attemptKey := "login_attempts:" + email

	var attempts int64
	if found, err := s.cache.Get(ctx, attemptKey, &attempts); err == nil && found && attempts >= maxLoginAttempts {
		return nil, user.ErrTooManyAttempts
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.recordFailure(ctx, attemptKey)
		return nil, user.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, attemptKey)
		return nil, user.ErrInvalidCredentials
	}

	if err := s.cache.Delete(ctx, attemptKey); err != nil {
		logger.Warn("failed to reset login attempts", map[string]interface{}{"error": err.Error()})
	}

	return s.issueTokens(u)
}

func (s *userService) Profile(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) recordFailure(ctx context.Context, key string) {
	count, err := s.cache.Increment(ctx, key)
	if err != nil {
		logger.Warn("failed to record login attempt", map[string]interface{}{"error": err.Error()})
		return
	}
	if count == 1 {
		if err := s.cache.Expire(ctx, key, lockoutWindow); err != nil {
			logger.Warn("failed to set lockout window", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *userService) issueTokens(u *user.User) (*user.AuthResp, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refresh, err := s.jwt.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &user.AuthResp{
		User:   u,
		Tokens: user.TokenPair{AccessToken: access, RefreshToken: refresh},
	}, nil
}
