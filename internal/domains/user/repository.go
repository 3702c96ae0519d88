package user

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type UserService interface {
	Register(ctx context.Context, req *RegisterReq) (*AuthResp, error)
	Login(ctx context.Context, req *LoginReq) (*AuthResp, error)
	Profile(ctx context.Context, id uuid.UUID) (*User, error)
}
