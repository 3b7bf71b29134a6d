package service

import (
	"context"
	"errors"

	"quickgpt/internal/model"
	"quickgpt/internal/pkg/id"
	"quickgpt/internal/pkg/jwt"
	"quickgpt/internal/pkg/password"
	"quickgpt/internal/repository"
)

var (
	// ErrUserExists 邮箱已被注册
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
)

// AuthService 注册登录
type AuthService struct {
	users          *repository.UserRepository
	jwt            *jwt.JWT
	initialCredits int64
}

// NewAuthService 创建认证服务
func NewAuthService(users *repository.UserRepository, jwtManager *jwt.JWT, initialCredits int64) *AuthService {
	return &AuthService{
		users:          users,
		jwt:            jwtManager,
		initialCredits: initialCredits,
	}
}

// Register 注册新用户，返回登录token
// 新用户带初始积分
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword string) (*model.User, string, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		ID:       id.New(),
		Name:     name,
		Email:    email,
		Password: hashed,
		Credits:  s.initialCredits,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// 并发注册同一邮箱时唯一索引兜底
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrUserExists
		}
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login 邮箱密码登录，返回token
// 用户不存在和密码错误返回同一个错误，不泄露账号是否存在
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*model.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !password.Verify(rawPassword, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser 按ID查询用户
func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
