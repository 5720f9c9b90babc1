package auth

import (
	"context"
	"errors"
	"strings"

	"savoria/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("role must be customer or owner")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type AuthServiceInterface interface {
	SignUp(ctx context.Context, email, password, displayName, role string) (*domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)
}

type AuthService struct {
	repo UserRepository
}

func NewAuthService(repo UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

// SignUp registers an identity. The role is chosen here, once, and is
// immutable afterwards: there is no self-service role change.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName, role string) (*domain.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if role != domain.RoleCustomer && role != domain.RoleOwner {
		return nil, ErrInvalidRole
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}
	if existing, err := s.repo.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Identity: domain.Identity{
			Email:       email,
			DisplayName: displayName,
			Role:        role,
		},
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	identity := user.Identity
	return &identity, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	identity := user.Identity
	return &identity, nil
}

var _ AuthServiceInterface = (*AuthService)(nil)
