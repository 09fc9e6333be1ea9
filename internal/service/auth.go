package service

import (
	"errors"
	"fmt"

	"school-canteen/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserExists is deliberately unspecific about which column collided.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so login failures do not leak which usernames exist.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type AuthService struct {
	users UserRepository
}

func NewAuthService(users UserRepository) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) Register(username, email, password string) error {
	exists, err := s.users.UserExists(username, email)
	if err != nil {
		return fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     domain.RoleStudent,
	}
	return s.users.CreateUser(user)
}

func (s *AuthService) Login(username, password string) (*domain.User, error) {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

var _ AuthServiceInterface = (*AuthService)(nil)
