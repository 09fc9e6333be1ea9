package tests

import (
	"testing"

	"school-canteen/internal/domain"
	"school-canteen/internal/mocks"
	"school-canteen/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Register(t *testing.T) {
	t.Run("duplicate user creates no row", func(t *testing.T) {
		users := mocks.NewUserRepository(t)
		svc := service.NewAuthService(users)

		users.On("UserExists", "ivanov", "ivanov@school.example").Return(true, nil).Once()

		err := svc.Register("ivanov", "ivanov@school.example", "secret")

		assert.ErrorIs(t, err, service.ErrUserExists)
		users.AssertNotCalled(t, "CreateUser", mock.Anything)
	})

	t.Run("stores hashed password with student role", func(t *testing.T) {
		users := mocks.NewUserRepository(t)
		svc := service.NewAuthService(users)

		users.On("UserExists", "petrov", "petrov@school.example").Return(false, nil).Once()
		users.On("CreateUser", mock.MatchedBy(func(user *domain.User) bool {
			if user.Role != domain.RoleStudent || user.Password == "secret" {
				return false
			}
			return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret")) == nil
		})).Return(nil).Once()

		err := svc.Register("petrov", "petrov@school.example", "secret")

		assert.NoError(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	assert.NoError(t, err)

	tests := []struct {
		name         string
		username     string
		password     string
		prepareMocks func(users *mocks.UserRepository)
		wantErr      error
	}{
		{
			name:     "unknown username",
			username: "ghost",
			password: "password123",
			prepareMocks: func(users *mocks.UserRepository) {
				users.On("GetUserByUsername", "ghost").Return(nil, assert.AnError).Once()
			},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "ivanov",
			password: "not-the-password",
			prepareMocks: func(users *mocks.UserRepository) {
				users.On("GetUserByUsername", "ivanov").
					Return(&domain.User{ID: 2, Username: "ivanov", Password: string(hash)}, nil).Once()
			},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:     "valid credentials",
			username: "ivanov",
			password: "password123",
			prepareMocks: func(users *mocks.UserRepository) {
				users.On("GetUserByUsername", "ivanov").
					Return(&domain.User{ID: 2, Username: "ivanov", Password: string(hash), Role: domain.RoleStudent}, nil).Once()
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			users := mocks.NewUserRepository(t)
			svc := service.NewAuthService(users)
			testCase.prepareMocks(users)

			user, err := svc.Login(testCase.username, testCase.password)

			if testCase.wantErr != nil {
				// Identical error for unknown username and wrong password.
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 2, user.ID)
			}
		})
	}
}
