package auth_test

import (
	"context"
	"errors"
	"testing"

	"savoria/internal/auth"
	"savoria/internal/domain"
	"savoria/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestSignUp(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		role      string
		existing  *domain.User
		wantErr   error
		wantWrite bool
	}{
		{
			name: "customer signup", email: "cust@example.com",
			password: "secret1", role: domain.RoleCustomer, wantWrite: true,
		},
		{
			name: "owner signup", email: "owner@example.com",
			password: "secret1", role: domain.RoleOwner, wantWrite: true,
		},
		{
			name: "unknown role rejected", email: "x@example.com",
			password: "secret1", role: "admin", wantErr: auth.ErrInvalidRole,
		},
		{
			name: "short password rejected", email: "x@example.com",
			password: "abc", role: domain.RoleCustomer, wantErr: auth.ErrWeakPassword,
		},
		{
			name: "duplicate email rejected", email: "taken@example.com",
			password: "secret1", role: domain.RoleCustomer,
			existing: &domain.User{Identity: domain.Identity{Email: "taken@example.com"}},
			wantErr:  auth.ErrEmailTaken,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockRepo := new(mocks.UserRepository)
			if testCase.existing != nil {
				mockRepo.On("GetUserByEmail", mock.Anything, testCase.email).Return(testCase.existing, nil).Once()
			} else {
				mockRepo.On("GetUserByEmail", mock.Anything, testCase.email).
					Return(nil, errors.New("not found")).Maybe()
			}
			if testCase.wantWrite {
				mockRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*domain.User")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*domain.User).ID = "u1"
					}).
					Return(nil).Once()
			}

			svc := auth.NewAuthService(mockRepo)
			identity, err := svc.SignUp(context.Background(), testCase.email, testCase.password, "Tester", testCase.role)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, identity)
				mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, testCase.role, identity.Role)
				assert.Equal(t, testCase.email, identity.Email)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestSignUp_HashesPassword(t *testing.T) {
	var stored *domain.User
	mockRepo := new(mocks.UserRepository)
	mockRepo.On("GetUserByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("not found")).Once()
	mockRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.User)
		}).
		Return(nil).Once()

	svc := auth.NewAuthService(mockRepo)
	_, err := svc.SignUp(context.Background(), "cust@example.com", "secret1", "Tester", domain.RoleCustomer)

	assert.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestSignIn(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	user := &domain.User{
		Identity:     domain.Identity{ID: "u1", Email: "cust@example.com", Role: domain.RoleCustomer},
		PasswordHash: string(hash),
	}

	tests := []struct {
		name     string
		email    string
		password string
		found    *domain.User
		wantErr  bool
	}{
		{name: "valid credentials", email: "cust@example.com", password: "secret1", found: user},
		{name: "wrong password", email: "cust@example.com", password: "nope123", found: user, wantErr: true},
		{name: "unknown email", email: "ghost@example.com", password: "secret1", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockRepo := new(mocks.UserRepository)
			if testCase.found != nil {
				mockRepo.On("GetUserByEmail", mock.Anything, testCase.email).Return(testCase.found, nil).Once()
			} else {
				mockRepo.On("GetUserByEmail", mock.Anything, testCase.email).
					Return(nil, errors.New("not found")).Once()
			}

			svc := auth.NewAuthService(mockRepo)
			identity, err := svc.SignIn(context.Background(), testCase.email, testCase.password)

			if testCase.wantErr {
				assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
				assert.Nil(t, identity)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "u1", identity.ID)
			}
		})
	}
}

func TestGate_Verify(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		attempt    string
		wantErr    bool
	}{
		{name: "correct PIN", configured: "4321", attempt: "4321"},
		{name: "wrong PIN", configured: "4321", attempt: "0000", wantErr: true},
		{name: "wrong length", configured: "4321", attempt: "43210", wantErr: true},
		{name: "empty attempt", configured: "4321", attempt: "", wantErr: true},
		{name: "placeholder default", configured: "", attempt: auth.DefaultOwnerPIN},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			gate := auth.NewGate(testCase.configured)
			err := gate.Verify(testCase.attempt)
			if testCase.wantErr {
				assert.ErrorIs(t, err, auth.ErrPINMismatch)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGate_WrongPINOnlyReprompts(t *testing.T) {
	gate := auth.NewGate("4321")
	for i := 0; i < 10; i++ {
		assert.Error(t, gate.Verify("0000"))
	}
	// no lockout: the correct PIN still passes after repeated failures
	assert.NoError(t, gate.Verify("4321"))
}
