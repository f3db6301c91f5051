package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

func newTestAuthService(t *testing.T) (*AuthService, *fixture) {
	t.Helper()
	f := newFixture(t)
	f.seedUsers(t, models.User{
		ID:           1,
		Name:         "Admin User",
		Email:        "admin@example.com",
		PasswordHash: f.hash(t, "password"),
		Role:         models.RoleAdmin,
		Department:   "Management",
	})
	svc := NewAuthService(f.users, f.credentials, newTestTokenService(f.clock), f.cache, nil, nil)
	return svc, f
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, _ := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 1, resp.User.ID)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	claims, err := svc.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Subject)
}

func TestAuthServiceLoginInvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)

	cases := []models.LoginRequest{
		{Email: "admin@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "password"},
		{Email: "ADMIN@example.com", Password: "password"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials), req.Email)
		assert.Equal(t, "Invalid email or password", appErrors.FromError(err).Message)
	}
}

func TestAuthServiceLoginValidation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceRegister(t *testing.T) {
	svc, f := newTestAuthService(t)

	user, err := svc.Register(context.Background(), models.RegisterRequest{Email: "new.hire@example.com", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, 2, user.ID)
	assert.Equal(t, "new.hire", user.Name)
	assert.Equal(t, models.RoleEmployee, user.Role)
	assert.Equal(t, models.DefaultDepartment, user.Department)

	stored, err := f.users.FindByID(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, f.credentials.VerifyPassword("hunter2", stored.PasswordHash))

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "new.hire@example.com", Password: "hunter2"})
	assert.NoError(t, err)
	assert.Equal(t, 1, f.cache.count())
}

func TestAuthServiceRegisterDuplicate(t *testing.T) {
	svc, f := newTestAuthService(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "admin@example.com", Password: "x"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateEmail.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Email already registered", appErr.Message)

	users, err := f.users.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Zero(t, f.cache.count())
}

func TestAuthServiceRegisterRejectsOverlongPassword(t *testing.T) {
	svc, f := newTestAuthService(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "long@example.com", Password: strings.Repeat("x", 80)})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)

	_, err = svc.Register(context.Background(), models.RegisterRequest{Email: "edge@example.com", Password: strings.Repeat("x", 72)})
	require.NoError(t, err)

	users, err := f.users.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestAuthServiceMe(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, err := svc.Me(context.Background(), &models.JWTClaims{UserID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)

	_, err = svc.Me(context.Background(), &models.JWTClaims{UserID: 42})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Me(context.Background(), nil)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
