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

func newTestUserService(t *testing.T) (*UserService, *fixture) {
	t.Helper()
	f := newFixture(t)
	f.seedUsers(t,
		models.User{ID: 1, Name: "Admin User", Email: "admin@example.com", PasswordHash: f.hash(t, "password"), Role: models.RoleAdmin, Department: "Management"},
		models.User{ID: 2, Name: "John Doe", Email: "emp@example.com", PasswordHash: f.hash(t, "password"), Role: models.RoleEmployee, Department: "Engineering"},
	)
	return NewUserService(f.users, f.credentials, f.cache, nil, nil), f
}

func TestUserServiceListOmitsPasswords(t *testing.T) {
	svc, _ := newTestUserService(t)

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin@example.com", users[0].Email)
}

func TestUserServiceGetNotFound(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, "User not found", appErrors.FromError(err).Message)
}

func TestUserServiceCreate(t *testing.T) {
	svc, f := newTestUserService(t)

	created, err := svc.Create(context.Background(), models.CreateUserRequest{
		Name:     "Jane Smith",
		Email:    "jane@example.com",
		Password: "secret",
		Role:     models.RoleEmployee,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, created.ID)
	assert.Equal(t, models.DefaultDepartment, created.Department)
	assert.Equal(t, 1, f.cache.count())

	fetched, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, *created, *fetched)

	stored, err := f.users.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, f.credentials.VerifyPassword("secret", stored.PasswordHash))
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	svc, f := newTestUserService(t)

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Name:     "Impostor",
		Email:    "emp@example.com",
		Password: "secret",
		Role:     models.RoleEmployee,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateEmail))
	assert.Equal(t, "Email already exists", appErrors.FromError(err).Message)
	assert.Zero(t, f.cache.count())
}

func TestUserServiceCreateEmailIsCaseSensitive(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Name:     "Upper",
		Email:    "EMP@example.com",
		Password: "secret",
		Role:     models.RoleEmployee,
	})
	assert.NoError(t, err)
}

func TestUserServiceCreateRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Name:     "Root",
		Email:    "root@example.com",
		Password: "secret",
		Role:     models.UserRole("superuser"),
	})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestUserServiceCreateRejectsOverlongPassword(t *testing.T) {
	svc, f := newTestUserService(t)

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Name:     "Verbose",
		Email:    "verbose@example.com",
		Password: strings.Repeat("x", 80),
		Role:     models.RoleEmployee,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Zero(t, f.cache.count())
}

func TestUserServiceUpdate(t *testing.T) {
	svc, f := newTestUserService(t)
	before, err := f.users.FindByID(context.Background(), 2)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), 2, models.UpdateUserRequest{
		Name:       "John Q. Doe",
		Email:      "emp@example.com",
		Role:       models.RoleAdmin,
		Department: "Platform",
	})
	require.NoError(t, err)
	assert.Equal(t, "John Q. Doe", updated.Name)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.Equal(t, "Platform", updated.Department)

	after, err := f.users.FindByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
}

func TestUserServiceUpdateErrors(t *testing.T) {
	svc, _ := newTestUserService(t)
	req := models.UpdateUserRequest{Name: "X", Email: "admin@example.com", Role: models.RoleEmployee}

	_, err := svc.Update(context.Background(), 2, req)
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateEmail))

	_, err = svc.Update(context.Background(), 99, req)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestUserServiceDelete(t *testing.T) {
	svc, _ := newTestUserService(t)

	removed, err := svc.Delete(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, "emp@example.com", removed.Email)

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 1, users[0].ID)
}

func TestUserServiceDeleteErrors(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Delete(context.Background(), 1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrSelfDeletion))
	assert.Equal(t, "Cannot delete yourself", appErrors.FromError(err).Message)

	_, err = svc.Delete(context.Background(), 99, 1)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserServiceIDsAreNotReusedBelowMax(t *testing.T) {
	svc, _ := newTestUserService(t)
	req := func(email string) models.CreateUserRequest {
		return models.CreateUserRequest{Name: email, Email: email, Password: "x", Role: models.RoleEmployee}
	}

	third, err := svc.Create(context.Background(), req("a@example.com"))
	require.NoError(t, err)
	_, err = svc.Delete(context.Background(), 2, 1)
	require.NoError(t, err)
	fourth, err := svc.Create(context.Background(), req("b@example.com"))
	require.NoError(t, err)

	assert.Equal(t, 3, third.ID)
	assert.Equal(t, 4, fourth.ID)
}
