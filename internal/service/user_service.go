package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	"github.com/noah-isme/smart-attendance-api/internal/repository"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	Mutate(ctx context.Context, fn func([]models.User) ([]models.User, error)) error
}

// UserService manages the user directory.
type UserService struct {
	repo        userRepository
	credentials passwordHasher
	cache       cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, credentials passwordHasher, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, credentials: credentials, cache: cache, validator: validate, logger: logger}
}

// List returns every user without credentials.
func (s *UserService) List(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	result := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result, nil
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, id int) (*models.PublicUser, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, userNotFound()
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	public := user.Public()
	return &public, nil
}

// Create adds a user after checking the email is not taken.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.PublicUser, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	hash, err := s.credentials.HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	var created models.User
	err = s.repo.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		if repository.IndexByEmail(users, req.Email) >= 0 {
			return nil, appErrors.Clone(appErrors.ErrDuplicateEmail, "")
		}
		created = models.User{
			ID:           repository.NextID(users),
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         req.Role,
			Department:   departmentOrDefault(req.Department),
		}
		return append(users, created), nil
	})
	if err != nil {
		return nil, wrapStorageError(err, "failed to create user")
	}

	invalidateDashboard(ctx, s.cache)
	s.logger.Info("user created", zap.Int("user_id", created.ID), zap.String("role", string(created.Role)))
	public := created.Public()
	return &public, nil
}

// Update overwrites profile fields; the stored password hash is kept.
func (s *UserService) Update(ctx context.Context, id int, req models.UpdateUserRequest) (*models.PublicUser, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	var updated models.User
	err := s.repo.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		idx := repository.IndexByID(users, id)
		if idx < 0 {
			return nil, userNotFound()
		}
		if other := repository.IndexByEmail(users, req.Email); other >= 0 && users[other].ID != id {
			return nil, appErrors.Clone(appErrors.ErrDuplicateEmail, "")
		}
		users[idx].Name = req.Name
		users[idx].Email = req.Email
		users[idx].Role = req.Role
		users[idx].Department = departmentOrDefault(req.Department)
		updated = users[idx]
		return users, nil
	})
	if err != nil {
		return nil, wrapStorageError(err, "failed to update user")
	}

	invalidateDashboard(ctx, s.cache)
	public := updated.Public()
	return &public, nil
}

// Delete removes a user. Administrators cannot remove their own account.
func (s *UserService) Delete(ctx context.Context, id, actorID int) (*models.PublicUser, error) {
	var removed models.User
	err := s.repo.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		idx := repository.IndexByID(users, id)
		if idx < 0 {
			return nil, userNotFound()
		}
		if id == actorID {
			return nil, appErrors.Clone(appErrors.ErrSelfDeletion, "")
		}
		removed = users[idx]
		return append(users[:idx], users[idx+1:]...), nil
	})
	if err != nil {
		return nil, wrapStorageError(err, "failed to delete user")
	}

	invalidateDashboard(ctx, s.cache)
	s.logger.Info("user deleted", zap.Int("user_id", id), zap.Int("actor_id", actorID))
	public := removed.Public()
	return &public, nil
}

func userNotFound() *appErrors.Error {
	return appErrors.Clone(appErrors.ErrNotFound, "User not found")
}

func departmentOrDefault(department string) string {
	if department == "" {
		return models.DefaultDepartment
	}
	return department
}
