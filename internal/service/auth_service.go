package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	"github.com/noah-isme/smart-attendance-api/internal/repository"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	Mutate(ctx context.Context, fn func([]models.User) ([]models.User, error)) error
}

type passwordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool
}

// AuthService provides authentication use cases.
type AuthService struct {
	repo        authUserRepository
	credentials passwordHasher
	tokens      *TokenService
	cache       cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, credentials passwordHasher, tokens *TokenService, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, credentials: credentials, tokens: tokens, cache: cache, validator: validate, logger: logger}
}

// Login authenticates a user and returns a bearer token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if !s.credentials.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	token, expiresAt, err := s.tokens.Issue(user.Email, user.ID, user.Role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.logger.Info("user logged in", zap.Int("user_id", user.ID))

	return &models.LoginResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresAt: expiresAt,
		User:      user.Public(),
	}, nil
}

// Register creates a self-service employee account. The display name is the
// local part of the email address.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.PublicUser, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	hash, err := s.credentials.HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	var created models.User
	err = s.repo.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		if repository.IndexByEmail(users, req.Email) >= 0 {
			return nil, appErrors.Clone(appErrors.ErrDuplicateEmail, "Email already registered")
		}
		created = models.User{
			ID:           repository.NextID(users),
			Name:         localPart(req.Email),
			Email:        req.Email,
			PasswordHash: hash,
			Role:         models.RoleEmployee,
			Department:   models.DefaultDepartment,
		}
		return append(users, created), nil
	})
	if err != nil {
		return nil, wrapStorageError(err, "failed to register user")
	}

	invalidateDashboard(ctx, s.cache)
	s.logger.Info("user registered", zap.Int("user_id", created.ID))
	public := created.Public()
	return &public, nil
}

// Me resolves the account behind a verified token.
func (s *AuthService) Me(ctx context.Context, claims *models.JWTClaims) (*models.PublicUser, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	public := user.Public()
	return &public, nil
}

func localPart(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return email
}

// wrapStorageError passes domain errors through and wraps anything else as internal.
func wrapStorageError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
