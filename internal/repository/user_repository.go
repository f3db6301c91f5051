package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	"github.com/noah-isme/smart-attendance-api/pkg/storage"
)

// UserRepository provides access to the users collection.
type UserRepository struct {
	*Collection[models.User]
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(store storage.Store, logger *zap.Logger, metrics StorageObserver) *UserRepository {
	return &UserRepository{Collection: NewCollection[models.User](CollectionUsers, store, logger, metrics)}
}

// List returns every user in insertion order.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return r.Load(ctx)
}

// FindByEmail returns the user with the exact email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if idx := IndexByEmail(users, email); idx >= 0 {
		return &users[idx], nil
	}
	return nil, ErrNotFound
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	users, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if idx := IndexByID(users, id); idx >= 0 {
		return &users[idx], nil
	}
	return nil, ErrNotFound
}

// NameIndex maps user ids to display names for joined views.
func (r *UserRepository) NameIndex(ctx context.Context) (map[int]string, error) {
	users, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}

// IndexByID returns the slice position of the record with id, or -1.
func IndexByID[T Record](records []T, id int) int {
	for i := range records {
		if records[i].RecordID() == id {
			return i
		}
	}
	return -1
}

// IndexByEmail returns the position of the user with the exact email, or -1.
func IndexByEmail(users []models.User, email string) int {
	for i := range users {
		if users[i].Email == email {
			return i
		}
	}
	return -1
}
