package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	"github.com/noah-isme/smart-attendance-api/pkg/storage"
)

// LeaveRepository provides access to the leaves collection.
type LeaveRepository struct {
	*Collection[models.LeaveRequest]
}

// NewLeaveRepository creates a new instance of LeaveRepository.
func NewLeaveRepository(store storage.Store, logger *zap.Logger, metrics StorageObserver) *LeaveRepository {
	return &LeaveRepository{Collection: NewCollection[models.LeaveRequest](CollectionLeaves, store, logger, metrics)}
}

// List returns every leave request.
func (r *LeaveRepository) List(ctx context.Context) ([]models.LeaveRequest, error) {
	return r.Load(ctx)
}

// ListByUser returns the requests submitted by one user.
func (r *LeaveRepository) ListByUser(ctx context.Context, userID int) ([]models.LeaveRequest, error) {
	return r.filter(ctx, func(l models.LeaveRequest) bool { return l.UserID == userID })
}

// ListByStatus returns the requests currently in the given status.
func (r *LeaveRepository) ListByStatus(ctx context.Context, status models.LeaveStatus) ([]models.LeaveRequest, error) {
	return r.filter(ctx, func(l models.LeaveRequest) bool { return l.Status == status })
}

func (r *LeaveRepository) filter(ctx context.Context, keep func(models.LeaveRequest) bool) ([]models.LeaveRequest, error) {
	leaves, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.LeaveRequest, 0, len(leaves))
	for _, l := range leaves {
		if keep(l) {
			result = append(result, l)
		}
	}
	return result, nil
}
