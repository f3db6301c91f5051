package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	"github.com/noah-isme/smart-attendance-api/internal/repository"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

type leaveRepository interface {
	ListByUser(ctx context.Context, userID int) ([]models.LeaveRequest, error)
	ListByStatus(ctx context.Context, status models.LeaveStatus) ([]models.LeaveRequest, error)
	Mutate(ctx context.Context, fn func([]models.LeaveRequest) ([]models.LeaveRequest, error)) error
}

// LeaveService manages the leave request lifecycle. A request leaves the
// pending state exactly once.
type LeaveService struct {
	repo      leaveRepository
	users     userNameIndex
	cache     cacheInvalidator
	clock     Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs a LeaveService.
func NewLeaveService(repo leaveRepository, users userNameIndex, cache cacheInvalidator, clock Clock, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LeaveService{repo: repo, users: users, cache: cache, clock: clock, validator: validate, logger: logger}
}

// Request submits a new pending leave request.
func (s *LeaveService) Request(ctx context.Context, req models.CreateLeaveRequest) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}
	start, err := time.Parse(models.DateLayout, req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(models.DateLayout, req.EndDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrInvalidLeavePeriod, "")
	}

	var created models.LeaveRequest
	err = s.repo.Mutate(ctx, func(leaves []models.LeaveRequest) ([]models.LeaveRequest, error) {
		created = models.LeaveRequest{
			ID:        repository.NextID(leaves),
			UserID:    req.UserID,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Reason:    req.Reason,
			Status:    models.LeaveStatusPending,
			CreatedAt: s.clock.Now(),
		}
		return append(leaves, created), nil
	})
	if err != nil {
		return nil, wrapStorageError(err, "failed to submit leave request")
	}

	invalidateDashboard(ctx, s.cache)
	s.logger.Info("leave requested", zap.Int("leave_id", created.ID), zap.Int("user_id", created.UserID))
	return &created, nil
}

// ListForUser returns every request submitted by userID.
func (s *LeaveService) ListForUser(ctx context.Context, userID int) ([]models.LeaveRequest, error) {
	leaves, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave requests")
	}
	return leaves, nil
}

// ListPending returns pending requests with the requester's name.
func (s *LeaveService) ListPending(ctx context.Context) ([]models.LeaveView, error) {
	leaves, err := s.repo.ListByStatus(ctx, models.LeaveStatusPending)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave requests")
	}
	names, err := s.users.NameIndex(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}
	views := make([]models.LeaveView, 0, len(leaves))
	for _, l := range leaves {
		name, ok := names[l.UserID]
		if !ok {
			name = unknownUserName
		}
		views = append(views, models.LeaveView{LeaveRequest: l, UserName: name})
	}
	return views, nil
}

// Approve moves a pending request to approved.
func (s *LeaveService) Approve(ctx context.Context, id int) (*models.LeaveRequest, error) {
	return s.decide(ctx, id, models.LeaveStatusApproved)
}

// Reject moves a pending request to rejected.
func (s *LeaveService) Reject(ctx context.Context, id int) (*models.LeaveRequest, error) {
	return s.decide(ctx, id, models.LeaveStatusRejected)
}

func (s *LeaveService) decide(ctx context.Context, id int, status models.LeaveStatus) (*models.LeaveRequest, error) {
	now := s.clock.Now()
	var result models.LeaveRequest
	err := s.repo.Mutate(ctx, func(leaves []models.LeaveRequest) ([]models.LeaveRequest, error) {
		idx := repository.IndexByID(leaves, id)
		if idx < 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Leave request not found")
		}
		if leaves[idx].Status != models.LeaveStatusPending {
			return nil, appErrors.Clone(appErrors.ErrLeaveNotPending, "")
		}
		leaves[idx].Status = status
		switch status {
		case models.LeaveStatusApproved:
			leaves[idx].ApprovedAt = timePtr(now)
		case models.LeaveStatusRejected:
			leaves[idx].RejectedAt = timePtr(now)
		}
		result = leaves[idx]
		return leaves, nil
	})
	if err != nil {
		return nil, wrapStorageError(err, "failed to update leave request")
	}

	invalidateDashboard(ctx, s.cache)
	s.logger.Info("leave decided", zap.Int("leave_id", id), zap.String("status", string(status)))
	return &result, nil
}
