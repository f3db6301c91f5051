package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	"github.com/noah-isme/smart-attendance-api/internal/repository"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

// unknownUserName labels joined rows whose user no longer exists.
const unknownUserName = "Unknown"

type attendanceRepository interface {
	List(ctx context.Context) ([]models.AttendanceRecord, error)
	FindDay(ctx context.Context, userID int, date string) (*models.AttendanceRecord, error)
	ListByUser(ctx context.Context, userID int) ([]models.AttendanceRecord, error)
	Mutate(ctx context.Context, fn func([]models.AttendanceRecord) ([]models.AttendanceRecord, error)) error
}

type userNameIndex interface {
	NameIndex(ctx context.Context) (map[int]string, error)
}

// AttendanceService enforces one check-in and one check-out per user per day.
type AttendanceService struct {
	repo   attendanceRepository
	users  userNameIndex
	cache  cacheInvalidator
	clock  Clock
	logger *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, users userNameIndex, cache cacheInvalidator, clock Clock, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, users: users, cache: cache, clock: clock, logger: logger}
}

// CheckIn records the first arrival of the day.
func (s *AttendanceService) CheckIn(ctx context.Context, userID int) (*models.AttendanceRecord, error) {
	if userID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id must be positive")
	}
	now := s.clock.Now()
	today := now.Format(models.DateLayout)

	var result models.AttendanceRecord
	err := s.repo.Mutate(ctx, func(records []models.AttendanceRecord) ([]models.AttendanceRecord, error) {
		if idx := repository.IndexDay(records, userID, today); idx >= 0 {
			if records[idx].CheckedIn() {
				return nil, appErrors.Clone(appErrors.ErrAlreadyCheckedIn, "")
			}
			records[idx].CheckIn = timePtr(now)
			result = records[idx]
			return records, nil
		}
		result = models.AttendanceRecord{
			ID:      repository.NextID(records),
			UserID:  userID,
			Date:    today,
			CheckIn: timePtr(now),
		}
		return append(records, result), nil
	})
	if err != nil {
		return nil, wrapStorageError(err, "failed to record check-in")
	}

	invalidateDashboard(ctx, s.cache)
	s.logger.Info("checked in", zap.Int("user_id", userID), zap.String("date", today))
	return &result, nil
}

// CheckOut records departure after a check-in on the same day.
func (s *AttendanceService) CheckOut(ctx context.Context, userID int) (*models.AttendanceRecord, error) {
	if userID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id must be positive")
	}
	now := s.clock.Now()
	today := now.Format(models.DateLayout)

	var result models.AttendanceRecord
	err := s.repo.Mutate(ctx, func(records []models.AttendanceRecord) ([]models.AttendanceRecord, error) {
		idx := repository.IndexDay(records, userID, today)
		if idx < 0 || !records[idx].CheckedIn() {
			return nil, appErrors.Clone(appErrors.ErrNotCheckedIn, "")
		}
		if records[idx].CheckOut != nil {
			return nil, appErrors.Clone(appErrors.ErrAlreadyCheckedOut, "")
		}
		records[idx].CheckOut = timePtr(now)
		result = records[idx]
		return records, nil
	})
	if err != nil {
		return nil, wrapStorageError(err, "failed to record check-out")
	}

	invalidateDashboard(ctx, s.cache)
	s.logger.Info("checked out", zap.Int("user_id", userID), zap.String("date", today))
	return &result, nil
}

// TodayStatus returns today's record, or an empty placeholder with id 0.
func (s *AttendanceService) TodayStatus(ctx context.Context, userID int) (*models.AttendanceRecord, error) {
	today := s.clock.Today()
	record, err := s.repo.FindDay(ctx, userID, today)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	return &models.AttendanceRecord{UserID: userID, Date: today}, nil
}

// ListAll returns every record joined with its owner's name.
func (s *AttendanceService) ListAll(ctx context.Context) ([]models.AttendanceView, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	return s.join(ctx, records)
}

// History returns one user's records, newest day first.
func (s *AttendanceService) History(ctx context.Context, userID int) ([]models.AttendanceView, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	return s.join(ctx, records)
}

func (s *AttendanceService) join(ctx context.Context, records []models.AttendanceRecord) ([]models.AttendanceView, error) {
	names, err := s.users.NameIndex(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}
	views := make([]models.AttendanceView, 0, len(records))
	for _, r := range records {
		name, ok := names[r.UserID]
		if !ok {
			name = unknownUserName
		}
		views = append(views, models.AttendanceView{AttendanceRecord: r, UserName: name})
	}
	return views, nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
