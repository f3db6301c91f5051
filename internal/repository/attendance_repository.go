package repository

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	"github.com/noah-isme/smart-attendance-api/pkg/storage"
)

// AttendanceRepository provides access to the attendance collection.
type AttendanceRepository struct {
	*Collection[models.AttendanceRecord]
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(store storage.Store, logger *zap.Logger, metrics StorageObserver) *AttendanceRepository {
	return &AttendanceRepository{Collection: NewCollection[models.AttendanceRecord](CollectionAttendance, store, logger, metrics)}
}

// List returns all attendance records.
func (r *AttendanceRepository) List(ctx context.Context) ([]models.AttendanceRecord, error) {
	return r.Load(ctx)
}

// FindDay returns the record for a user on a calendar day.
func (r *AttendanceRepository) FindDay(ctx context.Context, userID int, date string) (*models.AttendanceRecord, error) {
	records, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if idx := IndexDay(records, userID, date); idx >= 0 {
		return &records[idx], nil
	}
	return nil, ErrNotFound
}

// ListByUser returns a user's records, most recent day first.
func (r *AttendanceRepository) ListByUser(ctx context.Context, userID int) ([]models.AttendanceRecord, error) {
	records, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.AttendanceRecord, 0)
	for _, rec := range records {
		if rec.UserID == userID {
			result = append(result, rec)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})
	return result, nil
}

// IndexDay returns the position of the (user, date) record, or -1.
func IndexDay(records []models.AttendanceRecord, userID int, date string) int {
	for i := range records {
		if records[i].UserID == userID && records[i].Date == date {
			return i
		}
	}
	return -1
}
