package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

func newTestAttendanceService(t *testing.T) (*AttendanceService, *fixture) {
	t.Helper()
	f := newFixture(t)
	f.seedUsers(t,
		models.User{ID: 1, Name: "Admin User", Email: "admin@example.com", Role: models.RoleAdmin},
		models.User{ID: 2, Name: "John Doe", Email: "emp@example.com", Role: models.RoleEmployee},
	)
	return NewAttendanceService(f.attendance, f.users, f.cache, f.clock.Clock(), nil), f
}

func TestAttendanceCheckInTwiceSameDay(t *testing.T) {
	svc, f := newTestAttendanceService(t)

	record, err := svc.CheckIn(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, record.ID)
	assert.Equal(t, "2024-01-15", record.Date)
	require.NotNil(t, record.CheckIn)
	assert.True(t, record.CheckIn.Equal(fixtureNow))
	assert.Nil(t, record.CheckOut)

	f.clock.advance(2 * time.Hour)
	_, err = svc.CheckIn(context.Background(), 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrAlreadyCheckedIn))
	assert.Equal(t, "Already checked in today", appErrors.FromError(err).Message)

	records, err := f.attendance.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, f.cache.count())
}

func TestAttendanceCheckInNextDay(t *testing.T) {
	svc, f := newTestAttendanceService(t)

	_, err := svc.CheckIn(context.Background(), 2)
	require.NoError(t, err)
	f.clock.advance(24 * time.Hour)
	record, err := svc.CheckIn(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, record.ID)
	assert.Equal(t, "2024-01-16", record.Date)
}

func TestAttendanceCheckInFillsEmptyDayRecord(t *testing.T) {
	svc, f := newTestAttendanceService(t)
	f.seedAttendance(t, models.AttendanceRecord{ID: 7, UserID: 2, Date: "2024-01-15"})

	record, err := svc.CheckIn(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 7, record.ID)
	assert.NotNil(t, record.CheckIn)

	records, err := f.attendance.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAttendanceCheckOutRules(t *testing.T) {
	svc, f := newTestAttendanceService(t)

	_, err := svc.CheckOut(context.Background(), 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotCheckedIn))
	assert.Equal(t, "Must check in first", appErrors.FromError(err).Message)

	_, err = svc.CheckIn(context.Background(), 2)
	require.NoError(t, err)
	f.clock.advance(8 * time.Hour)

	record, err := svc.CheckOut(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, record.CheckOut)
	assert.True(t, record.CheckOut.Equal(fixtureNow.Add(8*time.Hour)))
	assert.True(t, record.Completed())

	_, err = svc.CheckOut(context.Background(), 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrAlreadyCheckedOut))
	assert.Equal(t, "Already checked out today", appErrors.FromError(err).Message)
}

func TestAttendanceCheckOutYesterdayDoesNotCount(t *testing.T) {
	svc, f := newTestAttendanceService(t)

	_, err := svc.CheckIn(context.Background(), 2)
	require.NoError(t, err)
	f.clock.advance(24 * time.Hour)

	_, err = svc.CheckOut(context.Background(), 2)
	assert.True(t, errors.Is(err, appErrors.ErrNotCheckedIn))
}

func TestAttendanceRejectsInvalidUser(t *testing.T) {
	svc, _ := newTestAttendanceService(t)

	_, err := svc.CheckIn(context.Background(), 0)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	_, err = svc.CheckOut(context.Background(), -1)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAttendanceTodayStatus(t *testing.T) {
	svc, _ := newTestAttendanceService(t)

	status, err := svc.TodayStatus(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceRecord{UserID: 2, Date: "2024-01-15"}, *status)

	_, err = svc.CheckIn(context.Background(), 2)
	require.NoError(t, err)

	status, err = svc.TodayStatus(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, status.ID)
	assert.NotNil(t, status.CheckIn)
}

func TestAttendanceDayBoundaryUsesClockLocation(t *testing.T) {
	f := newFixture(t)
	wib := time.FixedZone("WIB", 7*60*60)
	instant := time.Date(2024, time.January, 15, 20, 0, 0, 0, time.UTC)
	svc := NewAttendanceService(f.attendance, f.users, nil, NewClock(func() time.Time { return instant }, wib), nil)

	record, err := svc.CheckIn(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-16", record.Date)
}

func TestAttendanceListAllJoinsNames(t *testing.T) {
	svc, f := newTestAttendanceService(t)
	f.seedAttendance(t,
		models.AttendanceRecord{ID: 1, UserID: 2, Date: "2024-01-14", CheckIn: at(fixtureNow)},
		models.AttendanceRecord{ID: 2, UserID: 9, Date: "2024-01-14", CheckIn: at(fixtureNow)},
	)

	views, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "John Doe", views[0].UserName)
	assert.Equal(t, "Unknown", views[1].UserName)
}

func TestAttendanceHistoryNewestFirst(t *testing.T) {
	svc, f := newTestAttendanceService(t)
	f.seedAttendance(t,
		models.AttendanceRecord{ID: 1, UserID: 2, Date: "2024-01-10"},
		models.AttendanceRecord{ID: 2, UserID: 1, Date: "2024-01-11"},
		models.AttendanceRecord{ID: 3, UserID: 2, Date: "2024-01-12"},
	)

	views, err := svc.History(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "2024-01-12", views[0].Date)
	assert.Equal(t, "2024-01-10", views[1].Date)
}

func TestAttendanceConcurrentCheckInsKeepEveryUpdate(t *testing.T) {
	svc, f := newTestAttendanceService(t)
	const users = 25

	var wg sync.WaitGroup
	for id := 1; id <= users; id++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			_, err := svc.CheckIn(context.Background(), userID)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	records, err := f.attendance.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, users)
}
