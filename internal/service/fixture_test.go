package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	"github.com/noah-isme/smart-attendance-api/internal/repository"
	"github.com/noah-isme/smart-attendance-api/pkg/storage"
)

type fixture struct {
	store       *storage.MemoryStore
	users       *repository.UserRepository
	attendance  *repository.AttendanceRepository
	leaves      *repository.LeaveRepository
	credentials *Credentials
	clock       *mutableClock
	cache       *recordingInvalidator
}

// mutableClock lets tests move time forward between calls.
type mutableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *mutableClock) get() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mutableClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *mutableClock) Clock() Clock {
	return NewClock(c.get, c.now.Location())
}

type recordingInvalidator struct {
	mu       sync.Mutex
	patterns []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, pattern string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns = append(r.patterns, pattern)
	return nil
}

func (r *recordingInvalidator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.patterns)
}

var fixtureNow = time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewMemoryStore()
	return &fixture{
		store:       store,
		users:       repository.NewUserRepository(store, nil, nil),
		attendance:  repository.NewAttendanceRepository(store, nil, nil),
		leaves:      repository.NewLeaveRepository(store, nil, nil),
		credentials: NewCredentials(bcrypt.MinCost),
		clock:       &mutableClock{now: fixtureNow},
		cache:       &recordingInvalidator{},
	}
}

func (f *fixture) seedUsers(t *testing.T, users ...models.User) {
	t.Helper()
	require.NoError(t, f.users.Mutate(context.Background(), func([]models.User) ([]models.User, error) {
		return users, nil
	}))
}

func (f *fixture) seedAttendance(t *testing.T, records ...models.AttendanceRecord) {
	t.Helper()
	require.NoError(t, f.attendance.Mutate(context.Background(), func([]models.AttendanceRecord) ([]models.AttendanceRecord, error) {
		return records, nil
	}))
}

func (f *fixture) seedLeaves(t *testing.T, leaves ...models.LeaveRequest) {
	t.Helper()
	require.NoError(t, f.leaves.Mutate(context.Background(), func([]models.LeaveRequest) ([]models.LeaveRequest, error) {
		return leaves, nil
	}))
}

func (f *fixture) hash(t *testing.T, password string) string {
	t.Helper()
	hash, err := f.credentials.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func at(t time.Time) *time.Time {
	return &t
}
