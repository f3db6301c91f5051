package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/models"
)

// SeedPassword is the password of every demo account.
const SeedPassword = "password"

type collectionSeeder[T any] interface {
	Seed(ctx context.Context, records []T) (bool, error)
}

// SeedService populates empty collections with demo accounts and requests.
// Collections that already exist are left untouched.
type SeedService struct {
	users       collectionSeeder[models.User]
	attendance  collectionSeeder[models.AttendanceRecord]
	leaves      collectionSeeder[models.LeaveRequest]
	credentials passwordHasher
	clock       Clock
	logger      *zap.Logger
}

// NewSeedService constructs a SeedService.
func NewSeedService(users collectionSeeder[models.User], attendance collectionSeeder[models.AttendanceRecord], leaves collectionSeeder[models.LeaveRequest], credentials passwordHasher, clock Clock, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{users: users, attendance: attendance, leaves: leaves, credentials: credentials, clock: clock, logger: logger}
}

// Run seeds each collection that has never been written.
func (s *SeedService) Run(ctx context.Context) error {
	hash, err := s.credentials.HashPassword(SeedPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	users := []models.User{
		{ID: 1, Name: "Admin User", Email: "admin@example.com", PasswordHash: hash, Role: models.RoleAdmin, Department: "Management"},
		{ID: 2, Name: "John Doe", Email: "emp@example.com", PasswordHash: hash, Role: models.RoleEmployee, Department: "Engineering"},
		{ID: 3, Name: "Jane Smith", Email: "jane@example.com", PasswordHash: hash, Role: models.RoleEmployee, Department: "HR"},
	}
	if seeded, err := s.users.Seed(ctx, users); err != nil {
		return err
	} else if seeded {
		s.logger.Info("seeded collection", zap.String("collection", "users"), zap.Int("records", len(users)))
	}

	if seeded, err := s.attendance.Seed(ctx, []models.AttendanceRecord{}); err != nil {
		return err
	} else if seeded {
		s.logger.Info("seeded collection", zap.String("collection", "attendance"), zap.Int("records", 0))
	}

	now := s.clock.Now()
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format(models.DateLayout) }
	leaves := []models.LeaveRequest{
		{ID: 1, UserID: 2, StartDate: day(5), EndDate: day(7), Reason: "Annual vacation", Status: models.LeaveStatusPending, CreatedAt: now},
		{ID: 2, UserID: 3, StartDate: day(3), EndDate: day(4), Reason: "Medical appointment", Status: models.LeaveStatusPending, CreatedAt: now},
	}
	if seeded, err := s.leaves.Seed(ctx, leaves); err != nil {
		return err
	} else if seeded {
		s.logger.Info("seeded collection", zap.String("collection", "leaves"), zap.Int("records", len(leaves)))
	}
	return nil
}
