package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/dto"
	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
	"github.com/noah-isme/smart-attendance-api/pkg/export"
)

const (
	// WorkingDaysPerMonth is the flat working-day assumption behind monthly absences.
	WorkingDaysPerMonth = 20
	defaultChartDays    = 7
	maxChartDays        = 90
)

type dashboardUserSource interface {
	List(ctx context.Context) ([]models.User, error)
}

type dashboardAttendanceSource interface {
	List(ctx context.Context) ([]models.AttendanceRecord, error)
}

type dashboardLeaveSource interface {
	List(ctx context.Context) ([]models.LeaveRequest, error)
}

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DashboardService computes read-only reports over users, attendance and leaves.
type DashboardService struct {
	users      dashboardUserSource
	attendance dashboardAttendanceSource
	leaves     dashboardLeaveSource
	cache      dashboardCache
	cacheTTL   time.Duration
	clock      Clock
	logger     *zap.Logger
}

// NewDashboardService constructs a DashboardService. cache may be nil.
func NewDashboardService(users dashboardUserSource, attendance dashboardAttendanceSource, leaves dashboardLeaveSource, cache dashboardCache, cacheTTL time.Duration, clock Clock, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		users:      users,
		attendance: attendance,
		leaves:     leaves,
		cache:      cache,
		cacheTTL:   cacheTTL,
		clock:      clock,
		logger:     logger,
	}
}

// Stats returns headline counts for today and the current month.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStats, bool, error) {
	today := s.clock.Today()
	key := DashboardKey("stats", today)
	var cached dto.DashboardStats
	if s.cacheGet(ctx, key, &cached) {
		return &cached, true, nil
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	stats := dto.DashboardStats{Departments: make(map[string]dto.DepartmentStats)}
	stats.TotalUsers = len(snap.users)
	for _, u := range snap.users {
		switch u.Role {
		case models.RoleEmployee:
			stats.TotalEmployees++
		case models.RoleAdmin:
			stats.TotalAdmins++
		}
	}

	checkedInToday := make(map[int]bool)
	for _, a := range snap.attendance {
		if a.Date != today {
			continue
		}
		if a.CheckedIn() {
			stats.Today.TotalCheckedIn++
			checkedInToday[a.UserID] = true
		}
		if a.Completed() {
			stats.Today.Present++
		}
	}
	stats.Today.Absent = nonNegative(stats.TotalEmployees - stats.Today.TotalCheckedIn)

	for _, l := range snap.leaves {
		switch l.Status {
		case models.LeaveStatusPending:
			stats.Leaves.Pending++
		case models.LeaveStatusApproved:
			stats.Leaves.Approved++
		case models.LeaveStatusRejected:
			stats.Leaves.Rejected++
		}
	}
	stats.Leaves.Total = len(snap.leaves)

	now := s.clock.Now()
	monthly := recordsInMonth(snap.attendance, int(now.Month()), now.Year())
	stats.ThisMonth = dto.MonthSummary{
		TotalRecords:    len(monthly),
		UniqueEmployees: countUniqueUsers(monthly),
	}

	for _, u := range snap.users {
		dept := u.Department
		if dept == "" {
			dept = unknownUserName
		}
		entry := stats.Departments[dept]
		entry.Total++
		if checkedInToday[u.ID] {
			entry.Present++
		}
		stats.Departments[dept] = entry
	}

	s.cacheSet(ctx, key, stats)
	return &stats, false, nil
}

// AttendanceChart returns one point per day for the last days days, oldest first.
// days of zero selects the default window.
func (s *DashboardService) AttendanceChart(ctx context.Context, days int) ([]dto.AttendanceChartPoint, bool, error) {
	if days == 0 {
		days = defaultChartDays
	}
	if days < 1 || days > maxChartDays {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("days must be between 1 and %d", maxChartDays))
	}

	now := s.clock.Now()
	key := DashboardKey("attendance-chart", now.Format(models.DateLayout), days)
	var cached []dto.AttendanceChartPoint
	if s.cacheGet(ctx, key, &cached) {
		return cached, true, nil
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	byDate := make(map[string][]models.AttendanceRecord)
	for _, a := range snap.attendance {
		byDate[a.Date] = append(byDate[a.Date], a)
	}

	points := make([]dto.AttendanceChartPoint, 0, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -i).Format(models.DateLayout)
		point := dto.AttendanceChartPoint{Date: date}
		for _, a := range byDate[date] {
			if a.CheckedIn() {
				point.CheckedIn++
			}
			if a.Completed() {
				point.Present++
			}
		}
		point.Absent = nonNegative(len(snap.users) - point.CheckedIn)
		points = append(points, point)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	s.cacheSet(ctx, key, points)
	return points, false, nil
}

// EmployeePerformance ranks employees by attendance rate, highest first.
func (s *DashboardService) EmployeePerformance(ctx context.Context) ([]dto.EmployeePerformance, bool, error) {
	key := DashboardKey("employee-performance", s.clock.Today())
	var cached []dto.EmployeePerformance
	if s.cacheGet(ctx, key, &cached) {
		return cached, true, nil
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	result := make([]dto.EmployeePerformance, 0)
	for _, u := range snap.users {
		if u.Role != models.RoleEmployee {
			continue
		}
		entry := dto.EmployeePerformance{
			UserID:     u.ID,
			Name:       u.Name,
			Email:      u.Email,
			Department: u.Department,
		}
		days := make(map[string]struct{})
		for _, a := range snap.attendance {
			if a.UserID != u.ID {
				continue
			}
			entry.TotalAttendanceRecords++
			days[a.Date] = struct{}{}
			if a.Completed() {
				entry.PresentDays++
			}
		}
		if len(days) > 0 {
			entry.AttendanceRate = round2(float64(entry.PresentDays) / float64(len(days)) * 100)
		}
		for _, l := range snap.leaves {
			if l.UserID != u.ID {
				continue
			}
			switch l.Status {
			case models.LeaveStatusApproved:
				entry.ApprovedLeaves++
			case models.LeaveStatusPending:
				entry.PendingLeaves++
			}
		}
		result = append(result, entry)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].AttendanceRate > result[j].AttendanceRate })

	s.cacheSet(ctx, key, result)
	return result, false, nil
}

// MonthlyReport aggregates a calendar month. Zero month or year selects the current one.
func (s *DashboardService) MonthlyReport(ctx context.Context, month, year int) (*dto.MonthlyReport, bool, error) {
	month, year, err := s.resolvePeriod(month, year)
	if err != nil {
		return nil, false, err
	}

	key := DashboardKey("monthly-report", year, month)
	var cached dto.MonthlyReport
	if s.cacheGet(ctx, key, &cached) {
		return &cached, true, nil
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	monthly := recordsInMonth(snap.attendance, month, year)
	report := dto.MonthlyReport{
		Month:           month,
		Year:            year,
		WorkingDays:     WorkingDaysPerMonth,
		TotalRecords:    len(monthly),
		UniqueEmployees: countUniqueUsers(monthly),
		EmployeeSummary: make([]dto.MonthlyEmployeeSummary, 0),
	}
	checkedIn := 0
	for _, a := range monthly {
		if a.CheckedIn() {
			checkedIn++
		}
		if a.Completed() {
			report.TotalPresent++
		}
	}
	report.TotalAbsent = nonNegative(len(snap.users)*WorkingDaysPerMonth - checkedIn)

	for _, u := range snap.users {
		if u.Role != models.RoleEmployee {
			continue
		}
		line := dto.MonthlyEmployeeSummary{UserID: u.ID, Name: u.Name, Email: u.Email}
		userCheckedIn := 0
		for _, a := range monthly {
			if a.UserID != u.ID {
				continue
			}
			if a.CheckedIn() {
				userCheckedIn++
			}
			if a.Completed() {
				line.Present++
			}
		}
		line.Absent = nonNegative(WorkingDaysPerMonth - userCheckedIn)
		report.EmployeeSummary = append(report.EmployeeSummary, line)
	}

	s.cacheSet(ctx, key, report)
	return &report, false, nil
}

// ExportMonthlyReport renders the monthly report as csv, pdf or xlsx.
func (s *DashboardService) ExportMonthlyReport(ctx context.Context, month, year int, format string) (*dto.ReportFile, error) {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv, pdf or xlsx")
	}

	report, _, err := s.MonthlyReport(ctx, month, year)
	if err != nil {
		return nil, err
	}

	period := fmt.Sprintf("%04d-%02d", report.Year, report.Month)
	dataset := export.Dataset{
		Title:    "Monthly Attendance Report " + period,
		Subtitle: fmt.Sprintf("%d records, %d present, %d absent, %d working days", report.TotalRecords, report.TotalPresent, report.TotalAbsent, report.WorkingDays),
		Columns: []export.Column{
			{Key: "user_id", Label: "ID", Weight: 0.5},
			{Key: "name", Label: "Name", Weight: 2},
			{Key: "email", Label: "Email", Weight: 2.5},
			{Key: "present", Label: "Present"},
			{Key: "absent", Label: "Absent"},
		},
		Rows: make([]map[string]string, 0, len(report.EmployeeSummary)),
	}
	for _, line := range report.EmployeeSummary {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"user_id": strconv.Itoa(line.UserID),
			"name":    line.Name,
			"email":   line.Email,
			"present": strconv.Itoa(line.Present),
			"absent":  strconv.Itoa(line.Absent),
		})
	}

	body, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, err.Error())
	}
	return &dto.ReportFile{
		Filename:    fmt.Sprintf("attendance-%s.%s", period, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

type dashboardSnapshot struct {
	users      []models.User
	attendance []models.AttendanceRecord
	leaves     []models.LeaveRequest
}

// snapshot loads all three collections. Failures surface as 500 with the
// underlying message.
func (s *DashboardService) snapshot(ctx context.Context) (*dashboardSnapshot, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, reportError(err)
	}
	attendance, err := s.attendance.List(ctx)
	if err != nil {
		return nil, reportError(err)
	}
	leaves, err := s.leaves.List(ctx)
	if err != nil {
		return nil, reportError(err)
	}
	return &dashboardSnapshot{users: users, attendance: attendance, leaves: leaves}, nil
}

func (s *DashboardService) resolvePeriod(month, year int) (int, int, error) {
	now := s.clock.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "year is out of range")
	}
	return month, year, nil
}

func (s *DashboardService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	return err == nil && hit
}

func (s *DashboardService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Debug("dashboard cache set skipped", zap.String("key", key), zap.Error(err))
	}
}

func reportError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, err.Error())
}

func recordsInMonth(records []models.AttendanceRecord, month, year int) []models.AttendanceRecord {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	result := make([]models.AttendanceRecord, 0)
	for _, a := range records {
		if len(a.Date) == len(models.DateLayout) && a.Date[:len(prefix)] == prefix {
			result = append(result, a)
		}
	}
	return result
}

func countUniqueUsers(records []models.AttendanceRecord) int {
	seen := make(map[int]struct{}, len(records))
	for _, a := range records {
		seen[a.UserID] = struct{}{}
	}
	return len(seen)
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
