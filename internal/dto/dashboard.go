package dto

// DashboardStats is the admin overview for the current day and month.
type DashboardStats struct {
	TotalUsers     int                        `json:"total_users"`
	TotalEmployees int                        `json:"total_employees"`
	TotalAdmins    int                        `json:"total_admins"`
	Today          TodaySummary               `json:"today"`
	Leaves         LeaveSummary               `json:"leaves"`
	ThisMonth      MonthSummary               `json:"this_month"`
	Departments    map[string]DepartmentStats `json:"departments"`
}

// TodaySummary counts today's attendance. Present means checked in and out.
type TodaySummary struct {
	Present        int `json:"present"`
	Absent         int `json:"absent"`
	TotalCheckedIn int `json:"total_checked_in"`
}

// LeaveSummary counts leave requests by status.
type LeaveSummary struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

// MonthSummary describes attendance recorded in the current month.
type MonthSummary struct {
	TotalRecords    int `json:"total_records"`
	UniqueEmployees int `json:"unique_employees"`
}

// DepartmentStats counts members and members checked in today.
type DepartmentStats struct {
	Total   int `json:"total"`
	Present int `json:"present"`
}

// AttendanceChartPoint is one day on the attendance chart.
type AttendanceChartPoint struct {
	Date      string `json:"date"`
	Present   int    `json:"present"`
	Absent    int    `json:"absent"`
	CheckedIn int    `json:"checked_in"`
}

// EmployeePerformance summarises one employee's attendance and leave.
type EmployeePerformance struct {
	UserID                 int     `json:"user_id"`
	Name                   string  `json:"name"`
	Email                  string  `json:"email"`
	Department             string  `json:"department"`
	TotalAttendanceRecords int     `json:"total_attendance_records"`
	PresentDays            int     `json:"present_days"`
	AttendanceRate         float64 `json:"attendance_rate"`
	ApprovedLeaves         int     `json:"approved_leaves"`
	PendingLeaves          int     `json:"pending_leaves"`
}

// MonthlyReport aggregates one calendar month.
type MonthlyReport struct {
	Month           int                     `json:"month"`
	Year            int                     `json:"year"`
	WorkingDays     int                     `json:"working_days"`
	TotalRecords    int                     `json:"total_records"`
	UniqueEmployees int                     `json:"unique_employees"`
	TotalPresent    int                     `json:"total_present"`
	TotalAbsent     int                     `json:"total_absent"`
	EmployeeSummary []MonthlyEmployeeSummary `json:"employee_summary"`
}

// MonthlyEmployeeSummary is one employee's line in the monthly report.
type MonthlyEmployeeSummary struct {
	UserID  int    `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

// ReportFile is a rendered export ready for download.
type ReportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
