package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smart-attendance-api/internal/dto"
	"github.com/noah-isme/smart-attendance-api/internal/middleware"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
	"github.com/noah-isme/smart-attendance-api/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context) (*dto.DashboardStats, bool, error)
	AttendanceChart(ctx context.Context, days int) ([]dto.AttendanceChartPoint, bool, error)
	EmployeePerformance(ctx context.Context) ([]dto.EmployeePerformance, bool, error)
	MonthlyReport(ctx context.Context, month, year int) (*dto.MonthlyReport, bool, error)
	ExportMonthlyReport(ctx context.Context, month, year int, format string) (*dto.ReportFile, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats godoc
// @Summary Headline attendance and leave statistics
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, cacheHit, err := h.service.Stats(c.Request.Context())
	h.respond(c, stats, cacheHit, err)
}

// AttendanceChart godoc
// @Summary Daily attendance for the last N days
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param days query int false "Number of days (1-90), defaults to 7"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/attendance-chart [get]
func (h *DashboardHandler) AttendanceChart(c *gin.Context) {
	days, err := intQuery(c, "days")
	if err != nil {
		response.Error(c, err)
		return
	}
	points, cacheHit, err := h.service.AttendanceChart(c.Request.Context(), days)
	h.respond(c, points, cacheHit, err)
}

// EmployeePerformance godoc
// @Summary Employees ranked by attendance rate
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dashboard/employee-performance [get]
func (h *DashboardHandler) EmployeePerformance(c *gin.Context) {
	perf, cacheHit, err := h.service.EmployeePerformance(c.Request.Context())
	h.respond(c, perf, cacheHit, err)
}

// MonthlyReport godoc
// @Summary Monthly attendance report
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param month query int false "Month (1-12), defaults to the current month"
// @Param year query int false "Year, defaults to the current year"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/monthly-report [get]
func (h *DashboardHandler) MonthlyReport(c *gin.Context) {
	month, year, ok := monthYear(c)
	if !ok {
		return
	}
	report, cacheHit, err := h.service.MonthlyReport(c.Request.Context(), month, year)
	h.respond(c, report, cacheHit, err)
}

// ExportMonthlyReport godoc
// @Summary Download the monthly report
// @Tags Dashboard
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param month query int false "Month (1-12)"
// @Param year query int false "Year"
// @Param format query string false "csv, pdf or xlsx, defaults to csv"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /dashboard/monthly-report/export [get]
func (h *DashboardHandler) ExportMonthlyReport(c *gin.Context) {
	month, year, ok := monthYear(c)
	if !ok {
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.Query("format")))
	file, err := h.service.ExportMonthlyReport(c.Request.Context(), month, year, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

func (h *DashboardHandler) respond(c *gin.Context, data interface{}, cacheHit bool, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, data, middleware.ExtractMeta(c))
}

func monthYear(c *gin.Context) (int, int, bool) {
	month, err := intQuery(c, "month")
	if err != nil {
		response.Error(c, err)
		return 0, 0, false
	}
	year, err := intQuery(c, "year")
	if err != nil {
		response.Error(c, err)
		return 0, 0, false
	}
	if month < 0 || year < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "month and year must be positive"))
		return 0, 0, false
	}
	return month, year, true
}
