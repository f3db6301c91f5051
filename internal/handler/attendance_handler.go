package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
	"github.com/noah-isme/smart-attendance-api/pkg/response"
)

type attendanceService interface {
	CheckIn(ctx context.Context, userID int) (*models.AttendanceRecord, error)
	CheckOut(ctx context.Context, userID int) (*models.AttendanceRecord, error)
	TodayStatus(ctx context.Context, userID int) (*models.AttendanceRecord, error)
	ListAll(ctx context.Context) ([]models.AttendanceView, error)
	History(ctx context.Context, userID int) ([]models.AttendanceView, error)
}

// AttendanceActionResponse acknowledges a check-in or check-out.
type AttendanceActionResponse struct {
	Message string                   `json:"message"`
	Record  *models.AttendanceRecord `json:"record"`
}

// AttendanceHandler exposes the daily check-in and check-out endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// CheckIn godoc
// @Summary Check in for today
// @Description Records the first arrival of the calendar day. Employees may only check themselves in.
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.AttendanceRequest true "User to check in"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	h.record(c, "Checked in successfully", h.service.CheckIn)
}

// CheckOut godoc
// @Summary Check out for today
// @Description Records departure after a check-in on the same calendar day.
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.AttendanceRequest true "User to check out"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/check-out [post]
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	h.record(c, "Checked out successfully", h.service.CheckOut)
}

func (h *AttendanceHandler) record(c *gin.Context, message string, action func(context.Context, int) (*models.AttendanceRecord, error)) {
	var req models.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}
	if !canActFor(claimsFromContext(c), req.UserID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	record, err := action(c.Request.Context(), req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, AttendanceActionResponse{Message: message, Record: record})
}

// Today godoc
// @Summary Today's attendance for a user
// @Description Returns today's record, or a placeholder with id 0 and null timestamps.
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/{user_id} [get]
func (h *AttendanceHandler) Today(c *gin.Context) {
	userID, err := intParam(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	record, err := h.service.TodayStatus(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// History godoc
// @Summary Attendance history for a user
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/history/{user_id} [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	userID, err := intParam(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	records, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

// List godoc
// @Summary All attendance records
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/all [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	records, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}
