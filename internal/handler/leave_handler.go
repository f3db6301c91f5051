package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
	"github.com/noah-isme/smart-attendance-api/pkg/response"
)

type leaveService interface {
	Request(ctx context.Context, req models.CreateLeaveRequest) (*models.LeaveRequest, error)
	ListForUser(ctx context.Context, userID int) ([]models.LeaveRequest, error)
	ListPending(ctx context.Context) ([]models.LeaveView, error)
	Approve(ctx context.Context, id int) (*models.LeaveRequest, error)
	Reject(ctx context.Context, id int) (*models.LeaveRequest, error)
}

// LeaveHandler exposes the leave request workflow.
type LeaveHandler struct {
	service leaveService
}

// NewLeaveHandler constructs the handler.
func NewLeaveHandler(svc leaveService) *LeaveHandler {
	return &LeaveHandler{service: svc}
}

// Request godoc
// @Summary Submit a leave request
// @Description Dates use YYYY-MM-DD and end_date must not precede start_date.
// @Tags Leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateLeaveRequest true "Leave request"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /leaves/request [post]
func (h *LeaveHandler) Request(c *gin.Context) {
	var req models.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid leave payload"))
		return
	}
	if !canActFor(claimsFromContext(c), req.UserID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	leave, err := h.service.Request(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, response.Message{Message: "Leave request submitted successfully", ID: leave.ID})
}

// ListForUser godoc
// @Summary Leave requests of a user
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /leaves/user/{user_id} [get]
func (h *LeaveHandler) ListForUser(c *gin.Context) {
	userID, err := intParam(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	leaves, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, leaves)
}

// ListPending godoc
// @Summary Pending leave requests
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /leaves/pending [get]
func (h *LeaveHandler) ListPending(c *gin.Context) {
	leaves, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, leaves)
}

// Approve godoc
// @Summary Approve a pending leave request
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave request ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /leaves/approve/{id} [post]
func (h *LeaveHandler) Approve(c *gin.Context) {
	h.decide(c, "Leave approved successfully", h.service.Approve)
}

// Reject godoc
// @Summary Reject a pending leave request
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave request ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /leaves/reject/{id} [post]
func (h *LeaveHandler) Reject(c *gin.Context) {
	h.decide(c, "Leave rejected successfully", h.service.Reject)
}

func (h *LeaveHandler) decide(c *gin.Context, message string, action func(context.Context, int) (*models.LeaveRequest, error)) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	leave, err := action(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Message{Message: message, ID: leave.ID})
}
