package models

import "time"

// LeaveStatus tracks the leave request lifecycle.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// LeaveRequest is a persisted leave application. Status moves from pending to
// approved or rejected exactly once.
type LeaveRequest struct {
	ID         int         `json:"id"`
	UserID     int         `json:"user_id"`
	StartDate  string      `json:"start_date"`
	EndDate    string      `json:"end_date"`
	Reason     string      `json:"reason"`
	Status     LeaveStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	ApprovedAt *time.Time  `json:"approved_at,omitempty"`
	RejectedAt *time.Time  `json:"rejected_at,omitempty"`
}

// RecordID implements the collection record contract.
func (l LeaveRequest) RecordID() int { return l.ID }

// CreateLeaveRequest is the payload for submitting a leave request.
type CreateLeaveRequest struct {
	UserID    int    `json:"user_id" binding:"required" validate:"required,gt=0"`
	StartDate string `json:"start_date" binding:"required" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" binding:"required" validate:"required,max=500"`
}

// LeaveView joins a leave request with the requester's display name.
type LeaveView struct {
	LeaveRequest
	UserName string `json:"user_name"`
}
