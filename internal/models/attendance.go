package models

import "time"

// DateLayout is the calendar day format used for attendance and leave dates.
const DateLayout = "2006-01-02"

// AttendanceRecord is the day-record for one user. There is at most one record
// per (UserID, Date).
type AttendanceRecord struct {
	ID       int        `json:"id"`
	UserID   int        `json:"user_id"`
	Date     string     `json:"date"`
	CheckIn  *time.Time `json:"check_in"`
	CheckOut *time.Time `json:"check_out"`
}

// RecordID implements the collection record contract.
func (a AttendanceRecord) RecordID() int { return a.ID }

// CheckedIn reports whether check-in has been recorded.
func (a AttendanceRecord) CheckedIn() bool { return a.CheckIn != nil }

// Completed reports whether both check-in and check-out have been recorded.
func (a AttendanceRecord) Completed() bool { return a.CheckIn != nil && a.CheckOut != nil }

// AttendanceRequest identifies whose attendance is being recorded.
type AttendanceRequest struct {
	UserID int `json:"user_id" binding:"required" validate:"required,gt=0"`
}

// AttendanceView joins a record with the owner's display name.
type AttendanceView struct {
	AttendanceRecord
	UserName string `json:"user_name"`
}
