package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Zone-less layouts accepted when reading stored records. They are read in
// the process local zone.
var naiveTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp accepts RFC 3339 timestamps and ISO timestamps without a zone.
func ParseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	for _, layout := range naiveTimestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

func parseOptionalTimestamp(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UnmarshalJSON reads check-in and check-out with ParseTimestamp.
func (a *AttendanceRecord) UnmarshalJSON(data []byte) error {
	type plain AttendanceRecord
	var raw struct {
		plain
		CheckIn  *string `json:"check_in"`
		CheckOut *string `json:"check_out"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	checkIn, err := parseOptionalTimestamp(raw.CheckIn)
	if err != nil {
		return fmt.Errorf("check_in: %w", err)
	}
	checkOut, err := parseOptionalTimestamp(raw.CheckOut)
	if err != nil {
		return fmt.Errorf("check_out: %w", err)
	}
	*a = AttendanceRecord(raw.plain)
	a.CheckIn, a.CheckOut = checkIn, checkOut
	return nil
}

// UnmarshalJSON reads the lifecycle timestamps with ParseTimestamp.
func (l *LeaveRequest) UnmarshalJSON(data []byte) error {
	type plain LeaveRequest
	var raw struct {
		plain
		CreatedAt  *string `json:"created_at"`
		ApprovedAt *string `json:"approved_at"`
		RejectedAt *string `json:"rejected_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	created, err := parseOptionalTimestamp(raw.CreatedAt)
	if err != nil {
		return fmt.Errorf("created_at: %w", err)
	}
	approved, err := parseOptionalTimestamp(raw.ApprovedAt)
	if err != nil {
		return fmt.Errorf("approved_at: %w", err)
	}
	rejected, err := parseOptionalTimestamp(raw.RejectedAt)
	if err != nil {
		return fmt.Errorf("rejected_at: %w", err)
	}
	*l = LeaveRequest(raw.plain)
	if created != nil {
		l.CreatedAt = *created
	}
	l.ApprovedAt, l.RejectedAt = approved, rejected
	return nil
}
