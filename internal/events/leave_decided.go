package events

import "time"

const LeaveDecidedTopic = "school.leave.decided.v1"

// LeaveDecidedEvent is enqueued through the outbox when an admin approves or
// rejects a leave request. Consumers deliver the notification.
type LeaveDecidedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id"`
	LeaveID      string    `json:"leave_id"`
	EmpID        string    `json:"emp_id"`
	EmpName      string    `json:"emp_name"`
	LeaveType    string    `json:"leave_type"`
	Status       string    `json:"status"`
	AdminRemarks string    `json:"admin_remarks"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	DecidedBy    string    `json:"decided_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}
