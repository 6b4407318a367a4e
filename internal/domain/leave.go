package domain

import "strings"

// Leave types form a closed set. Allocations and requests reference them by
// name; there is no leave_types table.
const (
	LeaveTypeSick      = "SICK"
	LeaveTypeCasual    = "CASUAL"
	LeaveTypeEarned    = "EARNED"
	LeaveTypeMaternity = "MATERNITY"
	LeaveTypePaternity = "PATERNITY"
)

// LeaveTypes lists the valid types in display order.
var LeaveTypes = []string{
	LeaveTypeSick,
	LeaveTypeCasual,
	LeaveTypeEarned,
	LeaveTypeMaternity,
	LeaveTypePaternity,
}

func IsValidLeaveType(t string) bool {
	for _, lt := range LeaveTypes {
		if lt == t {
			return true
		}
	}
	return false
}

// LeaveTypeDisplayName renders "SICK" as "Sick", "CASUAL" as "Casual", etc.
func LeaveTypeDisplayName(name string) string {
	if name == "" {
		return ""
	}
	return name[:1] + strings.ToLower(name[1:])
}

// Leave request lifecycle. PENDING is the only non-terminal status.
const (
	LeaveStatusPending  = "PENDING"
	LeaveStatusApproved = "APPROVED"
	LeaveStatusRejected = "REJECTED"
)

func IsValidLeaveStatus(s string) bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected:
		return true
	}
	return false
}
