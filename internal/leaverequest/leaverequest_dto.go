package leaverequest

import "go-school/internal/leaveallocation"

type ApplyLeaveRequest struct {
	EmpID     string `json:"emp_id" binding:"required"`
	LeaveType string `json:"leave_type" binding:"required,oneof=SICK CASUAL EARNED MATERNITY PATERNITY"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type DecideLeaveRequest struct {
	Status       string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	AdminRemarks string `json:"admin_remarks"`
}

type LeaveRequestResponse struct {
	ID            string  `json:"id"`
	EmpID         string  `json:"emp_id"`
	EmpName       string  `json:"emp_name"`
	LeaveType     string  `json:"leave_type"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	DaysRequested int     `json:"days_requested"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	AdminRemarks  *string `json:"admin_remarks,omitempty"`
	AppliedOn     string  `json:"applied_on"`
	DecidedBy     *string `json:"decided_by,omitempty"`
	DecidedAt     *string `json:"decided_at,omitempty"`
}

// BalanceResponse resolves the employee name fresh from the directory, unlike
// the denormalized name on individual requests.
type BalanceResponse struct {
	EmpID    string                                `json:"emp_id"`
	EmpName  string                                `json:"emp_name"`
	Year     int                                   `json:"year"`
	Balances map[string]leaveallocation.TypeBalance `json:"balances"`
}

type EntitlementResponse struct {
	LeaveType       string `json:"leave_type"`
	TotalAllocated  int    `json:"total_allocated"`
	UsedLeaves      int    `json:"used_leaves"`
	RemainingLeaves int    `json:"remaining_leaves"`
}

type LeaveTypeResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}
