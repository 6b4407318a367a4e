package leaveallocation

type CreateAllocationRequest struct {
	EmpID     string `json:"emp_id" binding:"required"`
	LeaveType string `json:"leave_type" binding:"required,oneof=SICK CASUAL EARNED MATERNITY PATERNITY"`
	Year      int    `json:"year" binding:"required,min=1"`
	TotalDays int    `json:"total_days" binding:"required,min=1"`
}

type BulkAllocationRequest struct {
	EmpIDs    []string `json:"emp_ids" binding:"required,min=1"`
	LeaveType string   `json:"leave_type" binding:"required,oneof=SICK CASUAL EARNED MATERNITY PATERNITY"`
	Year      int      `json:"year" binding:"required,min=1"`
	TotalDays int      `json:"total_days" binding:"required,min=1"`
}

type AllocationResponse struct {
	ID             string `json:"id"`
	EmpID          string `json:"emp_id"`
	LeaveType      string `json:"leave_type"`
	Year           int    `json:"year"`
	TotalAllocated int    `json:"total_allocated"`
	Remaining      int    `json:"remaining"`
}

// BulkAllocationFailure reports one skipped employee in a bulk call. Failures
// are returned to the caller instead of being visible only in logs.
type BulkAllocationFailure struct {
	EmpID   string `json:"emp_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type BulkAllocationResponse struct {
	Allocated []AllocationResponse    `json:"allocated"`
	Skipped   []BulkAllocationFailure `json:"skipped"`
}

// TypeBalance is the per-type view returned by balance queries.
type TypeBalance struct {
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
}
