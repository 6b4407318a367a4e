package leaveallocation

import (
	"time"

	"github.com/google/uuid"
)

// LeaveAllocation is one ledger row: the grant for (EmpID, LeaveType, Year).
// Remaining never drops below zero and never exceeds TotalAllocated; both
// bounds are enforced in SQL (additive upsert and guarded deduction).
type LeaveAllocation struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	EmpID     string `gorm:"type:varchar(20);not null;uniqueIndex:uq_allocations_emp_type_year"`
	LeaveType string `gorm:"type:varchar(30);not null;uniqueIndex:uq_allocations_emp_type_year"`
	Year      int    `gorm:"type:int;not null;uniqueIndex:uq_allocations_emp_type_year"`

	TotalAllocated int `gorm:"type:int;not null"`
	Remaining      int `gorm:"type:int;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveAllocation) TableName() string {
	return "leave_allocations"
}
