package leaverequest

import (
	"time"

	"github.com/google/uuid"
)

// LeaveRequest is one leave application. EmpName is denormalized at apply
// time and never re-synced; historical requests keep the name the employee
// had when they applied.
type LeaveRequest struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	EmpID   string `gorm:"type:varchar(20);not null;index:idx_leave_requests_emp"`
	EmpName string `gorm:"type:varchar(120);not null"`

	LeaveType string    `gorm:"type:varchar(30);not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Reason    string    `gorm:"type:text"`

	Status       string  `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`
	AdminRemarks *string `gorm:"type:text"`

	AppliedOn time.Time  `gorm:"type:date;not null"`
	DecidedBy *string    `gorm:"type:varchar(20)"`
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
