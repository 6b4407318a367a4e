package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	EmpID    string `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_emp_id"`
	Username string `gorm:"type:varchar(60);not null;uniqueIndex:uq_employee_username"`
	FullName string `gorm:"type:varchar(120);not null"`
	Email    string `gorm:"type:varchar(120);not null"`
	Role     string `gorm:"type:varchar(20);not null;default:'TEACHER'"`

	JoiningDate time.Time `gorm:"type:date;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_employees_deleted_at"`
}
