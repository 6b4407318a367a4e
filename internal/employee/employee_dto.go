package employee

type CreateEmployeeRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Role        string `json:"role" binding:"required,oneof=ADMIN TEACHER STUDENT"`
	JoiningDate string `json:"joining_date" binding:"required"`
}

type EmployeeResponse struct {
	ID          string `json:"id"`
	EmpID       string `json:"emp_id"`
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	JoiningDate string `json:"joining_date"`
}

// EmployeeOption is the slim directory entry used by allocation forms.
type EmployeeOption struct {
	EmpID    string `json:"emp_id"`
	FullName string `json:"full_name"`
}
