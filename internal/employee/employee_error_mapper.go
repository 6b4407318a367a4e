package employee

import (
	"errors"
	"strings"

	employeeerrors "go-school/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_employee_username":
				return employeeerrors.ErrUsernameAlreadyExists
			case "uq_employee_emp_id":
				return employeeerrors.ErrEmpIDAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_employee_username") {
		return employeeerrors.ErrUsernameAlreadyExists
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_employee_emp_id") {
		return employeeerrors.ErrEmpIDAlreadyExists
	}

	return err
}
