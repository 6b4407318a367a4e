package employeeerrors

import (
	"net/http"

	"go-school/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrUsernameAlreadyExists = apperror.New(
		apperror.CodeAlreadyExists,
		"username already taken",
		http.StatusConflict,
	)
	ErrEmpIDAlreadyExists = apperror.New(
		apperror.CodeAlreadyExists,
		"employee id already exists",
		http.StatusConflict,
	)
	ErrInvalidJoiningDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid joining_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
