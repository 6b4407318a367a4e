package allocationerrors

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
	ErrAllocationNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave allocation not found for this employee, type and year",
		http.StatusNotFound,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"year must be a positive number",
		http.StatusBadRequest,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"total_days must be at least 1",
		http.StatusBadRequest,
	)
)

// InsufficientBalance carries the requested vs remaining figures so the
// caller can act on the message.
func InsufficientBalance(requested, remaining int) *apperror.AppError {
	return apperror.Newf(
		apperror.CodeInsufficientBalance,
		http.StatusBadRequest,
		"insufficient leave balance: requested %d, remaining %d",
		requested, remaining,
	)
}
