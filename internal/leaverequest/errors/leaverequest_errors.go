package leaverequesterrors

import (
	"net/http"

	"go-school/internal/shared/apperror"
)

var (
	ErrLeaveRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrNoAllocationForType = apperror.New(
		apperror.CodeNotFound,
		"no leave allocation for this employee, type and year",
		http.StatusNotFound,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"leave request already processed",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be APPROVED or REJECTED",
		http.StatusBadRequest,
	)
)

// InsufficientBalance mirrors the ledger gate at apply time, with requested
// vs remaining in the message.
func InsufficientBalance(requested, remaining int) *apperror.AppError {
	return apperror.Newf(
		apperror.CodeInsufficientBalance,
		http.StatusBadRequest,
		"insufficient leave balance: requested %d, remaining %d",
		requested, remaining,
	)
}
