package leaveallocation

import (
	"context"
	"database/sql"
	"errors"

	"go-school/internal/domain"
	allocationerrors "go-school/internal/leaveallocation/errors"
	"go-school/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Directory is the slice of the employee service the allocation flow
// consumes. Grants only land against employees the directory knows.
type Directory interface {
	Exists(ctx context.Context, empID string) (bool, error)
}

type Service interface {
	Allocate(ctx context.Context, req CreateAllocationRequest) (AllocationResponse, error)
	AllocateBulk(ctx context.Context, req BulkAllocationRequest) (BulkAllocationResponse, error)
	QueryBalances(ctx context.Context, empID string, year int) (map[string]TypeBalance, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	directory Directory
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, directory Directory, logger ...*zap.Logger) Service {
	l := zap.L().Named("leaveallocation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaveallocation.service")
	}
	return &service{db: db, repo: repo, directory: directory, logger: l}
}

func (s *service) Allocate(ctx context.Context, req CreateAllocationRequest) (AllocationResponse, error) {
	s.logger.Debug("allocate leave requested",
		zap.String("emp_id", req.EmpID),
		zap.String("leave_type", req.LeaveType),
		zap.Int("year", req.Year),
		zap.Int("total_days", req.TotalDays),
	)

	record, err := s.allocateOne(ctx, req.EmpID, req.LeaveType, req.Year, req.TotalDays)
	if err != nil {
		s.logger.Warn("allocate leave failed",
			zap.String("emp_id", req.EmpID),
			zap.Error(err),
		)
		return AllocationResponse{}, err
	}

	s.logger.Info("allocate leave success",
		zap.String("emp_id", record.EmpID),
		zap.String("leave_type", record.LeaveType),
		zap.Int("total_allocated", record.TotalAllocated),
		zap.Int("remaining", record.Remaining),
	)
	return mapToResponse(*record), nil
}

// AllocateBulk applies the allocation independently per employee. One
// employee failing never aborts the batch; failures come back in the
// response instead of disappearing into the logs.
func (s *service) AllocateBulk(ctx context.Context, req BulkAllocationRequest) (BulkAllocationResponse, error) {
	s.logger.Debug("bulk allocate leave requested",
		zap.Int("employees", len(req.EmpIDs)),
		zap.String("leave_type", req.LeaveType),
		zap.Int("year", req.Year),
	)

	resp := BulkAllocationResponse{
		Allocated: make([]AllocationResponse, 0, len(req.EmpIDs)),
		Skipped:   make([]BulkAllocationFailure, 0),
	}

	for _, empID := range req.EmpIDs {
		record, err := s.allocateOne(ctx, empID, req.LeaveType, req.Year, req.TotalDays)
		if err != nil {
			s.logger.Warn("bulk allocate skipping employee",
				zap.String("emp_id", empID),
				zap.Error(err),
			)
			resp.Skipped = append(resp.Skipped, toBulkFailure(empID, err))
			continue
		}
		resp.Allocated = append(resp.Allocated, mapToResponse(*record))
	}

	s.logger.Info("bulk allocate leave completed",
		zap.Int("allocated", len(resp.Allocated)),
		zap.Int("skipped", len(resp.Skipped)),
	)
	return resp, nil
}

func (s *service) allocateOne(ctx context.Context, empID, leaveType string, year, totalDays int) (*LeaveAllocation, error) {
	if !domain.IsValidLeaveType(leaveType) {
		return nil, allocationerrors.ErrInvalidLeaveType
	}
	if year < 1 {
		return nil, allocationerrors.ErrInvalidYear
	}
	if totalDays < 1 {
		return nil, allocationerrors.ErrInvalidDays
	}

	exists, err := s.directory.Exists(ctx, empID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, allocationerrors.ErrEmployeeNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	record, err := s.repo.WithTx(tx).UpsertAdditive(ctx, empID, leaveType, year, totalDays)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) QueryBalances(ctx context.Context, empID string, year int) (map[string]TypeBalance, error) {
	allocations, err := s.repo.FindAllByEmpAndYear(ctx, empID, year)
	if err != nil {
		return nil, err
	}

	// No allocations is a valid state, not an error.
	balances := make(map[string]TypeBalance, len(allocations))
	for _, a := range allocations {
		balances[a.LeaveType] = TypeBalance{Total: a.TotalAllocated, Remaining: a.Remaining}
	}
	return balances, nil
}

// Deduct consumes days from the ledger with the sufficiency guard applied in
// SQL. Run it against repo.WithTx so the deduction commits or rolls back with
// the caller's transaction.
func Deduct(ctx context.Context, repo Repository, empID, leaveType string, year, days int) (*LeaveAllocation, error) {
	record, err := repo.DeductGuarded(ctx, empID, leaveType, year, days)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	existing, findErr := repo.Find(ctx, empID, leaveType, year)
	if findErr != nil {
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			return nil, allocationerrors.ErrAllocationNotFound
		}
		return nil, findErr
	}
	return nil, allocationerrors.InsufficientBalance(days, existing.Remaining)
}

func toBulkFailure(empID string, err error) BulkAllocationFailure {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return BulkAllocationFailure{EmpID: empID, Code: appErr.Code, Message: appErr.Message}
	}
	return BulkAllocationFailure{EmpID: empID, Code: apperror.CodeInternalError, Message: "allocation failed"}
}

func mapToResponse(a LeaveAllocation) AllocationResponse {
	return AllocationResponse{
		ID:             a.ID.String(),
		EmpID:          a.EmpID,
		LeaveType:      a.LeaveType,
		Year:           a.Year,
		TotalAllocated: a.TotalAllocated,
		Remaining:      a.Remaining,
	}
}
