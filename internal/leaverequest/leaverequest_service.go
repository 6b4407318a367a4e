package leaverequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-school/internal/domain"
	"go-school/internal/events"
	"go-school/internal/leaveallocation"
	leaverequesterrors "go-school/internal/leaverequest/errors"
	"go-school/internal/messaging/kafka"
	"go-school/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Directory is the slice of the employee service the leave workflow
// consumes. Lookups return errors already mapped to application errors.
type Directory interface {
	GetDisplayName(ctx context.Context, empID string) (string, error)
	ResolveUsername(ctx context.Context, username string) (string, error)
}

type Service interface {
	Apply(ctx context.Context, req ApplyLeaveRequest) (LeaveRequestResponse, error)
	Decide(ctx context.Context, id, decidedBy string, req DecideLeaveRequest) (LeaveRequestResponse, error)
	GetAll(ctx context.Context) ([]LeaveRequestResponse, error)
	GetPending(ctx context.Context) ([]LeaveRequestResponse, error)
	GetByEmpID(ctx context.Context, empID string) ([]LeaveRequestResponse, error)
	GetMyRequests(ctx context.Context, username string) ([]LeaveRequestResponse, error)
	GetBalance(ctx context.Context, empID string) (BalanceResponse, error)
	GetMyEntitlements(ctx context.Context, username string) ([]EntitlementResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	allocRepo leaveallocation.Repository
	directory Directory
	outbox    kafka.OutboxRepository
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	allocRepo leaveallocation.Repository,
	directory Directory,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOptions(db, repo, allocRepo, directory, nil, nil, logger...)
}

// NewServiceWithOptions wires the optional outbox (decision events) and an
// injectable clock for tests. A nil clock falls back to time.Now.
func NewServiceWithOptions(
	db *sql.DB,
	repo Repository,
	allocRepo leaveallocation.Repository,
	directory Directory,
	outboxRepo kafka.OutboxRepository,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		db:        db,
		repo:      repo,
		allocRepo: allocRepo,
		directory: directory,
		outbox:    outboxRepo,
		now:       now,
		logger:    l,
	}
}

func (s *service) Apply(ctx context.Context, req ApplyLeaveRequest) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("apply leave requested",
		zap.String("request_id", rid),
		zap.String("caller", contextutil.GetUsername(ctx)),
		zap.String("emp_id", req.EmpID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if !domain.IsValidLeaveType(req.LeaveType) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidLeaveType
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDateRange
	}

	empName, err := s.directory.GetDisplayName(ctx, req.EmpID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	allocation, err := s.allocRepo.Find(ctx, req.EmpID, req.LeaveType, startDate.Year())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrNoAllocationForType
		}
		return LeaveRequestResponse{}, err
	}

	// The sufficiency gate inspects the balance but reserves nothing; the
	// binding check happens again inside the approval transaction.
	daysRequested := inclusiveDays(startDate, endDate)
	if daysRequested > allocation.Remaining {
		s.logger.Warn("apply leave insufficient balance",
			zap.String("emp_id", req.EmpID),
			zap.Int("requested", daysRequested),
			zap.Int("remaining", allocation.Remaining),
		)
		return LeaveRequestResponse{}, leaverequesterrors.InsufficientBalance(daysRequested, allocation.Remaining)
	}

	l := &LeaveRequest{
		ID:        uuid.New(),
		EmpID:     req.EmpID,
		EmpName:   empName,
		LeaveType: req.LeaveType,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
		Status:    domain.LeaveStatusPending,
		AppliedOn: s.now().UTC().Truncate(24 * time.Hour),
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("apply leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("emp_id", l.EmpID),
		zap.Int("days_requested", daysRequested),
	)
	return mapToResponse(*l), nil
}

// Decide moves a PENDING request to APPROVED or REJECTED. The status flip,
// the ledger deduction and the outbox insert share one transaction, so a
// failed deduction leaves the request PENDING.
func (s *service) Decide(ctx context.Context, id, decidedBy string, req DecideLeaveRequest) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("decide leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("decision", req.Status),
		zap.String("decided_by", decidedBy),
	)

	if req.Status != domain.LeaveStatusApproved && req.Status != domain.LeaveStatusRejected {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDecision
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.DecideGuarded(ctx, id, req.Status, req.AdminRemarks, decidedBy)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Error("decide leave persist failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveRequestResponse{}, err
		}
		// Guard rejected: the request is gone or no longer PENDING.
		if _, findErr := s.repo.FindByID(ctx, id); findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveRequestNotFound
			}
			return LeaveRequestResponse{}, findErr
		}
		return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyDecided
	}

	if req.Status == domain.LeaveStatusApproved {
		days := inclusiveDays(l.StartDate, l.EndDate)
		allocation, err := leaveallocation.Deduct(
			ctx,
			s.allocRepo.WithTx(tx),
			l.EmpID, l.LeaveType, l.StartDate.Year(), days,
		)
		if err != nil {
			s.logger.Warn("decide leave deduction failed",
				zap.String("leave_id", id),
				zap.String("emp_id", l.EmpID),
				zap.Int("days", days),
				zap.Error(err),
			)
			return LeaveRequestResponse{}, err
		}
		s.logger.Info("leave balance deducted",
			zap.String("emp_id", l.EmpID),
			zap.String("leave_type", l.LeaveType),
			zap.Int("remaining", allocation.Remaining),
		)
	}

	if s.outbox != nil {
		if err := s.enqueueDecisionEvent(ctx, tx, rid, l); err != nil {
			s.logger.Error("decide leave outbox persist failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveRequestResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("decide leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", l.Status),
	)
	return mapToResponse(*l), nil
}

func (s *service) enqueueDecisionEvent(ctx context.Context, tx *sql.Tx, rid string, l *LeaveRequest) error {
	remarks := ""
	if l.AdminRemarks != nil {
		remarks = *l.AdminRemarks
	}
	decidedBy := ""
	if l.DecidedBy != nil {
		decidedBy = *l.DecidedBy
	}

	event := events.LeaveDecidedEvent{
		EventType:    "leave_decided",
		RequestID:    rid,
		LeaveID:      l.ID.String(),
		EmpID:        l.EmpID,
		EmpName:      l.EmpName,
		LeaveType:    l.LeaveType,
		Status:       l.Status,
		AdminRemarks: remarks,
		StartDate:    l.StartDate.Format("2006-01-02"),
		EndDate:      l.EndDate.Format("2006-01-02"),
		DecidedBy:    decidedBy,
		OccurredAt:   s.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetAll(ctx context.Context) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetPending(ctx context.Context) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindByStatus(ctx, domain.LeaveStatusPending)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByEmpID(ctx context.Context, empID string) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindByEmpID(ctx, empID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetMyRequests(ctx context.Context, username string) ([]LeaveRequestResponse, error) {
	empID, err := s.directory.ResolveUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.GetByEmpID(ctx, empID)
}

func (s *service) GetBalance(ctx context.Context, empID string) (BalanceResponse, error) {
	empName, err := s.directory.GetDisplayName(ctx, empID)
	if err != nil {
		return BalanceResponse{}, err
	}

	year := s.now().Year()
	allocations, err := s.allocRepo.FindAllByEmpAndYear(ctx, empID, year)
	if err != nil {
		return BalanceResponse{}, err
	}

	balances := make(map[string]leaveallocation.TypeBalance, len(allocations))
	for _, a := range allocations {
		balances[a.LeaveType] = leaveallocation.TypeBalance{Total: a.TotalAllocated, Remaining: a.Remaining}
	}

	return BalanceResponse{
		EmpID:    empID,
		EmpName:  empName,
		Year:     year,
		Balances: balances,
	}, nil
}

func (s *service) GetMyEntitlements(ctx context.Context, username string) ([]EntitlementResponse, error) {
	empID, err := s.directory.ResolveUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	allocations, err := s.allocRepo.FindAllByEmpAndYear(ctx, empID, s.now().Year())
	if err != nil {
		return nil, err
	}

	resp := make([]EntitlementResponse, len(allocations))
	for i, a := range allocations {
		resp[i] = EntitlementResponse{
			LeaveType:       a.LeaveType,
			TotalAllocated:  a.TotalAllocated,
			UsedLeaves:      a.TotalAllocated - a.Remaining,
			RemainingLeaves: a.Remaining,
		}
	}
	return resp, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaverequesterrors.ErrInvalidDateFormat
	}
	return t, nil
}

// inclusiveDays counts both endpoints: 2025-03-01..2025-03-03 is 3 days.
func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func mapToResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:            l.ID.String(),
		EmpID:         l.EmpID,
		EmpName:       l.EmpName,
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format("2006-01-02"),
		EndDate:       l.EndDate.Format("2006-01-02"),
		DaysRequested: inclusiveDays(l.StartDate, l.EndDate),
		Reason:        l.Reason,
		Status:        l.Status,
		AdminRemarks:  l.AdminRemarks,
		AppliedOn:     l.AppliedOn.Format("2006-01-02"),
		DecidedBy:     l.DecidedBy,
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
