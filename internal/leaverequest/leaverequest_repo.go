package leaverequest

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	FindByEmpID(ctx context.Context, empID string) ([]LeaveRequest, error)
	FindByStatus(ctx context.Context, status string) ([]LeaveRequest, error)
	DecideGuarded(ctx context.Context, id, newStatus, adminRemarks, decidedBy string) (*LeaveRequest, error)
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("applied_on DESC, created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindByEmpID(ctx context.Context, empID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("emp_id = ?", empID).
		Order("applied_on DESC, created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindByStatus(ctx context.Context, status string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("applied_on ASC").
		Find(&requests).Error
	return requests, err
}

// DecideGuarded flips a PENDING request to its terminal status in one guarded
// statement. sql.ErrNoRows means the request is missing or already decided;
// callers disambiguate with FindByID.
func (r *repository) DecideGuarded(ctx context.Context, id, newStatus, adminRemarks, decidedBy string) (*LeaveRequest, error) {
	query := `
		UPDATE leave_requests
		SET status = $2, admin_remarks = $3, decided_by = $4, decided_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING id, emp_id, emp_name, leave_type, start_date, end_date, reason,
		          status, admin_remarks, applied_on, decided_by, decided_at
	`

	var (
		l         LeaveRequest
		remarks   sql.NullString
		decidedID sql.NullString
		decidedAt sql.NullTime
	)
	row := r.queryRower().QueryRowContext(ctx, query, id, newStatus, adminRemarks, decidedBy)
	if err := row.Scan(
		&l.ID, &l.EmpID, &l.EmpName, &l.LeaveType, &l.StartDate, &l.EndDate, &l.Reason,
		&l.Status, &remarks, &l.AppliedOn, &decidedID, &decidedAt,
	); err != nil {
		return nil, err
	}

	if remarks.Valid {
		l.AdminRemarks = &remarks.String
	}
	if decidedID.Valid {
		l.DecidedBy = &decidedID.String
	}
	if decidedAt.Valid {
		t := decidedAt.Time
		l.DecidedAt = &t
	}
	return &l, nil
}

func (r *repository) queryRower() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
