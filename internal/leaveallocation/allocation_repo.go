package leaveallocation

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	UpsertAdditive(ctx context.Context, empID, leaveType string, year, totalDays int) (*LeaveAllocation, error)
	DeductGuarded(ctx context.Context, empID, leaveType string, year, days int) (*LeaveAllocation, error)
	Find(ctx context.Context, empID, leaveType string, year int) (*LeaveAllocation, error)
	FindAllByEmpAndYear(ctx context.Context, empID string, year int) ([]LeaveAllocation, error)
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

// UpsertAdditive creates the ledger row or tops it up in one atomic
// statement. On conflict the new remaining is old remaining + granted days:
// used days stay used, the grant only extends headroom. GREATEST keeps the
// row inside the invariant if legacy data ever went negative.
func (r *repository) UpsertAdditive(ctx context.Context, empID, leaveType string, year, totalDays int) (*LeaveAllocation, error) {
	query := `
		INSERT INTO leave_allocations (id, emp_id, leave_type, year, total_allocated, remaining, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $4, now(), now())
		ON CONFLICT (emp_id, leave_type, year) DO UPDATE
		SET total_allocated = leave_allocations.total_allocated + EXCLUDED.total_allocated,
		    remaining       = GREATEST(leave_allocations.remaining + EXCLUDED.total_allocated, 0),
		    updated_at      = now()
		RETURNING id, emp_id, leave_type, year, total_allocated, remaining
	`

	var a LeaveAllocation
	row := r.queryRower().QueryRowContext(ctx, query, empID, leaveType, year, totalDays)
	if err := row.Scan(&a.ID, &a.EmpID, &a.LeaveType, &a.Year, &a.TotalAllocated, &a.Remaining); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeductGuarded subtracts days from remaining only when the balance covers
// the request. sql.ErrNoRows means either the row does not exist or the
// guard rejected the deduction; callers disambiguate with Find.
func (r *repository) DeductGuarded(ctx context.Context, empID, leaveType string, year, days int) (*LeaveAllocation, error) {
	query := `
		UPDATE leave_allocations
		SET remaining = remaining - $4, updated_at = now()
		WHERE emp_id = $1 AND leave_type = $2 AND year = $3 AND remaining >= $4
		RETURNING id, emp_id, leave_type, year, total_allocated, remaining
	`

	var a LeaveAllocation
	row := r.queryRower().QueryRowContext(ctx, query, empID, leaveType, year, days)
	if err := row.Scan(&a.ID, &a.EmpID, &a.LeaveType, &a.Year, &a.TotalAllocated, &a.Remaining); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Find(ctx context.Context, empID, leaveType string, year int) (*LeaveAllocation, error) {
	if r.tx != nil {
		query := `
			SELECT id, emp_id, leave_type, year, total_allocated, remaining
			FROM leave_allocations
			WHERE emp_id = $1 AND leave_type = $2 AND year = $3
		`
		var a LeaveAllocation
		row := r.tx.QueryRowContext(ctx, query, empID, leaveType, year)
		if err := row.Scan(&a.ID, &a.EmpID, &a.LeaveType, &a.Year, &a.TotalAllocated, &a.Remaining); err != nil {
			if err == sql.ErrNoRows {
				return nil, gorm.ErrRecordNotFound
			}
			return nil, err
		}
		return &a, nil
	}

	var a LeaveAllocation
	err := r.db.WithContext(ctx).
		Where("emp_id = ? AND leave_type = ? AND year = ?", empID, leaveType, year).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindAllByEmpAndYear(ctx context.Context, empID string, year int) ([]LeaveAllocation, error) {
	var allocations []LeaveAllocation
	err := r.db.WithContext(ctx).
		Where("emp_id = ? AND year = ?", empID, year).
		Order("leave_type ASC").
		Find(&allocations).Error
	return allocations, err
}

func (r *repository) queryRower() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
