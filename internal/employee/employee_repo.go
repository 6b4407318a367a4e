package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByEmpID(ctx context.Context, empID string) (*Employee, error)
	FindByUsername(ctx context.Context, username string) (*Employee, error)
	ExistsByEmpID(ctx context.Context, empID string) (bool, error)
	FindOptions(ctx context.Context) ([]Employee, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Order("emp_id ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByEmpID(ctx context.Context, empID string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		First(&e, "emp_id = ?", empID).Error
	return &e, err
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		First(&e, "username = ?", username).Error
	return &e, err
}

func (r *repository) ExistsByEmpID(ctx context.Context, empID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("emp_id = ?", empID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindOptions(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Select("emp_id", "full_name").
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}
