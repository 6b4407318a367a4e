package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-school/internal/domain"
	"go-school/internal/employee"
	"go-school/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeRepo struct {
	withTxFn         func(tx *sql.Tx) employee.Repository
	createFn         func(ctx context.Context, e *employee.Employee) error
	findAllFn        func(ctx context.Context) ([]employee.Employee, error)
	findByEmpIDFn    func(ctx context.Context, empID string) (*employee.Employee, error)
	findByUsernameFn func(ctx context.Context, username string) (*employee.Employee, error)
	existsByEmpIDFn  func(ctx context.Context, empID string) (bool, error)
	findOptionsFn    func(ctx context.Context) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, e *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepo) FindAll(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepo) FindByEmpID(ctx context.Context, empID string) (*employee.Employee, error) {
	if f.findByEmpIDFn != nil {
		return f.findByEmpIDFn(ctx, empID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepo) FindByUsername(ctx context.Context, username string) (*employee.Employee, error) {
	if f.findByUsernameFn != nil {
		return f.findByUsernameFn(ctx, username)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepo) ExistsByEmpID(ctx context.Context, empID string) (bool, error) {
	if f.existsByEmpIDFn != nil {
		return f.existsByEmpIDFn(ctx, empID)
	}
	return false, nil
}

func (f *fakeEmployeeRepo) FindOptions(ctx context.Context) ([]employee.Employee, error) {
	if f.findOptionsFn != nil {
		return f.findOptionsFn(ctx)
	}
	return nil, nil
}

type fakeCounterRepo struct {
	next int64
}

func (f *fakeCounterRepo) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type employeeServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	redisMock redismock.ClientMock
	service   employee.Service
	repo      *fakeEmployeeRepo
	counter   *fakeCounterRepo
}

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	rdb, redisMock := redismock.NewClientMock()
	repo := &fakeEmployeeRepo{}
	counterRepo := &fakeCounterRepo{}
	svc := employee.NewService(db, repo, counterRepo, rdb)

	return &employeeServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		redisMock: redisMock,
		service:   svc,
		repo:      repo,
		counter:   counterRepo,
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success generates sequential emp id", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		// A new hire must not linger in a stale options cache.
		deps.redisMock.ExpectDel(employee.OptionsCacheKey).SetVal(1)

		var saved employee.Employee
		deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			saved = *e
			return nil
		}

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:    "Asha Verma",
			Username:    "asha.verma",
			Email:       "asha.verma@school.example",
			Role:        domain.RoleTeacher,
			JoiningDate: "2024-06-01",
		})

		assert.NoError(t, err)
		assert.Equal(t, "T0001", resp.EmpID)
		assert.Equal(t, "T0001", saved.EmpID)
		assert.Equal(t, domain.RoleTeacher, saved.Role)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate username maps to conflict", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_username"}
		}

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:    "Asha Verma",
			Username:    "asha.verma",
			Email:       "asha.verma@school.example",
			Role:        domain.RoleTeacher,
			JoiningDate: "2024-06-01",
		})

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeAlreadyExists, appErr.Code)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative bad joining date", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:    "Asha Verma",
			Username:    "asha.verma",
			Email:       "asha.verma@school.example",
			Role:        domain.RoleTeacher,
			JoiningDate: "01/06/2024",
		})

		assert.ErrorContains(t, err, "joining_date")
	})
}

func TestEmployeeService_Directory(t *testing.T) {
	ctx := context.Background()

	t.Run("get display name", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByEmpIDFn = func(ctx context.Context, empID string) (*employee.Employee, error) {
			return &employee.Employee{ID: uuid.New(), EmpID: empID, FullName: "Asha Verma"}, nil
		}

		name, err := deps.service.GetDisplayName(ctx, "T0001")

		assert.NoError(t, err)
		assert.Equal(t, "Asha Verma", name)
	})

	t.Run("resolve username", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByUsernameFn = func(ctx context.Context, username string) (*employee.Employee, error) {
			assert.Equal(t, "asha.verma", username)
			return &employee.Employee{ID: uuid.New(), EmpID: "T0001", Username: username}, nil
		}

		empID, err := deps.service.ResolveUsername(ctx, "asha.verma")

		assert.NoError(t, err)
		assert.Equal(t, "T0001", empID)
	})

	t.Run("negative unknown emp id maps to not found", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByEmpID(ctx, "T9999")

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeNotFound, appErr.Code)
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("success cache hit skips the database", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		cached := []employee.EmployeeOption{
			{EmpID: "T0001", FullName: "Asha Verma"},
			{EmpID: "T0002", FullName: "Rahul Nair"},
		}
		jsonResp, err := json.Marshal(cached)
		assert.NoError(t, err)

		deps.redisMock.ExpectGet(employee.OptionsCacheKey).SetVal(string(jsonResp))
		deps.repo.findOptionsFn = func(ctx context.Context) ([]employee.Employee, error) {
			t.Fatal("cache hit must not reach the repository")
			return nil, nil
		}

		options, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, options, 2)
		assert.Equal(t, "Asha Verma", options[0].FullName)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("success cache miss loads and stores", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.redisMock.ExpectGet(employee.OptionsCacheKey).RedisNil()

		deps.repo.findOptionsFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{
				{ID: uuid.New(), EmpID: "T0001", FullName: "Asha Verma"},
			}, nil
		}

		stored, err := json.Marshal([]employee.EmployeeOption{{EmpID: "T0001", FullName: "Asha Verma"}})
		assert.NoError(t, err)
		deps.redisMock.ExpectSet(employee.OptionsCacheKey, stored, time.Hour).SetVal("OK")

		options, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, options, 1)
		assert.Equal(t, "T0001", options[0].EmpID)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})
}
