package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	employeeerrors "go-school/internal/employee/errors"
	"go-school/internal/shared/contextutil"
	"go-school/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const OptionsCacheKey = "employees:options"

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByEmpID(ctx context.Context, empID string) (EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOption, error)

	// Directory contract consumed by the leave services.
	Exists(ctx context.Context, empID string) (bool, error)
	GetDisplayName(ctx context.Context, empID string) (string, error)
	ResolveUsername(ctx context.Context, username string) (string, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("username", req.Username),
		zap.String("role", req.Role),
	)

	joiningDate, err := time.Parse("2006-01-02", req.JoiningDate)
	if err != nil {
		s.logger.Warn("create employee invalid joining_date",
			zap.String("joining_date", req.JoiningDate),
			zap.Error(err),
		)
		return EmployeeResponse{}, employeeerrors.ErrInvalidJoiningDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	nextVal, err := s.counter.GetNextValue(ctx, "staff_number")
	if err != nil {
		s.logger.Error("create employee generate emp id failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	empID := fmt.Sprintf("T%04d", nextVal)

	e := &Employee{
		ID:          uuid.New(),
		EmpID:       empID,
		Username:    req.Username,
		FullName:    req.FullName,
		Email:       req.Email,
		Role:        req.Role,
		JoiningDate: joiningDate,
	}

	if err := qtx.Create(ctx, e); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, OptionsCacheKey).Err(); err != nil {
			s.logger.Error("failed to invalidate employee options cache",
				zap.Error(err),
				zap.String("key", OptionsCacheKey),
			)
		}
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("emp_id", e.EmpID),
	)

	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested")
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(employees), nil
}

func (s *service) GetByEmpID(ctx context.Context, empID string) (EmployeeResponse, error) {
	e, err := s.repo.FindByEmpID(ctx, empID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*e), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeOption, error) {
	// 1. Redis first
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, OptionsCacheKey).Result(); err == nil {
			var resp []EmployeeOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// 2. Singleflight so a cold cache does not stampede the database
	v, err, _ := s.sf.Do(OptionsCacheKey, func() (interface{}, error) {
		employees, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeOption, len(employees))
		for i, e := range employees {
			resp[i] = EmployeeOption{EmpID: e.EmpID, FullName: e.FullName}
		}

		// 3. Directory data is slow-moving, an hour of TTL is fine
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, OptionsCacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

func (s *service) Exists(ctx context.Context, empID string) (bool, error) {
	return s.repo.ExistsByEmpID(ctx, empID)
}

func (s *service) GetDisplayName(ctx context.Context, empID string) (string, error) {
	e, err := s.repo.FindByEmpID(ctx, empID)
	if err != nil {
		return "", mapRepositoryError(err)
	}
	return e.FullName, nil
}

func (s *service) ResolveUsername(ctx context.Context, username string) (string, error) {
	e, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", mapRepositoryError(err)
	}
	return e.EmpID, nil
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          e.ID.String(),
		EmpID:       e.EmpID,
		Username:    e.Username,
		FullName:    e.FullName,
		Email:       e.Email,
		Role:        e.Role,
		JoiningDate: e.JoiningDate.Format("2006-01-02"),
	}
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
