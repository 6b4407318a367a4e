package leaveallocation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-school/internal/domain"
	"go-school/internal/leaveallocation"
	allocationerrors "go-school/internal/leaveallocation/errors"
	"go-school/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAllocationService struct {
	allocateFn      func(ctx context.Context, req leaveallocation.CreateAllocationRequest) (leaveallocation.AllocationResponse, error)
	allocateBulkFn  func(ctx context.Context, req leaveallocation.BulkAllocationRequest) (leaveallocation.BulkAllocationResponse, error)
	queryBalancesFn func(ctx context.Context, empID string, year int) (map[string]leaveallocation.TypeBalance, error)
}

func (f *fakeAllocationService) Allocate(ctx context.Context, req leaveallocation.CreateAllocationRequest) (leaveallocation.AllocationResponse, error) {
	return f.allocateFn(ctx, req)
}
func (f *fakeAllocationService) AllocateBulk(ctx context.Context, req leaveallocation.BulkAllocationRequest) (leaveallocation.BulkAllocationResponse, error) {
	return f.allocateBulkFn(ctx, req)
}
func (f *fakeAllocationService) QueryBalances(ctx context.Context, empID string, year int) (map[string]leaveallocation.TypeBalance, error) {
	return f.queryBalancesFn(ctx, empID, year)
}

func TestAllocationHandler_Allocate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	apperror.Init()

	t.Run("success", func(t *testing.T) {
		svc := &fakeAllocationService{
			allocateFn: func(ctx context.Context, req leaveallocation.CreateAllocationRequest) (leaveallocation.AllocationResponse, error) {
				assert.Equal(t, "T0001", req.EmpID)
				assert.Equal(t, 12, req.TotalDays)
				return leaveallocation.AllocationResponse{
					ID: uuid.New().String(), EmpID: req.EmpID,
					LeaveType: req.LeaveType, Year: req.Year,
					TotalAllocated: 12, Remaining: 12,
				}, nil
			},
		}
		h := leaveallocation.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"emp_id":"T0001","leave_type":"CASUAL","year":2025,"total_days":12}`
		c.Request = httptest.NewRequest(http.MethodPost, "/allocations", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Allocate(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"remaining":12`)
	})

	t.Run("negative invalid leave type rejected by binding", func(t *testing.T) {
		h := leaveallocation.NewHandler(&fakeAllocationService{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"emp_id":"T0001","leave_type":"SABBATICAL","year":2025,"total_days":12}`
		c.Request = httptest.NewRequest(http.MethodPost, "/allocations", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Allocate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"ok":false`)
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		svc := &fakeAllocationService{
			allocateFn: func(ctx context.Context, req leaveallocation.CreateAllocationRequest) (leaveallocation.AllocationResponse, error) {
				return leaveallocation.AllocationResponse{}, allocationerrors.ErrEmployeeNotFound
			},
		}
		h := leaveallocation.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"emp_id":"T9999","leave_type":"SICK","year":2025,"total_days":10}`
		c.Request = httptest.NewRequest(http.MethodPost, "/allocations", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Allocate(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeNotFound)
	})
}

func TestAllocationHandler_AllocateBulk(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeAllocationService{
		allocateBulkFn: func(ctx context.Context, req leaveallocation.BulkAllocationRequest) (leaveallocation.BulkAllocationResponse, error) {
			assert.Len(t, req.EmpIDs, 3)
			return leaveallocation.BulkAllocationResponse{
				Allocated: []leaveallocation.AllocationResponse{
					{EmpID: "T0001", LeaveType: req.LeaveType, Year: req.Year, TotalAllocated: 10, Remaining: 10},
					{EmpID: "T0003", LeaveType: req.LeaveType, Year: req.Year, TotalAllocated: 10, Remaining: 10},
				},
				Skipped: []leaveallocation.BulkAllocationFailure{
					{EmpID: "T0002", Code: apperror.CodeNotFound, Message: "employee not found"},
				},
			}, nil
		},
	}
	h := leaveallocation.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"emp_ids":["T0001","T0002","T0003"],"leave_type":"SICK","year":2025,"total_days":10}`
	c.Request = httptest.NewRequest(http.MethodPost, "/allocations/bulk", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.AllocateBulk(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"skipped"`)
	assert.Contains(t, w.Body.String(), `"emp_id":"T0002"`)
}

func TestAllocationHandler_IdempotencyCompletion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	apperror.Init()

	cacheKey := "idemp:/api/v1/leaves/allocations:admin:req-42"
	lockKey := cacheKey + ":lock"

	t.Run("success caches the payload and releases the lock", func(t *testing.T) {
		resp := leaveallocation.AllocationResponse{
			ID:             "7b498c10-9aa6-4f5c-9a2f-3f3b8a1f0c11",
			EmpID:          "T0001",
			LeaveType:      domain.LeaveTypeCasual,
			Year:           2025,
			TotalAllocated: 12,
			Remaining:      12,
		}
		svc := &fakeAllocationService{
			allocateFn: func(ctx context.Context, req leaveallocation.CreateAllocationRequest) (leaveallocation.AllocationResponse, error) {
				return resp, nil
			},
		}

		rdb, redisMock := redismock.NewClientMock()
		payload, err := json.Marshal(resp)
		assert.NoError(t, err)
		redisMock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
		redisMock.ExpectDel(lockKey).SetVal(1)

		h := leaveallocation.NewHandlerWithRedis(svc, rdb)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"emp_id":"T0001","leave_type":"CASUAL","year":2025,"total_days":12}`
		c.Request = httptest.NewRequest(http.MethodPost, "/allocations", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		h.Allocate(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("failure only releases the lock", func(t *testing.T) {
		svc := &fakeAllocationService{
			allocateFn: func(ctx context.Context, req leaveallocation.CreateAllocationRequest) (leaveallocation.AllocationResponse, error) {
				return leaveallocation.AllocationResponse{}, allocationerrors.ErrEmployeeNotFound
			},
		}

		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectDel(lockKey).SetVal(1)

		h := leaveallocation.NewHandlerWithRedis(svc, rdb)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"emp_id":"T9999","leave_type":"CASUAL","year":2025,"total_days":12}`
		c.Request = httptest.NewRequest(http.MethodPost, "/allocations", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		h.Allocate(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("no middleware keys means no redis traffic", func(t *testing.T) {
		svc := &fakeAllocationService{
			allocateFn: func(ctx context.Context, req leaveallocation.CreateAllocationRequest) (leaveallocation.AllocationResponse, error) {
				return leaveallocation.AllocationResponse{EmpID: req.EmpID}, nil
			},
		}

		rdb, redisMock := redismock.NewClientMock()
		h := leaveallocation.NewHandlerWithRedis(svc, rdb)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"emp_id":"T0001","leave_type":"CASUAL","year":2025,"total_days":12}`
		c.Request = httptest.NewRequest(http.MethodPost, "/allocations", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Allocate(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}

func TestAllocationHandler_GetBalances(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success with explicit year", func(t *testing.T) {
		svc := &fakeAllocationService{
			queryBalancesFn: func(ctx context.Context, empID string, year int) (map[string]leaveallocation.TypeBalance, error) {
				assert.Equal(t, "T0001", empID)
				assert.Equal(t, 2024, year)
				return map[string]leaveallocation.TypeBalance{
					domain.LeaveTypeSick: {Total: 10, Remaining: 3},
				}, nil
			},
		}
		h := leaveallocation.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "empId", Value: "T0001"}}
		c.Request = httptest.NewRequest(http.MethodGet, "/allocations/employee/T0001?year=2024", nil)

		h.GetBalances(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"remaining":3`)
	})

	t.Run("negative bad year", func(t *testing.T) {
		h := leaveallocation.NewHandler(&fakeAllocationService{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "empId", Value: "T0001"}}
		c.Request = httptest.NewRequest(http.MethodGet, "/allocations/employee/T0001?year=abc", nil)

		h.GetBalances(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
