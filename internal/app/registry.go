package app

import (
	"database/sql"

	"go-school/internal/employee"
	"go-school/internal/leaveallocation"
	"go-school/internal/leaverequest"
	"go-school/internal/messaging/kafka"
	"go-school/internal/rbac"
	"go-school/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	allocationRepo := leaveallocation.NewRepository(gormDB, db)
	leaveRequestRepo := leaverequest.NewRepository(gormDB, db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	// The leave services see employees only through the directory contract
	// exposed by the employee service, never its repository.
	employeeService := employee.NewService(db, employeeRepo, counterRepo, rdb)
	allocationService := leaveallocation.NewService(db, allocationRepo, employeeService)
	leaveRequestService := leaverequest.NewServiceWithOptions(
		db, leaveRequestRepo, allocationRepo, employeeService, outboxRepo, nil,
	)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	allocationHandler := leaveallocation.NewHandlerWithRedis(allocationService, rdb)
	leaveRequestHandler := leaverequest.NewHandler(leaveRequestService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leaveallocation.RegisterRoutes(api, allocationHandler, rbacService, rdb)
		leaverequest.RegisterRoutes(api, leaveRequestHandler, rbacService)
	}

	return nil
}
