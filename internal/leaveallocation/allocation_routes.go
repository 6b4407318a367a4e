package leaveallocation

import (
	"go-school/internal/middleware"
	"go-school/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	allocations := r.Group("/allocations")
	allocations.Use(middleware.AuthMiddleware())
	{
		allocations.POST("",
			middleware.RBACAuthorize(rbacService, "allocation", "create"),
			middleware.Idempotency(rdb),
			handler.Allocate,
		)
		allocations.POST("/bulk",
			middleware.RBACAuthorize(rbacService, "allocation", "create"),
			middleware.Idempotency(rdb),
			handler.AllocateBulk,
		)
		allocations.GET("/employee/:empId",
			middleware.RBACAuthorize(rbacService, "allocation", "read"),
			handler.GetBalances,
		)
	}
}
