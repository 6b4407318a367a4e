package leaverequest

import (
	"go-school/internal/middleware"
	"go-school/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("/apply", middleware.RBACAuthorize(rbacService, "leave", "apply"), handler.Apply)
		leaves.PUT("/requests/:id", middleware.RBACAuthorize(rbacService, "leave", "decide"), handler.Decide)

		leaves.GET("/requests", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/requests/pending", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetPending)
		leaves.GET("/employee/:empId", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByEmpID)

		leaves.GET("/my-requests", middleware.RBACAuthorize(rbacService, "leave", "read_own"), handler.GetMyRequests)
		leaves.GET("/my-entitlements", middleware.RBACAuthorize(rbacService, "leave", "balance"), handler.GetMyEntitlements)
		leaves.GET("/balance/:empId", middleware.RBACAuthorize(rbacService, "leave", "balance"), handler.GetBalance)

		leaves.GET("/types", handler.GetTypes)
	}
}
