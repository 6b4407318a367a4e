package employee

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
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetAll)
		employees.GET("/options", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetOptions)
		employees.GET("/:empId", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetByEmpID)
		employees.POST("", middleware.RBACAuthorize(rbacService, "employee", "create"), handler.Create)
	}
}
