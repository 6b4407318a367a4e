package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-school/internal/domain"
	"go-school/internal/middleware"
	"go-school/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeRBACService struct {
	enforceFn func(req domain.EnforceRequest) (bool, error)
}

func (f *fakeRBACService) Enforce(req domain.EnforceRequest) (bool, error) {
	return f.enforceFn(req)
}

func setupRBACRouter(role string, svc middleware.RBACService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	})
	router.GET("/leaves/requests", middleware.RBACAuthorize(svc, "leave", "read"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestRBACAuthorize(t *testing.T) {
	t.Run("allows a permitted role", func(t *testing.T) {
		svc := &fakeRBACService{
			enforceFn: func(req domain.EnforceRequest) (bool, error) {
				assert.Equal(t, domain.RoleAdmin, req.Role)
				assert.Equal(t, "leave", req.Resource)
				assert.Equal(t, "read", req.Action)
				return true, nil
			},
		}
		router := setupRBACRouter(domain.RoleAdmin, svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/requests", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative denial uses the error envelope", func(t *testing.T) {
		svc := &fakeRBACService{
			enforceFn: func(req domain.EnforceRequest) (bool, error) {
				return false, nil
			},
		}
		router := setupRBACRouter(domain.RoleTeacher, svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/requests", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), `"ok":false`)
		assert.Contains(t, w.Body.String(), apperror.CodeForbidden)
		assert.Contains(t, w.Body.String(), "leave:read")
	})

	t.Run("negative missing role means unauthenticated", func(t *testing.T) {
		router := setupRBACRouter("", &fakeRBACService{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/requests", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeUnauthorized)
	})

	t.Run("negative enforcer error maps to internal", func(t *testing.T) {
		svc := &fakeRBACService{
			enforceFn: func(req domain.EnforceRequest) (bool, error) {
				return false, errors.New("policy load failed")
			},
		}
		router := setupRBACRouter(domain.RoleAdmin, svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/requests", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeInternalError)
	})
}
