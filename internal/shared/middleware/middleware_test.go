package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"nutrition-backend/internal/domains/user"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAdminMiddleware(t *testing.T) {
	setRole := func(role interface{}) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("role", role)
			c.Next()
		}
	}

	perform := func(handlers ...gin.HandlerFunc) *httptest.ResponseRecorder {
		router := gin.New()
		chain := append(handlers, func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		router.GET("/admin", chain...)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("admin role passes through", func(t *testing.T) {
		rec := perform(setRole(user.RoleAdmin), AdminMiddleware())
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("customer role is forbidden", func(t *testing.T) {
		rec := perform(setRole(user.RoleCustomer), AdminMiddleware())
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "FORBIDDEN")
	})

	t.Run("missing role is forbidden", func(t *testing.T) {
		rec := perform(AdminMiddleware())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("sensitive detail")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
	assert.NotContains(t, rec.Body.String(), "sensitive detail")
}
