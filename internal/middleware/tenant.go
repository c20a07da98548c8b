package middleware

import (
	"net/http"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/apierror"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"

	"github.com/gin-gonic/gin"
)

// Tenant resolves the X-Tenant-ID header against the registry and stamps the
// tenant key onto the request context. Without the header the default tenant
// is used; an unknown tenant is rejected before any handler runs.
func Tenant(registry *tenant.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Tenant-ID")
		if key == "" {
			key = tenant.DefaultKey
		}
		if !registry.Has(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New("unknown tenant"))
			return
		}
		c.Request = c.Request.WithContext(tenant.WithKey(c.Request.Context(), key))
		c.Next()
	}
}
