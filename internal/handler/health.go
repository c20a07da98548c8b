package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/infra"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Pings every tenant database plus Redis; never exposes credentials or DSNs.
func Health(tenants *tenant.Registry, rdb *redis.Client, mailCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := map[string]string{}
		allConnected := true
		_ = tenants.Each(func(key string, db *gorm.DB) error {
			status := "connected"
			sqlDB, err := db.DB()
			if err != nil || sqlDB.PingContext(ctx) != nil {
				status = "error"
				allConnected = false
			}
			dbStatus[key] = status
			return nil
		})

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
			allConnected = false
		}

		status := http.StatusOK
		if !allConnected {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":      status == http.StatusOK,
			"db":      dbStatus,
			"redis":   redisStatus,
			"mail_cb": mailCB.State().String(),
		})
	}
}
