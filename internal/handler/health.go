package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/angelous0/muestras/internal/infra"
	"github.com/angelous0/muestras/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity plus the storage breaker; never exposes
// credentials or internals. rdb and cb may be nil when not configured.
func Health(db *gorm.DB, rdb *redis.Client, cb *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" {
			status = http.StatusServiceUnavailable
		}
		body := gin.H{"db": dbStatus}

		if rdb != nil {
			redisStatus := "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
				status = http.StatusServiceUnavailable
			}
			body["redis"] = redisStatus
			if n, err := worker.LongitudDLQ(ctx, rdb, worker.QueueArchivos); err == nil {
				body["dlq_archivos"] = n
			}
		}
		if cb != nil {
			// An open breaker degrades uploads but the API still answers.
			body["storage"] = cb.State().String()
		}

		body["ok"] = status == http.StatusOK
		c.JSON(status, body)
	}
}
