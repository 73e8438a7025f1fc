package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/infra"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Health returns a JSON health check response.
// Reports the backend circuit breaker and, when configured, Redis. An open
// breaker is degraded, not down: the cart keeps working offline of the
// backend until a remote call is needed.
func Health(cb *infra.CircuitBreaker, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		redisStatus := "disabled"
		var parked int64
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			} else {
				parked, _ = worker.DLQLength(ctx, rdb, worker.QueueReceiptEmail)
			}
		}

		backend := cb.State()
		status := http.StatusOK
		if redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":       status == http.StatusOK,
			"backend":  backend.String(),
			"degraded": backend != infra.CBClosed,
			"redis":    redisStatus,
			"dlq":      parked,
		})
	}
}
