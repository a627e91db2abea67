package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"tiendaropa/internal/apierror"
	"tiendaropa/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// Redis is optional: a nil client reports "disabled" and does not fail the check.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		})
	}
}

// ── Jobs Handler ──────────────────────────────────────────────────────────────

type JobsHandler struct{ rdb *redis.Client }

func NewJobsHandler(rdb *redis.Client) *JobsHandler { return &JobsHandler{rdb: rdb} }

var colasConocidas = map[string]string{
	"comprobante": worker.QueueComprobante,
	"email":       worker.QueueEmail,
}

// EstadoDLQ GET /v1/admin/jobs: pending and dead-lettered jobs per queue.
func (h *JobsHandler) EstadoDLQ(c *gin.Context) {
	ctx := c.Request.Context()
	resp := gin.H{}
	for nombre, cola := range colasConocidas {
		pendientes, err := h.rdb.LLen(ctx, cola).Result()
		if err != nil {
			respondError(c, err)
			return
		}
		fallidos, err := worker.DLQLength(ctx, h.rdb, cola)
		if err != nil {
			respondError(c, err)
			return
		}
		resp[nombre] = gin.H{"pendientes": pendientes, "fallidos": fallidos}
	}
	c.JSON(http.StatusOK, resp)
}

// Reintentar POST /v1/admin/jobs/:cola/reintentar?max=50
func (h *JobsHandler) Reintentar(c *gin.Context) {
	cola, ok := colasConocidas[c.Param("cola")]
	if !ok {
		c.JSON(http.StatusNotFound, apierror.New("Cola desconocida"))
		return
	}
	max, err := strconv.Atoi(c.DefaultQuery("max", "50"))
	if err != nil || max < 1 || max > 1000 {
		c.JSON(http.StatusBadRequest, apierror.New("max debe estar entre 1 y 1000"))
		return
	}
	movidos, err := worker.Requeue(c.Request.Context(), h.rdb, cola, max)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reencolados": movidos})
}
