package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	portssvc "github.com/ucontacts/contacts_app/internal/core/ports/services"
	"github.com/ucontacts/contacts_app/internal/middleware"
)

// HealthResponse reports the status of the service and its dependencies.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

func registerHealthRoutes(r *gin.Engine, services *portssvc.ServiceContainer, dbPool *pgxpool.Pool) {
	r.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()
		resp := HealthResponse{Status: "ok", Database: "ok", Cache: "ok"}
		code := http.StatusOK

		if err := dbPool.Ping(ctx); err != nil {
			logger := middleware.GetLoggerFromCtx(ctx)
			logger.Error("database ping failed", "error", err)
			resp.Status = "unhealthy"
			resp.Database = "unavailable"
			code = http.StatusServiceUnavailable
		}

		// A down cache degrades reads but does not make the service
		// unhealthy; requests fall through to the database.
		if services.Cache == nil {
			resp.Cache = "disabled"
		} else if err := services.Cache.Ping(ctx); err != nil {
			logger := middleware.GetLoggerFromCtx(ctx)
			logger.Warn("cache ping failed", "error", err)
			resp.Cache = "unavailable"
		}

		c.JSON(code, resp)
	})
}
