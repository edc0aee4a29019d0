// Package httpapi exposes the process's run-time status counters over
// HTTP for operators.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edirooss/sdbsession/internal/config"
	"github.com/edirooss/sdbsession/internal/status"
)

// NewRouter builds the status router: GET /statusz with the counter
// snapshot and GET /healthz for liveness probes.
func NewRouter(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = zap.NewStdLog(log.Named("gin")).Writer()

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": config.Version})
	})
	r.GET("/statusz", func(c *gin.Context) {
		c.JSON(http.StatusOK, status.Read())
	})
	return r
}
