package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewHealthRouter builds the ops-facing HTTP surface served beside the gRPC
// listener: load balancer health and readiness probes.
func NewHealthRouter(stage string, logger *zap.Logger) *gin.Engine {
	if stage == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	logger.Info("Health router initialized", zap.String("stage", stage))
	return router
}
