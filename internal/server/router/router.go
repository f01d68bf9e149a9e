package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/hannan/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(records *handlers.RecordsHandler, reports *handlers.ReportsHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	{
		api.GET("/records/:module", records.List)
		api.POST("/records/:module", records.Create)
		api.GET("/records/:module/:id", records.Get)
		api.PUT("/records/:module/:id", records.Update)
		api.DELETE("/records/:module/:id", records.Delete)

		api.GET("/search/:module", records.Search)
		api.GET("/stats/:module", records.Stats)
		api.POST("/photos/:module/:id", records.UploadPhoto)

		api.GET("/summaries/calculate", reports.CalculateSummary)
		api.GET("/dashboard", reports.Dashboard)
		api.GET("/modules", reports.Modules)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		// keep-alive pings log at debug
		if c.Request.URL.Path == "/health" {
			logger.Debug("request completed", fields...)
			return
		}
		logger.Info("request completed", fields...)
	}
}
