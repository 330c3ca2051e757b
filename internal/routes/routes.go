package routes

import (
	"file_integrity_backend/internal/handlers"
	"file_integrity_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options - служебные маршруты, которые включаются конфигурацией
type Options struct {
	Metrics bool
	Swagger bool
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authMW gin.HandlerFunc,
	opts Options,
) {
	appHandlers.HealthHandler.RegisterRoutes(ginRouter)

	api := ginRouter.Group("/api")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, authMW)
		appHandlers.FileHandler.RegisterRoutes(api, authMW)
	}

	if opts.Metrics {
		ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))
		logger.Info("Metrics route /metrics registered")
	}

	if opts.Swagger {
		ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		logger.Info("Swagger route /swagger registered")
	}
}
