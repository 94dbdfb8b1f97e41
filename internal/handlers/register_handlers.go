package handlers

import (
	"github.com/SscSPs/pettycash_backend/cmd/docs"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/middleware"
	"github.com/SscSPs/pettycash_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerValidators()

	r.GET("/health", getHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.GET("/health", getHealth)

	// Public authentication routes
	authHandler := NewAuthHandler(services)
	registerAuthRoutes(v1, authHandler)
	if cfg.GoogleOAuthEnabled() {
		registerGoogleOAuthRoutes(v1, authHandler, cfg.FrontendBaseURL, cfg.IsProduction)
	}

	setupAPIV1Routes(v1, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the authenticated part of /api/v1
func setupAPIV1Routes(
	v1 *gin.RouterGroup,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	protected := v1.Group("", middleware.AuthMiddleware(cfg.JWTSecret))

	registerRecordRoutes(protected, service.Record)
	registerReportingRoutes(protected, service.Reporting)
	registerExportRoutes(protected, service.Export)
	registerUserRoutes(protected, service.User, service.Organization)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
