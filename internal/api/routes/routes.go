package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vagondeck/internal/api/handlers"
	"vagondeck/internal/api/middleware"
	"vagondeck/internal/config"
	"vagondeck/internal/services"
	"vagondeck/internal/vagon"
)

// Register wires every page and API route onto the engine.
//
// gin refuses static routes next to a wildcard sibling, so paths like
// /api/machines/permission-fields are dispatched inside the :id handler
// instead of getting their own route.
func Register(router *gin.Engine, client *vagon.Client, cfg config.Config, registry *prometheus.Registry) {
	auth := services.NewAuthService(cfg)
	notifier := services.NewNotificationService(cfg.NotifyURLs)
	uploads := services.NewUploadService(client)

	machines := handlers.NewMachineHandler(client, notifier)
	files := handlers.NewFileHandler(client, uploads)
	images := handlers.NewImageHandler(client, notifier)
	logs := handlers.NewLogHandler(client)
	seats := handlers.NewSeatHandler(client)
	software := handlers.NewSoftwareHandler(client)
	pages := handlers.NewPageHandler(client, cfg)
	authHandler := handlers.NewAuthHandler(auth, cfg.Environment == "production")

	router.GET("/api/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.GET("/login", authHandler.LoginForm)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)
	router.POST("/logout", authHandler.Logout)

	wall := middleware.Auth(auth)

	page := router.Group("/", wall)
	{
		page.GET("/", pages.Index)
		page.GET("/machines/:id", pages.MachineDetail)
		page.GET("/files", pages.Files)
		page.GET("/images", pages.Images)
		page.GET("/logs", pages.Logs)
	}

	api := router.Group("/api", wall)
	{
		api.GET("/machines", machines.List)
		api.POST("/machines", machines.Create)
		api.GET("/machines/:id", func(c *gin.Context) {
			if c.Param("id") == "permission-fields" {
				machines.PermissionFields(c)
				return
			}
			machines.Get(c)
		})
		api.POST("/machines/:id/start", machines.Start)
		api.POST("/machines/:id/stop", machines.Stop)
		api.POST("/machines/:id/reset", machines.Reset)
		api.POST("/machines/:id/access", machines.Access)
		api.GET("/machines/:id/machine-types", machines.AvailableMachineTypes)
		api.POST("/machines/:id/machine-types", machines.SetMachineType)
		api.PUT("/machines/:id/permissions", machines.UpdatePermissions)
		api.POST("/machines/:id/contents", machines.ListContent)
		api.GET("/machines/:id/files", machines.Files)

		api.GET("/files", files.List)
		api.POST("/files", files.Create)
		api.GET("/files/:id", func(c *gin.Context) {
			if c.Param("id") == "capacity" {
				files.Capacity(c)
				return
			}
			notFound(c)
		})
		api.POST("/files/:id", func(c *gin.Context) {
			if c.Param("id") == "upload" {
				files.Upload(c)
				return
			}
			notFound(c)
		})
		api.POST("/files/:id/complete", files.Complete)
		api.GET("/files/:id/download", files.Download)
		api.DELETE("/files/:id", files.Delete)

		api.GET("/images", images.List)
		api.POST("/images", images.Create)
		api.GET("/images/:id", images.Get)
		api.POST("/images/:id", func(c *gin.Context) {
			if c.Param("id") == "install" {
				images.Install(c)
				return
			}
			notFound(c)
		})
		api.POST("/images/:id/assign", images.Assign)
		api.DELETE("/images/:id", images.Delete)

		api.GET("/logs", logs.List)
		api.GET("/logs/archived", logs.Archived)

		api.GET("/seats/:id", seats.Get)
		api.GET("/softwares", software.List)
	}
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":       "not found",
		"client_code": http.StatusNotFound,
		"status_code": http.StatusNotFound,
	})
}
