package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/progitek/parabellum/middleware"
	"github.com/progitek/parabellum/models"
)

// Handlers bundles the resource controllers for route registration.
type Handlers struct {
	Health        *HealthHandler
	Auth          *AuthHandler
	Users         *UserHandler
	Clients       *ClientHandler
	Techniciens   *TechnicienHandler
	Missions      *MissionHandler
	Interventions *InterventionHandler
	Notifications *NotificationHandler
	Reports       *ReportHandler
	Audit         *AuditHandler
	Dashboard     *DashboardHandler
}

// RegisterRoutes mounts all endpoints under /api/v1. Everything except
// health and the public auth endpoints sits behind the JWT middleware;
// destructive and administrative endpoints additionally require the
// Administrateur role.
func RegisterRoutes(r *gin.Engine, h *Handlers, users middleware.UserGetter, jwtSecret string, log *zap.Logger) {
	r.GET("/health", h.Health.Health)

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}

	protected := v1.Group("")
	protected.Use(middleware.Auth(users, jwtSecret, log))

	admin := middleware.RequireRoles(models.RoleAdministrateur)

	authed := protected.Group("/auth")
	{
		authed.GET("/me", h.Auth.Me)
		authed.POST("/logout", h.Auth.Logout)
		authed.POST("/change-password", h.Auth.ChangePassword)
	}

	usersGroup := protected.Group("/users")
	{
		usersGroup.GET("", h.Users.List)
		usersGroup.GET("/roles", h.Users.ListRoles)
		usersGroup.GET("/:id", h.Users.Get)
		usersGroup.POST("", admin, h.Users.Create)
		usersGroup.PUT("/:id", middleware.SelfOrRoles("id", models.RoleAdministrateur), h.Users.Update)
		usersGroup.DELETE("/:id", admin, h.Users.Delete)
	}

	clients := protected.Group("/clients")
	{
		clients.GET("", h.Clients.List)
		clients.GET("/:id", h.Clients.Get)
		clients.POST("", h.Clients.Create)
		clients.PUT("/:id", h.Clients.Update)
		clients.DELETE("/:id", admin, h.Clients.Delete)
	}

	technicians := protected.Group("/technicians")
	{
		technicians.GET("", h.Techniciens.List)
		technicians.GET("/:id", h.Techniciens.Get)
		technicians.POST("", h.Techniciens.Create)
		technicians.PUT("/:id", h.Techniciens.Update)
		technicians.DELETE("/:id", admin, h.Techniciens.Delete)
	}
	protected.GET("/specialites", h.Techniciens.ListSpecialites)

	missions := protected.Group("/missions")
	{
		missions.GET("", h.Missions.List)
		missions.GET("/:num", h.Missions.Get)
		missions.POST("", h.Missions.Create)
		missions.PUT("/:num", h.Missions.Update)
		missions.DELETE("/:num", admin, h.Missions.Delete)
	}

	interventions := protected.Group("/interventions")
	{
		interventions.GET("", h.Interventions.List)
		interventions.GET("/:id", h.Interventions.Get)
		interventions.POST("", h.Interventions.Create)
		interventions.PUT("/:id", h.Interventions.Update)
		interventions.DELETE("/:id", h.Interventions.Delete)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", h.Notifications.List)
		notifications.POST("", middleware.RequireRoles(models.RoleAdministrateur, models.RoleManager), h.Notifications.Send)
		notifications.GET("/preferences", h.Notifications.GetPreferences)
		notifications.PUT("/preferences", h.Notifications.UpdatePreferences)
		notifications.PUT("/read-all", h.Notifications.MarkAllRead)
		notifications.PUT("/:id/read", h.Notifications.MarkRead)
		notifications.DELETE("/:id", h.Notifications.Delete)
	}

	reports := protected.Group("/reports")
	{
		reports.GET("", h.Reports.List)
		reports.POST("/generate", h.Reports.Generate)
	}

	protected.GET("/audit", admin, h.Audit.List)
	protected.GET("/dashboard", h.Dashboard.Stats)
}
