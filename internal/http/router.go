package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/nityamhjn05/feedback-systems/internal/config"
	"github.com/nityamhjn05/feedback-systems/internal/http/handlers"
	"github.com/nityamhjn05/feedback-systems/internal/http/middleware"
	"github.com/nityamhjn05/feedback-systems/internal/models"
	"github.com/nityamhjn05/feedback-systems/internal/repo"
	"github.com/nityamhjn05/feedback-systems/internal/services"
)

type Dependencies struct {
	Config        *config.Config
	EmployeeRepo  *repo.EmployeeRepo
	AuthService   *services.AuthService
	ResetService  *services.ResetService
	FormService   *services.FormService
	UserService   *services.UserService
	ImportService *services.ImportService
	Logger        *slog.Logger
	RateLimiter   *middleware.RateLimiter
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(deps.Config.AllowedOrigins))

	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.ResetService)
	meHandler := handlers.NewMeHandler(deps.EmployeeRepo)
	formHandler := handlers.NewFormHandler(deps.FormService, deps.UserService)
	responseHandler := handlers.NewResponseHandler(deps.FormService)
	userAdminHandler := handlers.NewUserAdminHandler(deps.UserService, deps.ImportService)

	router.GET("/healthz", handlers.Health)

	api := router.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(deps.RateLimiter.Middleware())
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/check-employee", authHandler.CheckEmployee)
		authGroup.POST("/forgot-password", authHandler.Forgot)
		authGroup.GET("/verify-reset-token/:token", authHandler.VerifyResetToken)
		authGroup.POST("/reset-password", authHandler.Reset)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(middleware.AuthConfig{Secret: deps.Config.JWTSecret}))
	{
		protected.GET("/me", meHandler.GetMe)
		protected.GET("/user/forms", responseHandler.MyForms)
		protected.POST("/responses/:formId", responseHandler.Submit)
	}

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleAdministrator))
	{
		admin.POST("/forms", formHandler.Create)
		admin.PUT("/forms/:formId", formHandler.Update)
		admin.POST("/forms/:formId/assign", formHandler.Assign)
		admin.GET("/forms/:formId/responses", formHandler.Responses)
		admin.GET("/my-forms", formHandler.MyForms)
		admin.GET("/my-analytics", formHandler.MyAnalytics)
		admin.GET("/assigned-forms", formHandler.AssignedForms)
		admin.GET("/employees/search", formHandler.SearchEmployees)
		admin.GET("/employees/all", formHandler.AllEmployees)

		// Unscoped oversight of all forms is administrator-only.
		admin.GET("/forms", middleware.RequireRoles(models.RoleAdministrator), formHandler.List)
	}

	administrator := protected.Group("/administrator")
	administrator.Use(middleware.RequireRoles(models.RoleAdministrator))
	{
		administrator.GET("/users", userAdminHandler.List)
		administrator.DELETE("/users/:id", userAdminHandler.Delete)
		administrator.PATCH("/users/:id/role", userAdminHandler.ChangeRole)
		administrator.POST("/users/bulk-upload", userAdminHandler.BulkUpload)
	}

	return router
}
