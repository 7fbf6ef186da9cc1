package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/easytrack/backend/internal/auth"
	"github.com/easytrack/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(
	app *fiber.App,
	dashboardSvc *service.DashboardService,
	mapSvc *service.MapService,
	fieldDataSvc *service.FieldDataService,
	insightsSvc *service.InsightsService,
	provider auth.Provider,
	store HealthChecker,
) {
	handler := NewHandler(dashboardSvc, mapSvc, fieldDataSvc, insightsSvc, provider, store)

	// Health check
	app.Get("/health", handler.HealthCheck)

	requireAuth := RequireAuth(provider)
	api := app.Group("/api/v1")

	// Auth endpoints; only /me needs a session
	authGroup := api.Group("/auth")
	{
		authGroup.Post("/signup", handler.SignUp)
		authGroup.Post("/signin", handler.SignIn)
		authGroup.Post("/oauth", handler.SignInWithIdP)
		authGroup.Post("/password-strength", handler.PasswordStrength)
		authGroup.Get("/me", requireAuth, handler.Me)
	}

	// Dashboard, alerts, reports, map and data entry need a session
	{
		api.Get("/dashboard", requireAuth, handler.GetDashboard)
		api.Get("/alerts", requireAuth, handler.GetAlerts)
		api.Get("/reports", requireAuth, handler.GetReports)

		api.Get("/map/points", requireAuth, handler.GetMapPoints)
		api.Post("/map/refresh", requireAuth, handler.RefreshMap)

		api.Get("/field-data", requireAuth, handler.ListFieldData)
		api.Post("/field-data", requireAuth, handler.CreateFieldData)
	}
}
