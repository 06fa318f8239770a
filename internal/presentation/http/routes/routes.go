// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellermetrics/leadstack-go/internal/application/container"
	"github.com/sellermetrics/leadstack-go/internal/presentation/http/handlers"
	"github.com/sellermetrics/leadstack-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Wrong verbs on known paths answer 405, not 404.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "message": "Method not allowed"})
	})

	// Initialize handlers
	leadHandlers := handlers.NewLeadHandlers(container.LeadCaptureService, container.LeadMetricsService, container.Logger, container.PerfTracker)
	analyticsHandlers := handlers.NewAnalyticsHandlers(container.AnalyticsService, container.DashboardService, container.FunnelBroadcaster, container.Logger, container.PerfTracker)
	sessionHandlers := handlers.NewSessionHandlers(container.SessionService, container.PersonalizationService, container.Logger, container.PerfTracker)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	commerceHandlers := handlers.NewCommerceHandlers(container.CommerceService, container.Logger, container.PerfTracker)
	streamHandlers := handlers.NewStreamHandlers(container.FunnelBroadcaster, container.Logger)

	api := r.Group("/api/v1")
	{
		// Authentication
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandlers.PostRegister)
			auth.POST("/login", authHandlers.PostLogin)
			auth.POST("/verify-2fa", authHandlers.PostVerifyTwoFactor)
			auth.POST("/oauth/callback", authHandlers.PostOAuthCallback)
			auth.POST("/visit", sessionHandlers.PostVisit)
		}

		// Visitor state and personalization
		api.POST("/state", sessionHandlers.PostState)
		api.DELETE("/state", sessionHandlers.DeleteSession)
		api.POST("/state/subscribe", sessionHandlers.PostSubscribe)
		api.POST("/state/persona", sessionHandlers.PostPersona)
		api.GET("/personalization", sessionHandlers.GetPersonalization)

		// Lead funnel
		leads := api.Group("/leads")
		{
			leads.POST("/evaluate", leadHandlers.PostEvaluate)
			leads.POST("/capture", leadHandlers.PostCaptureLead)
			leads.GET("/metrics", middleware.AuthMiddleware(container.Logger), leadHandlers.GetLeadMetrics)
		}

		// Analytics
		analytics := api.Group("/analytics")
		{
			analytics.POST("/track", analyticsHandlers.PostTrack)
			analytics.GET("/dashboard", middleware.AuthMiddleware(container.Logger), middleware.AdminOnlyMiddleware(container.Logger), analyticsHandlers.GetDashboard)
			analytics.GET("/stream", streamHandlers.GetFunnelStream)
		}

		// Storefront
		api.GET("/products", commerceHandlers.GetProducts)
		api.GET("/products/:id", commerceHandlers.GetProduct)
		api.POST("/orders", commerceHandlers.PostOrder)
		api.GET("/orders", middleware.AuthMiddleware(container.Logger), middleware.AdminOnlyMiddleware(container.Logger), commerceHandlers.GetOrders)
	}

	return r
}
