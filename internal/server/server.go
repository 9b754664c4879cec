// Package server assembles services, handlers and routes into a gin engine.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"sportfund/internal/handlers"
	"sportfund/internal/metrics"
	"sportfund/internal/middleware"
	"sportfund/internal/models"
	"sportfund/internal/services"
)

// Services bundles every domain service the API exposes.
type Services struct {
	Feed        services.AthleteFeedServicer
	Stats       services.SeasonStatsServicer
	Discovery   services.DiscoveryServicer
	Goals       services.CareerGoalServicer
	Purchases   services.PurchaseRequestServicer
	Investments services.InvestmentServicer
	Audit       services.AuditServicer
}

// NewServices wires the database-backed services. m may be nil.
func NewServices(db *gorm.DB, registry services.SportRegistry, recentUpdatesLimit int, m *metrics.Metrics) *Services {
	feed := services.NewAthleteFeedService(db)
	return &Services{
		Feed:        feed,
		Stats:       services.NewSeasonStatsService(db, registry, feed, m),
		Discovery:   services.NewDiscoveryService(db, registry, recentUpdatesLimit, m),
		Goals:       services.NewCareerGoalService(db, feed),
		Purchases:   services.NewPurchaseRequestService(db, feed, m),
		Investments: services.NewInvestmentService(db, feed, m),
		Audit:       services.NewAuditService(db),
	}
}

// Options controls the optional parts of the router.
type Options struct {
	PipelineAPIKeys []string
	Metrics         *metrics.Metrics
	MetricsEnabled  bool
	Swagger         bool
	AllowedOrigins  []string

	// HealthCheck backs /api/health when set; a failure reports 503.
	HealthCheck func(ctx context.Context) error
}

const healthCheckTimeout = 2 * time.Second

// NewRouter builds the HTTP router with all API routes under /api/v1.
func NewRouter(svc *Services, opts Options) *gin.Engine {
	athleteHandler := handlers.NewAthleteHandler(svc.Discovery, svc.Feed)
	statsHandler := handlers.NewSeasonStatsHandler(svc.Stats)
	goalHandler := handlers.NewCareerGoalHandler(svc.Goals, svc.Audit)
	purchaseHandler := handlers.NewPurchaseRequestHandler(svc.Purchases, svc.Audit)
	investmentHandler := handlers.NewInvestmentHandler(svc.Investments, svc.Audit)
	auditHandler := handlers.NewAuditLogHandler(svc.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging(opts.Metrics))
	router.Use(middleware.ErrorHandler())

	router.Use(middleware.CORS(opts.AllowedOrigins))

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if opts.MetricsEnabled && opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	router.GET("/api/health", healthHandler(opts.HealthCheck))

	v1 := router.Group("/api/v1")

	// Machine ingestion
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(opts.PipelineAPIKeys...))
	pipeline.PUT("/athletes/:id/stats", statsHandler.PipelineSubmit)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	athleteWriters := middleware.RequireRole(models.RoleAthlete, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	athletes := protected.Group("/athletes")
	athletes.GET("", athleteHandler.Discover)
	athletes.GET("/:id", athleteHandler.GetProfile)
	athletes.GET("/:id/updates", athleteHandler.ListUpdates)

	athletes.PUT("/:id/stats", athleteWriters, statsHandler.SubmitStats)
	athletes.GET("/:id/stats/:sport", statsHandler.GetCurrentStats)
	athletes.GET("/:id/stats/:sport/history", statsHandler.GetStatsHistory)

	protected.GET("/sports", statsHandler.ListSports)

	athletes.GET("/:id/goals", goalHandler.GetGoals)
	athletes.POST("/:id/goals", athleteWriters, goalHandler.CreateGoal)
	athletes.GET("/:id/goals/overview", goalHandler.GetOverview)
	athletes.PUT("/:id/goals/:goalId", athleteWriters, goalHandler.UpdateGoal)
	athletes.DELETE("/:id/goals/:goalId", athleteWriters, goalHandler.DeleteGoal)
	athletes.POST("/:id/goals/:goalId/milestones", athleteWriters, goalHandler.AddMilestone)
	athletes.PUT("/:id/goals/:goalId/milestones/:milestoneId", athleteWriters, goalHandler.UpdateMilestone)

	athletes.GET("/:id/purchase-requests", purchaseHandler.ListRequests)
	athletes.POST("/:id/purchase-requests", athleteWriters, purchaseHandler.CreateRequest)
	athletes.GET("/:id/purchase-requests/overview", purchaseHandler.GetOverview)

	athletes.POST("/:id/investments", middleware.RequireRole(models.RoleInvestor), investmentHandler.RecordInvestment)
	athletes.GET("/:id/investments", investmentHandler.GetAthleteInvestments)

	protected.GET("/purchase-requests/pending-count", adminOnly, purchaseHandler.CountPending)

	admin := protected.Group("/admin")
	admin.Use(adminOnly)
	admin.PUT("/purchase-requests/:requestId/status", purchaseHandler.UpdateStatus)
	admin.POST("/purchase-requests/bulk-status", purchaseHandler.BulkUpdateStatus)
	admin.GET("/audit-logs", auditHandler.ListAuditLogs)

	return router
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
