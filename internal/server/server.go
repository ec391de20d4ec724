// Package server wires services, handlers and middleware into the HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/werner-traut/budget/internal/config"
	"github.com/werner-traut/budget/internal/database"
	_ "github.com/werner-traut/budget/internal/docs" // swagger docs
	"github.com/werner-traut/budget/internal/handlers"
	"github.com/werner-traut/budget/internal/middleware"
	"github.com/werner-traut/budget/internal/services"
)

// Services is the full set of business services behind the API.
type Services struct {
	Users     services.UserServicer
	Entries   services.BudgetEntryServicer
	Periods   services.PayPeriodServicer
	Adhoc     services.AdhocSettingsServicer
	Balances  services.DailyBalanceServicer
	History   services.BalanceHistoryServicer
	Dashboard services.DashboardServicer
	Audit     services.AuditServicer

	// Ping reports whether the store is reachable.
	Ping func(ctx context.Context) error

	// Clock supplies the server time every request's "today" comes from.
	Clock func() time.Time
}

// NewServices builds every service on db using cfg.
func NewServices(db *gorm.DB, cfg *config.Config) *Services {
	audit := services.NewAuditService(db)
	entries := services.NewBudgetEntryService(db)
	periods := services.NewPayPeriodService(db, cfg.CascadeMaxRetries, audit)
	adhoc := services.NewAdhocSettingsService(db, cfg.DefaultAdhocDailyAmount)
	balances := services.NewDailyBalanceService(db)
	history := services.NewBalanceHistoryService(db)

	return &Services{
		Users:     services.NewUserService(db),
		Entries:   entries,
		Periods:   periods,
		Adhoc:     adhoc,
		Balances:  balances,
		History:   history,
		Dashboard: services.NewDashboardService(periods, entries, adhoc, balances, history),
		Audit:     audit,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
		Clock: time.Now,
	}
}

// NewRouter returns the gin engine serving the API.
func NewRouter(svc *Services, cfg *config.Config) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit)
	entryHandler := handlers.NewBudgetEntryHandler(svc.Entries, svc.Audit)
	periodHandler := handlers.NewPayPeriodHandler(svc.Periods, svc.Audit)
	adhocHandler := handlers.NewAdhocSettingsHandler(svc.Adhoc, svc.Audit)
	balanceHandler := handlers.NewDailyBalanceHandler(svc.Balances, svc.Audit)
	historyHandler := handlers.NewBalanceHistoryHandler(svc.History, cfg.BalanceHistoryLimit)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())
	clock := svc.Clock
	if clock == nil {
		clock = time.Now
	}
	router.Use(middleware.ServerDay(clock))
	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		if svc.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := svc.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Service-to-service routes
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/cascade", periodHandler.PipelineCascade)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/dashboard", dashboardHandler.GetDashboard)

	entries := protected.Group("/budget-entries")
	entries.GET("", entryHandler.ListEntries)
	entries.POST("", entryHandler.CreateEntry)
	entries.GET("/:id", entryHandler.GetEntry)
	entries.PUT("/:id", entryHandler.UpdateEntry)
	entries.DELETE("/:id", entryHandler.DeleteEntry)
	entries.POST("/:id/paid", entryHandler.MarkPaid)

	periods := protected.Group("/pay-periods")
	periods.GET("", periodHandler.ListPeriods)
	periods.POST("", periodHandler.CreatePeriod)
	periods.POST("/next", periodHandler.AddNextPeriod)
	periods.POST("/cascade", periodHandler.Cascade)
	periods.GET("/:id", periodHandler.GetPeriod)
	periods.PUT("/:id", periodHandler.UpdatePeriod)

	protected.GET("/adhoc-settings", adhocHandler.GetSettings)
	protected.PUT("/adhoc-settings", adhocHandler.UpdateSettings)

	protected.GET("/daily-balance", balanceHandler.GetBalance)
	protected.POST("/daily-balance", balanceHandler.UpsertBalance)

	history := protected.Group("/balance-history")
	history.GET("", historyHandler.ListHistory)
	history.GET("/export", historyHandler.ExportHistory)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
