package routes

import (
	"net/http"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// Handlers groups every HTTP handler the API mounts
type Handlers struct {
	Accounts        *handler.AccountHandler
	Transactions    *handler.TransactionHandler
	PrizeRequests   *handler.PrizeRequestHandler
	GoalSubmissions *handler.GoalSubmissionHandler
	Stats           *handler.StatsHandler
	Health          *handler.HealthHandler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers, verifier middleware.TokenVerifier) {
	router.GET("/health", h.Health.Health)

	teacher := middleware.RequireRole(entity.RoleTeacher)
	student := middleware.RequireRole(entity.RoleStudent)

	api := router.Group("/api", middleware.Auth(verifier))

	accounts := api.Group("/accounts")
	{
		accounts.POST("", teacher, h.Accounts.OpenAccount)
		accounts.GET("", h.Accounts.ListAccounts)
		accounts.GET("/:id", h.Accounts.GetAccount)
		accounts.GET("/:id/reconcile", teacher, h.Accounts.Reconcile)
	}

	transactions := api.Group("/transactions")
	{
		transactions.POST("", teacher, h.Transactions.RecordTransaction)
		transactions.GET("", h.Transactions.ListTransactions)
		transactions.POST("/bulk", teacher, h.Transactions.AwardBulk)
	}

	prizeRequests := api.Group("/prize-requests")
	{
		prizeRequests.POST("", student, h.PrizeRequests.RequestPrize)
		prizeRequests.GET("", h.PrizeRequests.ListPrizeRequests)
		prizeRequests.POST("/:id/approve", teacher, h.PrizeRequests.ApprovePrizeRequest)
		prizeRequests.POST("/:id/deny", teacher, h.PrizeRequests.DenyPrizeRequest)
	}

	goalSubmissions := api.Group("/goal-submissions")
	{
		goalSubmissions.POST("", student, h.GoalSubmissions.SubmitGoals)
		goalSubmissions.GET("", h.GoalSubmissions.ListSubmissions)
		goalSubmissions.PATCH("/:id", h.GoalSubmissions.UpdateSubmission)
		goalSubmissions.DELETE("/:id", h.GoalSubmissions.DeleteSubmission)
	}

	stats := api.Group("/stats")
	{
		stats.GET("/dashboard", teacher, h.Stats.Dashboard)
		stats.GET("/student", h.Stats.Student)
		stats.GET("/classes/:id", teacher, h.Stats.Class)
		stats.GET("/overview", teacher, h.Stats.Overview)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
}

// WithCORS wraps the router so browsers from allowedOrigins can call the API
func WithCORS(router http.Handler, allowedOrigins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler(router)
}
