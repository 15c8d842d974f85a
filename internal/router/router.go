// Package router wires services, handlers and middleware into the HTTP engine.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/Mugen-bitt/ai-finance-miniapp/internal/config"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/docs"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/handlers"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/middleware"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/services"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	// Verifier checks signed launch payloads. Leave it nil when no bot token
	// is configured; signed requests then fail with a configuration error.
	Verifier middleware.IdentityVerifier
}

// New builds the application's gin engine.
func New(deps Deps) *gin.Engine {
	cfg := deps.Config

	// Services
	auditService := services.NewAuditService(deps.DB)
	userService := services.NewUserService(deps.DB, auditService)
	transactionService := services.NewTransactionService(deps.DB)
	reportService := services.NewReportService(deps.DB)
	budgetService := services.NewBudgetService(deps.DB)
	goalService := services.NewGoalService(deps.DB)

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, reportService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Public routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	docs.SwaggerInfo.BasePath = cfg.APIPrefix
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	api := router.Group(cfg.APIPrefix)
	api.Use(middleware.TelegramAuth(deps.Verifier, userService, cfg.DevMode))

	api.GET("/me", userHandler.GetMe)

	transactions := api.Group("/transactions")
	collection(transactions, "POST", transactionHandler.CreateTransaction)
	collection(transactions, "GET", transactionHandler.ListTransactions)
	transactions.GET("/report/monthly", transactionHandler.GetMonthlyReport)
	transactions.GET("/categories/list", transactionHandler.GetCategories)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := api.Group("/budgets")
	collection(budgets, "POST", budgetHandler.CreateBudget)
	collection(budgets, "GET", budgetHandler.GetUserBudgets)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	goals := api.Group("/goals")
	collection(goals, "POST", goalHandler.CreateGoal)
	collection(goals, "GET", goalHandler.GetUserGoals)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	return router
}

// collection registers h for both the bare and the trailing-slash form of a
// collection path, so neither form is answered with a redirect.
func collection(g *gin.RouterGroup, method string, h gin.HandlerFunc) {
	g.Handle(method, "", h)
	g.Handle(method, "/", h)
}
