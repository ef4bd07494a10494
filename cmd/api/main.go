package main

import (
	"fmt"
	"funfinance/internal/config"
	"funfinance/internal/database"
	"funfinance/internal/handlers"
	"funfinance/internal/logger"
	"funfinance/internal/middleware"
	"funfinance/internal/services"
	"funfinance/internal/validator"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "funfinance/internal/docs" // Import swagger docs
)

// @title           FunFinance API
// @version         1.0
// @description     FunFinance is a household budgeting application where families track shared budgets, categorize expenses, and invite members.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	familyService := services.NewFamilyService(db, appConfig.InvitationTTL)
	budgetService := services.NewBudgetService(db)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, auditService)
	familyHandler := handlers.NewFamilyHandler(familyService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// User routes
	users := v1.Group("/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.GET("", userHandler.GetUsers)
	users.GET("/:id", userHandler.GetUser)
	users.PUT("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)
	users.POST("/:id/join-family/:familyId", userHandler.JoinFamily)
	users.POST("/:id/leave-family", userHandler.LeaveFamily)
	users.GET("/:id/family", userHandler.GetUserFamily)

	// Family routes
	families := v1.Group("/families")
	families.GET("", familyHandler.GetFamilies)
	families.POST("", familyHandler.CreateFamily)
	families.GET("/invitations", familyHandler.GetInvitationsByEmail)
	families.POST("/accept-invitation", familyHandler.AcceptInvitation)
	families.GET("/:id", familyHandler.GetFamily)
	families.PUT("/:id", familyHandler.UpdateFamily)
	families.DELETE("/:id", familyHandler.DeleteFamily)
	families.GET("/:id/members", familyHandler.GetFamilyMembers)
	families.GET("/:id/invitations", familyHandler.GetFamilyInvitations)
	families.POST("/:id/invitations", familyHandler.CreateInvitation)

	// Budget routes
	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/expenses", budgetHandler.GetBudgetExpenses)
	budgets.GET("/:id/usage", budgetHandler.GetBudgetUsage)
	budgets.GET("/:id/remaining", budgetHandler.GetBudgetRemaining)
	budgets.GET("/:id/exceeded", budgetHandler.GetBudgetExceeded)
	budgets.GET("/:id/near-limit", budgetHandler.GetBudgetNearLimit)

	// Category routes
	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
	categories.GET("/:id/total", categoryHandler.GetCategoryTotal)

	// Expense routes
	expenses := v1.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/total-by-user", expenseHandler.GetTotalByUser)
	expenses.GET("/total-by-category", expenseHandler.GetTotalByCategory)
	expenses.GET("/by-category", expenseHandler.GroupByCategory)
	expenses.GET("/by-user", expenseHandler.GroupByUser)
	expenses.GET("/by-day", expenseHandler.GroupByDay)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	log.Infof("Starting FunFinance backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
