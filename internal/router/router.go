package router

import (
	"github.com/ferrarijessie/j.money.api/internal/config"
	"github.com/ferrarijessie/j.money.api/internal/handler"
	"github.com/ferrarijessie/j.money.api/internal/middleware"
	"github.com/ferrarijessie/j.money.api/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and mounts the API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	expenseService := service.NewExpenseService(db)
	incomeService := service.NewIncomeService(db)
	savingService := service.NewSavingService(db)
	summaryService := service.NewSummaryService(expenseService, incomeService, savingService)

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret

	// signup and login need no token
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.Issuer, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.POST("/auth/logout", authHandler.Logout)

	protected.GET("/me", handler.GetMe)
	protected.PUT("/me", handler.UpdateProfile(db))
	protected.POST("/me/password", handler.ChangePassword(db, cfg.Security.BcryptCost))
	protected.POST("/me/token", handler.RotateToken(db))

	expenseHandler := handler.NewExpenseHandler(expenseService)
	protected.GET("/expense-types", expenseHandler.ListTypes)
	protected.POST("/expense-types", expenseHandler.CreateType)
	protected.GET("/expense-types/:id", expenseHandler.GetType)
	protected.PUT("/expense-types/:id", expenseHandler.UpdateType)
	protected.DELETE("/expense-types/:id", expenseHandler.DeleteType)
	protected.GET("/expenses", expenseHandler.ListExpenses)
	protected.POST("/expenses", expenseHandler.CreateExpense)
	protected.GET("/expenses/:id", expenseHandler.GetExpense)
	protected.PUT("/expenses/:id", expenseHandler.UpdateExpense)
	protected.DELETE("/expenses/:id", expenseHandler.DeleteExpense)

	incomeHandler := handler.NewIncomeHandler(incomeService)
	protected.GET("/income-types", incomeHandler.ListTypes)
	protected.POST("/income-types", incomeHandler.CreateType)
	protected.GET("/income-types/:id", incomeHandler.GetType)
	protected.PUT("/income-types/:id", incomeHandler.UpdateType)
	protected.DELETE("/income-types/:id", incomeHandler.DeleteType)
	protected.GET("/incomes", incomeHandler.ListIncomes)
	protected.POST("/incomes", incomeHandler.CreateIncome)
	protected.GET("/incomes/:id", incomeHandler.GetIncome)
	protected.PUT("/incomes/:id", incomeHandler.UpdateIncome)
	protected.DELETE("/incomes/:id", incomeHandler.DeleteIncome)

	savingHandler := handler.NewSavingHandler(savingService)
	protected.GET("/saving-types", savingHandler.ListTypes)
	protected.POST("/saving-types", savingHandler.CreateType)
	protected.GET("/saving-types/:id", savingHandler.GetType)
	protected.PUT("/saving-types/:id", savingHandler.UpdateType)
	protected.DELETE("/saving-types/:id", savingHandler.DeleteType)
	protected.GET("/savings", savingHandler.ListValues)
	protected.POST("/savings", savingHandler.CreateValue)
	protected.GET("/savings/:id", savingHandler.GetValue)
	protected.PUT("/savings/:id", savingHandler.UpdateValue)
	protected.DELETE("/savings/:id", savingHandler.DeleteValue)

	summaryHandler := handler.NewSummaryHandler(summaryService)
	protected.GET("/summary/:year/:month", summaryHandler.GetSummary)
	protected.GET("/summary/:year/:month/savings", savingHandler.SavingsSummary)

	logHandler := handler.NewLogHandler(db)
	protected.GET("/logs", logHandler.ListLogs)

	exportHandler := handler.NewExportHandler(expenseService, incomeService, savingService)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
