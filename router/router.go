package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/procurement-app/controllers"
	"github.com/yeremiapane/procurement-app/middlewares"
	"github.com/yeremiapane/procurement-app/models"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	branchCtrl := controllers.NewBranchController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	itemCtrl := controllers.NewItemController(db)
	requestCtrl := controllers.NewRequestController(db)
	purchaseCtrl := controllers.NewPurchaseController(db)
	reportCtrl := controllers.NewReportController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/api")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	api.POST("/logout", userCtrl.Logout)
	api.GET("/profile", userCtrl.GetProfile)

	// Catalog is readable by every signed-in role.
	api.GET("/branches", branchCtrl.GetAllBranches)
	api.GET("/categories", categoryCtrl.GetAllCategories)
	api.GET("/items", itemCtrl.GetAllItems)
	api.GET("/items/:item_id", itemCtrl.GetItemByID)

	// WEEKLY REQUESTS (branch users)
	branch := api.Group("/requests")
	branch.Use(middlewares.RequireRoles(models.RoleBranch))
	{
		branch.GET("/current", requestCtrl.GetCurrentDraft)
		branch.GET("/history", requestCtrl.History)
		branch.POST("/:request_id/items", requestCtrl.ReplaceItems)
		branch.POST("/:request_id/submit", requestCtrl.Submit)
	}

	// PURCHASE RUN (ops/admin)
	ops := api.Group("/purchase-run")
	ops.Use(middlewares.RequireRoles(models.RoleOps, models.RoleAdmin))
	{
		ops.GET("", purchaseCtrl.GetRun)
		ops.POST("/:request_id/update-items", purchaseCtrl.UpdateItems)
		ops.POST("/:request_id/finalize",
			middlewares.FinalizeLoggerMiddleware(), purchaseCtrl.Finalize)
	}

	// REPORTS (ops/admin)
	reports := api.Group("/reports")
	reports.Use(middlewares.RequireRoles(models.RoleOps, models.RoleAdmin))
	{
		reports.GET("/branch-trend", reportCtrl.BranchTrend)
		reports.GET("/purchase-logs", reportCtrl.PurchaseLogs)
		reports.GET("/purchase-logs/:log_id/pdf", reportCtrl.PurchaseLogPDF)
		reports.GET("/dashboard", reportCtrl.Dashboard)
	}

	// MASTER DATA (admin only)
	admin := api.Group("")
	admin.Use(middlewares.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.POST("/users", userCtrl.CreateUser)
		admin.DELETE("/users/:user_id", userCtrl.DeleteUser)

		admin.POST("/branches", branchCtrl.CreateBranch)
		admin.PATCH("/branches/:branch_id", branchCtrl.UpdateBranch)
		admin.DELETE("/branches/:branch_id", branchCtrl.DeleteBranch)

		admin.POST("/categories", categoryCtrl.CreateCategory)
		admin.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		admin.POST("/items", itemCtrl.CreateItem)
		admin.PATCH("/items/:item_id", itemCtrl.UpdateItem)
		admin.DELETE("/items/:item_id", itemCtrl.DeleteItem)
	}

	// Live ops board over websocket; token comes as a query parameter.
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("", controllers.BoardHandler)
	}

	return r
}
