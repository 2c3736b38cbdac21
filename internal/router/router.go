package router

import (
	"time"

	"shopmanager/internal/config"
	"shopmanager/internal/handler"
	"shopmanager/internal/middleware"
	"shopmanager/internal/repository"
	"shopmanager/internal/service"
	"shopmanager/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	reportRepo := repository.NewReportRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	catalogSvc := service.NewCatalogService(productRepo, movementRepo, rdb)
	checkoutSvc := service.NewCheckoutService(invoiceRepo, productRepo, movementRepo, dispatcher, rdb)
	reportSvc := service.NewReportService(reportRepo, invoiceRepo, rdb)
	settingsSvc := service.NewSettingsService(settingsRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc, settingsSvc)
	invoicesH := handler.NewInvoicesHandler(checkoutSvc, invoiceRepo, settingsRepo, cfg.PDFStoragePath)
	reportsH := handler.NewReportsHandler(reportSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: staff can sell and read; catalog and settings writes are admin only.
		staffOrAdmin := middleware.RequireRole("staff", "admin")
		adminOnly := middleware.RequireRole("admin")

		v1.POST("/checkout", staffOrAdmin, checkoutH.Checkout)

		v1.GET("/products", staffOrAdmin, productsH.List)
		v1.GET("/products/search", staffOrAdmin, productsH.Search)
		v1.GET("/products/low-stock", staffOrAdmin, productsH.LowStock)
		v1.GET("/products/:id", staffOrAdmin, productsH.GetByID)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Delete)
			prods.PATCH("/:id/stock", productsH.AdjustStock)
		}

		v1.GET("/invoices", staffOrAdmin, invoicesH.List)
		v1.GET("/invoices/export.csv", staffOrAdmin, invoicesH.ExportCSV)
		v1.GET("/invoices/:id", staffOrAdmin, invoicesH.GetByID)
		v1.GET("/invoices/:id/receipt", staffOrAdmin, invoicesH.Receipt)

		v1.GET("/dashboard/stats", staffOrAdmin, reportsH.DashboardStats)
		v1.GET("/dashboard/recent", staffOrAdmin, reportsH.RecentInvoices)
		v1.GET("/reports/stats", staffOrAdmin, reportsH.ReportStats)
		v1.GET("/reports/weekly", staffOrAdmin, reportsH.WeeklySales)

		v1.GET("/settings", staffOrAdmin, settingsH.Get)
		v1.PUT("/settings", adminOnly, settingsH.Save)

		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
