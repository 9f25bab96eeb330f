package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/printchain/backend/internal/application/billing"
	jobapp "github.com/printchain/backend/internal/application/job"
	"github.com/printchain/backend/internal/infrastructure/config"
	"github.com/printchain/backend/internal/infrastructure/event"
	"github.com/printchain/backend/internal/infrastructure/logger"
	"github.com/printchain/backend/internal/infrastructure/notification"
	"github.com/printchain/backend/internal/infrastructure/persistence"
	"github.com/printchain/backend/internal/infrastructure/pricing"
	"github.com/printchain/backend/internal/infrastructure/rendering"
	"github.com/printchain/backend/internal/interfaces/http/handler"
	"github.com/printchain/backend/internal/interfaces/http/middleware"
	"github.com/printchain/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Printchain Billing Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with zap-backed gorm logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	jobRepo := persistence.NewGormJobRepository(db.DB)
	poRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	syncLogRepo := persistence.NewGormSyncLogRepository(db.DB)

	// Port adapters
	poFactory := pricing.NewFactory(poRepo, cfg.Pricing.DefaultMarginPercent, log)

	renderer, err := rendering.NewHTTPRenderer(&rendering.Config{
		BaseURL: cfg.Rendering.BaseURL,
		Timeout: cfg.Rendering.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to configure document renderer", zap.Error(err))
	}

	notifier, err := notification.NewWebhookNotifier(&notification.Config{
		Enabled:     cfg.Notification.Enabled,
		WebhookURL:  cfg.Notification.WebhookURL,
		FromAddress: cfg.Notification.FromAddress,
		Timeout:     cfg.Notification.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to configure notifier", zap.Error(err))
	}

	// Application services. All job mutations funnel through a shared
	// per-job lock set so ledger recalculation and sync propagation
	// never interleave for the same job.
	locks := billingapp.NewJobLocks()
	ledgerService := billingapp.NewLedgerService(jobRepo, poRepo, locks, log)
	syncService := billingapp.NewSyncService(poRepo, invoiceRepo, syncLogRepo, ledgerService, locks, log)
	auditService := billingapp.NewAuditService(jobRepo, poRepo, invoiceRepo, log, cfg.Audit.PageSize)
	chainService := billingapp.NewChainService(jobRepo, poRepo, invoiceRepo, renderer, notifier, locks, log)
	autoFixService := billingapp.NewAutoFixService(jobRepo, poRepo, invoiceRepo, poFactory, auditService, chainService, ledgerService, locks, log)
	documentService := billingapp.NewDocumentService(poRepo, invoiceRepo, syncLogRepo, ledgerService, locks, log)
	jobService := jobapp.NewService(jobRepo, ledgerService, log)

	// Event bus with a wildcard logging subscriber as the audit trail
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLoggingEventHandler(log))

	jobService.SetEventPublisher(eventBus)
	chainService.SetEventPublisher(eventBus)
	documentService.SetEventPublisher(eventBus)

	// HTTP handlers
	jobHandler := handler.NewJobHandler(jobService, chainService, documentService)
	poHandler := handler.NewPurchaseOrderHandler(documentService, syncService)
	invoiceHandler := handler.NewInvoiceHandler(documentService, syncService)
	auditHandler := handler.NewAuditHandler(auditService, autoFixService)
	systemHandler := handler.NewSystemHandler(db.DB)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
		AllowMethods:  cfg.HTTP.CORSAllowMethods,
		AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	// Liveness probe outside API versioning
	engine.GET("/health", func(c *gin.Context) {
		systemHandler.Health(c)
	})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jobRoutes := router.NewDomainGroup("jobs", "/jobs")
	jobRoutes.POST("", jobHandler.Create)
	jobRoutes.GET("", jobHandler.List)
	jobRoutes.GET("/:id", jobHandler.Get)
	jobRoutes.GET("/number/:jobNo", jobHandler.GetByNumber)
	jobRoutes.POST("/:id/advance", jobHandler.AdvanceStatus)
	jobRoutes.POST("/:id/cancel", jobHandler.Cancel)
	jobRoutes.PUT("/:id/financials", jobHandler.UpdateFinancials)
	jobRoutes.POST("/:id/complete", jobHandler.Complete)
	jobRoutes.GET("/:id/purchase-orders", jobHandler.ListPurchaseOrders)
	jobRoutes.GET("/:id/invoices", jobHandler.ListInvoices)
	jobRoutes.GET("/:id/sync-logs", jobHandler.SyncHistory)

	billingRoutes := router.NewDomainGroup("billing", "/billing")
	poRoutes := billingRoutes.Group("purchase-orders", "/purchase-orders")
	poRoutes.POST("", poHandler.Create)
	poRoutes.GET("", poHandler.List)
	poRoutes.GET("/:id", poHandler.Get)
	poRoutes.PATCH("/:id", poHandler.Update)
	poRoutes.POST("/:id/confirm", poHandler.Confirm)
	poRoutes.POST("/:id/complete", poHandler.Complete)
	poRoutes.POST("/:id/cancel", poHandler.Cancel)

	invoiceRoutes := billingRoutes.Group("invoices", "/invoices")
	invoiceRoutes.POST("", invoiceHandler.Create)
	invoiceRoutes.GET("", invoiceHandler.List)
	invoiceRoutes.GET("/:id", invoiceHandler.Get)
	invoiceRoutes.PATCH("/:id", invoiceHandler.Update)
	invoiceRoutes.POST("/:id/pay", invoiceHandler.MarkPaid)

	auditRoutes := router.NewDomainGroup("audit", "/audit")
	auditRoutes.GET("/issues", auditHandler.FindIssues)
	auditRoutes.POST("/fixes", auditHandler.ApplyFixes)
	auditRoutes.GET("/jobs/:id", auditHandler.AuditJob)
	auditRoutes.GET("/jobs/:id/amounts", auditHandler.ValidateAmounts)
	auditRoutes.POST("/jobs/:id/fix/purchase-orders", auditHandler.FixMissingPOs)
	auditRoutes.POST("/jobs/:id/fix/invoices", auditHandler.FixMissingInvoices)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/health", systemHandler.Health)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(jobRoutes).
		Register(billingRoutes).
		Register(auditRoutes).
		Register(systemRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
