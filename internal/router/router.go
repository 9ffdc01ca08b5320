package router

import (
	"paydesk/config"
	"paydesk/internal/handler"
	"paydesk/internal/middleware"
	"paydesk/internal/repository"
	"paydesk/internal/service"
	"paydesk/internal/ws"
	"paydesk/pkg/mailer"
	"paydesk/pkg/receipt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the outbound integrations built by main. Archive may be
// nil; Publishers may be empty.
type Dependencies struct {
	Logger     *zap.Logger
	Mailer     mailer.Sender
	Archive    service.ReceiptArchive
	Publishers []service.StatusPublisher
}

// Setup builds the engine. The returned stop func releases background
// workers started here and must be called once the engine is retired.
func Setup(cfg *config.Config, db *gorm.DB, deps Dependencies) (*gin.Engine, func()) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger.With(zap.String("component", "HTTP"))))
	limiter := middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	r.Use(middleware.RateLimit(limiter))

	// Repositories
	paymentRepo := repository.NewPaymentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	hub := ws.NewHub()

	// Services
	notifSvc := service.NewNotificationService(deps.Mailer, notificationRepo, cfg.Mail.From,
		logger.With(zap.String("component", "Notifier")))
	opts := []service.PaymentServiceOption{
		service.WithTransitionGuard(cfg.Payments.GuardTransitions),
		service.WithPageSize(cfg.Payments.PageSize),
		service.WithPublishers(deps.Publishers...),
		service.WithPublishers(hub),
	}
	if deps.Archive != nil {
		opts = append(opts, service.WithReceiptArchive(deps.Archive))
	}
	paymentSvc := service.NewPaymentService(paymentRepo, receipt.NewRenderer(), notifSvc,
		logger.With(zap.String("component", "PaymentService")), opts...)

	// Handlers
	paymentHandler := handler.NewPaymentHandler(paymentSvc, auditRepo, logger.With(zap.String("component", "PaymentHandler")))
	notificationHandler := handler.NewNotificationHandler(paymentSvc, notificationRepo)
	adminHandler := handler.NewAdminHandler(adminRepo, auditRepo)
	healthHandler := handler.NewHealthHandler(db)

	r.GET("/health", healthHandler.Health)
	r.GET("/ws/payments", ws.ServePaymentFeed(hub, logger.With(zap.String("component", "StatusFeed"))))

	payments := r.Group("/payments")
	{
		payments.POST("", paymentHandler.Create)
		payments.GET("", paymentHandler.List)
		payments.GET("/:id", paymentHandler.Get)
		payments.POST("/:id/complete", paymentHandler.Complete)
		payments.POST("/:id/return", paymentHandler.Return)
		payments.POST("/:id/cancel", paymentHandler.Cancel)
		payments.GET("/:id/receipt", paymentHandler.Receipt)
		payments.GET("/:id/notifications", notificationHandler.List)
	}

	admin := r.Group("/admin")
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/analytics", adminHandler.Analytics)
		admin.GET("/payments/:id/audit", adminHandler.AuditTrail)
	}

	return r, limiter.Stop
}
