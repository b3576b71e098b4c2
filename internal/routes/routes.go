package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/slot-booking/internal/audit"
	"github.com/BruksfildServices01/slot-booking/internal/auth"
	"github.com/BruksfildServices01/slot-booking/internal/config"
	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/handlers"
	"github.com/BruksfildServices01/slot-booking/internal/logging"
	"github.com/BruksfildServices01/slot-booking/internal/middleware"
	"github.com/BruksfildServices01/slot-booking/internal/payment"
	ucBooking "github.com/BruksfildServices01/slot-booking/internal/usecase/booking"
)

// Dependencies are the singletons built by main. DB, Receipts and Payments
// are optional.
type Dependencies struct {
	Repo     domain.Repository
	DB       *gorm.DB
	Audit    *audit.Dispatcher
	Receipts ucBooking.ReceiptStore
	Payments payment.Verifier
	Logger   *zap.Logger
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Dependencies) {
	logger := logging.OrNop(deps.Logger)

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpireHours)

	// ======================================================
	// USE CASES
	// ======================================================
	listPublicSlotsUC := ucBooking.NewListPublicSlots(deps.Repo)

	createSlotUC := ucBooking.NewCreateAvailableSlot(
		deps.Repo,
		deps.Audit,
	)

	cancelSlotUC := ucBooking.NewCancelSlot(
		deps.Repo,
		deps.Audit,
	)

	reserveSlotsUC := ucBooking.NewReserveSlots(
		deps.Repo,
		deps.Audit,
		logger,
	)

	confirmOrderPaidUC := ucBooking.NewConfirmOrderPaid(
		deps.Repo,
		deps.Receipts,
		deps.Audit,
		logger,
	)

	listMyOrdersUC := ucBooking.NewListMyOrders(deps.Repo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(deps.Repo, jwtService)
	slotHandler := handlers.NewSlotHandler(listPublicSlotsUC, createSlotUC, cancelSlotUC)
	checkoutHandler := handlers.NewCheckoutHandler(reserveSlotsUC, cfg.ReservationTTL)
	orderHandler := handlers.NewOrderHandler(listMyOrdersUC)
	meHandler := handlers.NewMeHandler(deps.Repo)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/public/:slug/slots", slotHandler.ListPublic)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// WEBHOOKS
		// ------------------------------
		if deps.Payments != nil {
			webhookHandler := handlers.NewPaymentWebhookHandler(deps.Payments, confirmOrderPaidUC, logger)
			api.POST("/webhooks/mercadopago", webhookHandler.MercadoPago)
		}

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(jwtService))
		{
			secured.POST("/checkout", checkoutHandler.Checkout)
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/orders", orderHandler.ListMine)

			if deps.DB != nil {
				auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB)
				secured.GET("/me/audit-logs", middleware.RequireTenantOwner(), auditLogsHandler.List)
			}

			owner := secured.Group("/me/slots")
			owner.Use(middleware.RequireTenantOwner())
			{
				owner.POST("", slotHandler.Create)
				owner.PATCH("/:id/cancel", slotHandler.Cancel)
			}
		}
	}
}
