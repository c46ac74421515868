package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	"github.com/BruksfildServices01/agenda-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/agenda-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-scheduler/internal/media"
	"github.com/BruksfildServices01/agenda-scheduler/internal/metrics"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
	ucAppointment "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/appointment"
	ucAvailability "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/availability"
	ucInventory "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/inventory"
	ucTenant "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/tenant"
)

// Deps são os singletons montados pelo comando serve.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Notifier notify.Notifier
	Devices  notify.DeviceManager
	Audit    *audit.Dispatcher
	Uploader *media.Uploader

	// Health acrescenta detalhes ao /health (estado do circuito, etc.)
	Health func() gin.H
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	db := deps.DB
	cfg := deps.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.Timeout(cfg.DBTimeout),
		middleware.CORSMiddleware(cfg.CORSOrigins...),
		metrics.Middleware(),
	)
	r.SetHTMLTemplate(handlers.Templates())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	catalogRepo := infraRepo.NewCatalogGormRepository(db)
	ledgerRepo := infraRepo.NewLedgerGormRepository(db)
	deletionRepo := infraRepo.NewDeletionGormRepository(db)
	availabilityRepo := infraRepo.NewAvailabilityGormRepository(db)
	inventoryRepo := infraRepo.NewInventoryGormRepository(db)

	opts := ucAppointment.Options{
		Region:        cfg.DefaultRegion,
		PublicBaseURL: cfg.PublicBaseURL,
		SideTimeout:   cfg.DBTimeout,
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	generateSlotsUC := ucAvailability.NewGenerateSlots(
		catalogRepo,
		availabilityRepo,
		availabilityRepo,
		ledgerRepo,
		cfg.MaxSlotRangeDays,
	)

	createBookingUC := ucAppointment.NewCreateBooking(
		catalogRepo,
		ledgerRepo,
		deletionRepo,
		deps.Notifier,
		deps.Audit,
		opts,
	)

	markCompletedUC := ucAppointment.NewMarkCompleted(catalogRepo, ledgerRepo, deps.Audit)
	sweepUC := ucAppointment.NewSweepAutoComplete(catalogRepo, ledgerRepo, deps.Audit)
	deleteUC := ucAppointment.NewDeleteAppointment(ledgerRepo, deps.Audit)

	requestDeletionUC := ucAppointment.NewRequestDeletion(
		catalogRepo,
		ledgerRepo,
		deletionRepo,
		deps.Notifier,
		deps.Audit,
		opts,
	)
	resolveDeletionUC := ucAppointment.NewResolveDeletion(
		catalogRepo,
		deletionRepo,
		deps.Notifier,
		deps.Audit,
		opts,
	)
	deletionStatusUC := ucAppointment.NewGetDeletionStatus(catalogRepo, deletionRepo)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(ledgerRepo)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(ledgerRepo)

	createTenantUC := ucTenant.NewCreateTenant(db, cfg.DefaultRegion)

	moveStockUC := ucInventory.NewMoveStock(inventoryRepo, deps.Audit)
	sellProductUC := ucInventory.NewSellProduct(inventoryRepo, deps.Audit)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, sweepUC)
	adminHandler := handlers.NewAdminHandler(db, createTenantUC, deps.Audit)
	meHandler := handlers.NewMeHandler(db)

	staffHandler := handlers.NewStaffHandler(db, cfg, deps.Uploader, deps.Audit)
	serviceHandler := handlers.NewServiceHandler(db, deps.Uploader)
	clientHandler := handlers.NewClientHandler(db, cfg)
	availabilityHandler := handlers.NewAvailabilityHandler(db, generateSlotsUC)
	productHandler := handlers.NewProductHandler(db, deps.Uploader, moveStockUC, sellProductUC)
	themeHandler := handlers.NewThemeHandler(catalogRepo)
	dashboardHandler := handlers.NewDashboardHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		catalogRepo,
		cfg.DefaultRegion,
		createBookingUC,
		markCompletedUC,
		deleteUC,
		requestDeletionUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
	)

	gatewayHandler := handlers.NewGatewayHandler(catalogRepo, deps.Devices, deps.Audit, cfg)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(
		catalogRepo,
		cfg.DefaultRegion,
		generateSlotsUC,
		createBookingUC,
		resolveDeletionUC,
		deletionStatusUC,
	)
	publicWebHandler := handlers.NewPublicWebHandler(resolveDeletionUC, deletionStatusUC)

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	bookingLimiter := middleware.NewRateLimiter(20, time.Minute)

	// ======================================================
	// 🩺 OPERAÇÃO
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if deps.Health != nil {
			for k, v := range deps.Health() {
				body[k] = v
			}
		}
		c.JSON(http.StatusOK, body)
	})
	r.GET("/metrics", metrics.Handler())

	// ======================================================
	// 🌍 PÁGINA DO LINK DE CANCELAMENTO (HTML)
	// ======================================================
	r.GET("/confirmar-exclusao", publicWebHandler.ShowDeletionPage)
	r.POST("/confirmar-exclusao", publicWebHandler.SubmitDeletion)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/deletion-requests/:code", publicHandler.DeletionStatus)
			publicAPI.POST("/deletion-requests/:code/confirm", publicHandler.ConfirmDeletion)
			publicAPI.POST("/deletion-requests/:code/deny", publicHandler.DenyDeletion)

			publicAPI.GET("/tenants/:slug", publicHandler.Profile)
			publicAPI.GET("/tenants/:slug/slots", publicHandler.Slots)
			publicAPI.POST("/tenants/:slug/appointments", bookingLimiter.Middleware(), publicHandler.CreateAppointment)
		}

		api.POST("/webhooks/gateway/:tenantId", gatewayHandler.Webhook)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)
		api.POST("/admin/login", loginLimiter.Middleware(), authHandler.AdminLogin)

		// ------------------------------
		// 🛡️ ADMIN DA PLATAFORMA
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(middleware.RoleAdmin))
		{
			admin.GET("/tenants", adminHandler.ListTenants)
			admin.POST("/tenants", adminHandler.CreateTenant)
			admin.PATCH("/tenants/:id/activate", adminHandler.Activate)
			admin.PATCH("/tenants/:id/deactivate", adminHandler.Deactivate)
		}

		// ------------------------------
		// 🔐 API PRIVADA (tenant)
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(middleware.RoleTenant))
		{
			secured.GET("", meHandler.GetMe)
			secured.PATCH("", meHandler.UpdateMe)

			secured.GET("/staff", staffHandler.List)
			secured.POST("/staff", staffHandler.Create)
			secured.PATCH("/staff/:id", staffHandler.Update)
			secured.DELETE("/staff/:id", staffHandler.Delete)
			secured.POST("/staff/:id/photo", staffHandler.UploadPhoto)
			secured.GET("/staff/:id/services", staffHandler.ListServices)
			secured.PUT("/staff/:id/services", staffHandler.SetServices)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)
			secured.DELETE("/services/:id", serviceHandler.Delete)
			secured.POST("/services/:id/image", serviceHandler.UploadImage)

			secured.GET("/clients", clientHandler.List)
			secured.POST("/clients", clientHandler.Upsert)

			secured.GET("/theme", themeHandler.Get)
			secured.PUT("/theme", themeHandler.Update)

			// ------------------------------
			// PRODUTOS E ESTOQUE
			// ------------------------------
			secured.GET("/products", productHandler.List)
			secured.POST("/products", productHandler.Create)
			secured.PATCH("/products/:id", productHandler.Update)
			secured.DELETE("/products/:id", productHandler.Delete)
			secured.POST("/products/:id/image", productHandler.UploadImage)
			secured.POST("/products/:id/stock", productHandler.MoveStock)
			secured.GET("/products/:id/movements", productHandler.Movements)
			secured.POST("/products/:id/sales", productHandler.Sell)
			secured.GET("/product-sales", productHandler.Sales)

			// ------------------------------
			// DISPONIBILIDADE
			// ------------------------------
			secured.GET("/staff/:id/rules", availabilityHandler.ListRules)
			secured.GET("/staff/:id/blocks", availabilityHandler.ListBlocks)
			secured.POST("/rules", availabilityHandler.CreateRule)
			secured.PUT("/rules/:id", availabilityHandler.UpdateRule)
			secured.DELETE("/rules/:id", availabilityHandler.DeleteRule)
			secured.POST("/blocks", availabilityHandler.CreateBlock)
			secured.DELETE("/blocks/:id", availabilityHandler.DeleteBlock)
			secured.GET("/slots", availabilityHandler.Slots)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)
			secured.POST("/appointments/:id/deletion-request", appointmentHandler.RequestDeletion)

			// ------------------------------
			// WHATSAPP
			// ------------------------------
			secured.POST("/gateway/pair", gatewayHandler.Pair)
			secured.GET("/gateway/status", gatewayHandler.Status)

			secured.GET("/audit-logs", auditLogsHandler.List)

			secured.GET("/dashboard", dashboardHandler.Summary)
			secured.GET("/dashboard/analytics", dashboardHandler.Analytics)
		}
	}
}
