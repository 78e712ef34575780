package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Vallas-api/internal/application/billing"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

// HTTPMetrics observa cada petición atendida.
type HTTPMetrics interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Debt       *billing.DebtUseCase
	Payments   *billing.PaymentUseCase
	Lifecycle  *billing.LifecycleService
	Proforma   *billing.ProformaGenerator
	InvoicePDF *billing.PDFUseCase
	Sweeps     SweepRunner
	Metrics    HTTPMetrics         // nil = sin métricas HTTP
	Gatherer   prometheus.Gatherer // nil = sin /metrics
	JWTSecret  string
	AppName    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	billingStaff := RequireRole(entity.RoleAdmin, entity.RoleFinance)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleFinance, entity.RoleTechnician, entity.RoleClient)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Deuda: el rol client solo ve sus vallas
	debtHandler := NewDebtHandler(deps.Debt)
	protected.Get("/billboards/:id/debt", anyRole, debtHandler.GetBillboardDebt)
	protected.Get("/clients/:id/debt", anyRole, debtHandler.GetClientDebt)

	// Ciclo de vida y pro-formas
	billboardHandler := NewBillboardHandler(deps.Lifecycle, deps.Proforma)
	protected.Post("/billboards/:id/approve", adminOnly, billboardHandler.Approve)
	protected.Post("/billboards/:id/proforma", billingStaff, billboardHandler.GenerateProforma)

	// Pagos
	paymentHandler := NewPaymentHandler(deps.Payments)
	protected.Post("/payments/:id/validate", billingStaff, paymentHandler.Validate)
	protected.Post("/payments/:id/reject", billingStaff, paymentHandler.Reject)

	// Facturas
	invoiceHandler := NewInvoiceHandler(deps.InvoicePDF)
	protected.Get("/invoices/:id/pdf", anyRole, invoiceHandler.DownloadPDF)

	// Conciliación manual
	reconHandler := NewReconciliationHandler(deps.Sweeps)
	protected.Post("/reconciliation/:sweep/run", adminOnly, reconHandler.Run)
}
