// Package bootstrap arma los casos de uso a partir de la configuración.
// Lo comparten el servidor HTTP y la CLI de conciliación.
package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Vallas-api/internal/application/audit"
	"github.com/jhoicas/Vallas-api/internal/application/billing"
	"github.com/jhoicas/Vallas-api/internal/application/notification"
	"github.com/jhoicas/Vallas-api/internal/application/reconciliation"
	"github.com/jhoicas/Vallas-api/internal/domain"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
	inframetrics "github.com/jhoicas/Vallas-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Vallas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Vallas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Vallas-api/pkg/config"
	"github.com/jhoicas/Vallas-api/pkg/logger"
	"github.com/jhoicas/Vallas-api/pkg/money"
)

// Repositories puertos de persistencia usados por los casos de uso.
type Repositories struct {
	Billboards    repository.BillboardRepository
	Clients       repository.ClientRepository
	Payments      repository.PaymentRepository
	Tariffs       repository.TariffRepository
	Invoices      repository.InvoiceRepository
	Users         repository.UserDirectory
	Notifications repository.NotificationRepository
	Audit         repository.AuditRepository
	Tx            billing.BillingTxRunner
}

// PostgresRepositories implementaciones PostgreSQL sobre el pool.
func PostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Billboards:    postgres.NewBillboardRepository(pool),
		Clients:       postgres.NewClientRepository(pool),
		Payments:      postgres.NewPaymentRepository(pool),
		Tariffs:       postgres.NewTariffRepository(pool),
		Invoices:      postgres.NewInvoiceRepository(pool),
		Users:         postgres.NewUserRepository(pool),
		Notifications: postgres.NewNotificationRepository(pool),
		Audit:         postgres.NewAuditRepository(pool),
		Tx:            postgres.NewTxRunner(pool),
	}
}

// Options adaptadores opcionales. Los campos nil toman un valor por defecto.
type Options struct {
	Clock      domain.Clock                 // nil = reloj del sistema en APP_TIMEZONE
	EmailQueue notification.EmailQueue      // nil = correos solo en log
	Locker     reconciliation.Locker        // nil = candado en memoria
	Metrics    *inframetrics.Recorder       // nil = sin métricas
	PDF        billing.ProformaPDFGenerator // nil = Maroto con el emisor configurado
}

// Container casos de uso listos para usar.
type Container struct {
	Clock          domain.Clock
	Money          *money.Formatter
	Notifier       *notification.Service
	Debt           *billing.DebtUseCase
	Lifecycle      *billing.LifecycleService
	Payments       *billing.PaymentUseCase
	Proforma       *billing.ProformaGenerator
	InvoicePDF     *billing.PDFUseCase
	Reconciliation *reconciliation.Service
	Runner         *reconciliation.Runner
}

// New arma el contenedor.
func New(cfg *config.Config, repos Repositories, opts Options, log *logger.Logger) (*Container, error) {
	clock := opts.Clock
	if clock == nil {
		loc, err := cfg.App.Location()
		if err != nil {
			return nil, err
		}
		clock = domain.SystemClock{Location: loc}
	}
	formatter := money.NewFormatter(cfg.Billing.Locale, cfg.Billing.Currency)

	pdfGenerator := opts.PDF
	if pdfGenerator == nil {
		pdfGenerator = infrapdf.NewMarotoPDFGenerator(infrapdf.Issuer{
			Name:    cfg.Billing.IssuerName,
			TaxID:   cfg.Billing.IssuerTaxID,
			Address: cfg.Billing.IssuerAddress,
			Phone:   cfg.Billing.IssuerPhone,
			Email:   cfg.Billing.IssuerEmail,
		}, formatter)
	}
	locker := opts.Locker
	if locker == nil {
		locker = reconciliation.NewLocalLocker()
	}
	var (
		rateObserver billing.RateObserver
		sweepMetrics reconciliation.Metrics
	)
	if opts.Metrics != nil {
		rateObserver = opts.Metrics
		sweepMetrics = opts.Metrics
	}

	auditSvc := audit.NewService(repos.Audit, clock, log.Component("audit"))
	notifier := notification.NewService(repos.Notifications, repos.Users, opts.EmailQueue, clock, log.Component("notification"))

	billingLog := log.Component("billing")
	resolver := billing.NewRateResolver(repos.Tariffs)
	debt := billing.NewDebtUseCase(repos.Billboards, repos.Payments, resolver, clock, rateObserver, billingLog)
	lifecycle := billing.NewLifecycleService(repos.Billboards, auditSvc, billingLog)
	numbering := billing.NewInvoiceNumbering(repos.Invoices, clock)
	proforma := billing.NewProformaGenerator(
		repos.Billboards, repos.Clients, repos.Invoices,
		resolver, numbering, notifier, auditSvc, clock, formatter,
		billing.ProformaConfig{DueDays: cfg.Billing.ProformaDueDays}, billingLog,
	)
	payments := billing.NewPaymentUseCase(
		repos.Tx, repos.Payments, repos.Clients,
		lifecycle, debt, notifier, auditSvc, clock, formatter, billingLog,
	)
	invoicePDF := billing.NewPDFUseCase(repos.Invoices, repos.Billboards, repos.Clients, pdfGenerator)

	reconLog := log.Component("reconciliation")
	recon := reconciliation.NewService(
		repos.Billboards, repos.Payments, repos.Clients,
		debt, lifecycle, proforma, notifier, clock, formatter,
		reconciliation.Config{Workers: cfg.Scheduler.Workers, DueSoonDays: cfg.Billing.DueSoonDays},
		reconLog,
	)
	runner := reconciliation.NewRunner(recon, locker, sweepMetrics, reconciliation.RunnerConfig{
		Timeout: cfg.Scheduler.SweepTimeout,
		LockTTL: cfg.Scheduler.LockTTL,
	}, reconLog)

	return &Container{
		Clock:          clock,
		Money:          formatter,
		Notifier:       notifier,
		Debt:           debt,
		Lifecycle:      lifecycle,
		Payments:       payments,
		Proforma:       proforma,
		InvoicePDF:     invoicePDF,
		Reconciliation: recon,
		Runner:         runner,
	}, nil
}
