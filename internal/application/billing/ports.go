package billing

import (
	"context"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos de pagos y facturas.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		paymentRepo repository.PaymentRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// Notifier entrega avisos a usuarios. Es best-effort: el llamador solo registra el error.
type Notifier interface {
	Notify(ctx context.Context, n *entity.Notification) error
}

// AuditLogger registra la bitácora de auditoría.
type AuditLogger interface {
	Record(ctx context.Context, entry *entity.AuditLog) error
}

// ProformaPDFGenerator genera el documento imprimible de una factura o pro-forma.
type ProformaPDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, billboard *entity.Billboard, client *entity.Client) ([]byte, error)
}

// RateObserver recibe avisos de deudas calculadas sin tarifa (métricas).
type RateObserver interface {
	RateUnresolved(billboardID string)
}
