package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	// Create devuelve domain.ErrNumberingConflict si el número ya existe y
	// domain.ErrDuplicate si ya hay pro-forma de la valla en ese mes.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// FindLatestNumber devuelve el mayor número con el patrón {prefix}-{year}-%, o "".
	FindLatestNumber(ctx context.Context, prefix string, year int) (string, error)
	// NextSequence incrementa de forma atómica el contador (prefix, year), nunca por debajo de floor+1.
	NextSequence(ctx context.Context, prefix string, year int, floor int64) (int64, error)
	ExistsProformaForMonth(ctx context.Context, billboardID string, monthStart time.Time) (bool, error)
	// UpdateStatusByPayment cambia el estado de las facturas vinculadas al pago.
	UpdateStatusByPayment(ctx context.Context, paymentID string, status entity.InvoiceStatus, paidAt *time.Time) (int64, error)
}
