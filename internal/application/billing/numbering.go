package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Vallas-api/internal/domain"
	domainbilling "github.com/jhoicas/Vallas-api/internal/domain/billing"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

// InvoiceNumbering asigna números {PREFIX}-{año}-{secuencia} con un contador atómico
// por (prefijo, año). El contador arranca desde el mayor número ya emitido.
type InvoiceNumbering struct {
	invoices repository.InvoiceRepository
	clock    domain.Clock
}

// NewInvoiceNumbering construye el asignador.
func NewInvoiceNumbering(invoices repository.InvoiceRepository, clock domain.Clock) *InvoiceNumbering {
	return &InvoiceNumbering{invoices: invoices, clock: clock}
}

// NextNumber reserva el siguiente número para el tipo de factura.
func (n *InvoiceNumbering) NextNumber(ctx context.Context, invoiceType entity.InvoiceType) (string, error) {
	prefix := domainbilling.PrefixFor(invoiceType)
	year := n.clock.Now().Year()

	latest, err := n.invoices.FindLatestNumber(ctx, prefix, year)
	if err != nil {
		return "", fmt.Errorf("find latest invoice number: %w", err)
	}
	floor, _ := domainbilling.ParseSequence(latest, prefix, year)

	seq, err := n.invoices.NextSequence(ctx, prefix, year, floor)
	if err != nil {
		return "", fmt.Errorf("next invoice sequence: %w", err)
	}
	return domainbilling.FormatNumber(prefix, year, seq), nil
}
