package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Vallas-api/internal/domain"
	domainbilling "github.com/jhoicas/Vallas-api/internal/domain/billing"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
	"github.com/jhoicas/Vallas-api/pkg/money"
)

// ProformaConfig parámetros de emisión de pro-formas.
type ProformaConfig struct {
	DueDays        int // días hasta el vencimiento
	MaxNumberTries uint64
}

// ProformaGenerator emite facturas pro-forma anuales para vallas.
type ProformaGenerator struct {
	billboards repository.BillboardRepository
	clients    repository.ClientRepository
	invoices   repository.InvoiceRepository
	resolver   *RateResolver
	numbering  *InvoiceNumbering
	notifier   Notifier
	audit      AuditLogger
	clock      domain.Clock
	money      *money.Formatter
	cfg        ProformaConfig
	log        zerolog.Logger
}

// NewProformaGenerator construye el generador.
func NewProformaGenerator(
	billboards repository.BillboardRepository,
	clients repository.ClientRepository,
	invoices repository.InvoiceRepository,
	resolver *RateResolver,
	numbering *InvoiceNumbering,
	notifier Notifier,
	audit AuditLogger,
	clock domain.Clock,
	formatter *money.Formatter,
	cfg ProformaConfig,
	log zerolog.Logger,
) *ProformaGenerator {
	if cfg.DueDays <= 0 {
		cfg.DueDays = 30
	}
	if cfg.MaxNumberTries == 0 {
		cfg.MaxNumberTries = 5
	}
	return &ProformaGenerator{
		billboards: billboards,
		clients:    clients,
		invoices:   invoices,
		resolver:   resolver,
		numbering:  numbering,
		notifier:   notifier,
		audit:      audit,
		clock:      clock,
		money:      formatter,
		cfg:        cfg,
		log:        log,
	}
}

// GenerateForBillboard emite la pro-forma de una valla recién dada de alta.
// Cualquier fallo se registra y devuelve nil: el alta de la valla nunca falla por esto.
func (g *ProformaGenerator) GenerateForBillboard(ctx context.Context, billboardID string) *entity.Invoice {
	inv, err := g.Generate(ctx, billboardID)
	if err != nil {
		g.log.Warn().Err(err).Str("billboard_id", billboardID).Msg("pro-forma no generada")
		return nil
	}
	return inv
}

// Generate emite la pro-forma y devuelve el error real (usado por el endpoint manual).
func (g *ProformaGenerator) Generate(ctx context.Context, billboardID string) (*entity.Invoice, error) {
	b, err := g.billboards.GetByID(ctx, billboardID)
	if err != nil {
		return nil, fmt.Errorf("get billboard: %w", err)
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return g.generate(ctx, b)
}

// ProformaOutcome resultado de la emisión mensual para una valla.
type ProformaOutcome int

const (
	ProformaCreated ProformaOutcome = iota
	ProformaAlreadyIssued
	ProformaSkippedNoRate
)

// GenerateMonthly emite la pro-forma del mes en curso salvo que ya exista una para la valla.
func (g *ProformaGenerator) GenerateMonthly(ctx context.Context, b *entity.Billboard) (ProformaOutcome, *entity.Invoice, error) {
	now := g.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	exists, err := g.invoices.ExistsProformaForMonth(ctx, b.ID, monthStart)
	if err != nil {
		return 0, nil, fmt.Errorf("check monthly proforma: %w", err)
	}
	if exists {
		return ProformaAlreadyIssued, nil, nil
	}

	inv, err := g.generate(ctx, b)
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		// otra instancia la emitió entre la consulta y el insert
		return ProformaAlreadyIssued, nil, nil
	case errors.Is(err, domain.ErrRateUnresolved):
		g.log.Warn().Str("billboard_id", b.ID).Str("code", b.Code).Msg("valla sin tarifa, pro-forma omitida")
		return ProformaSkippedNoRate, nil, nil
	case err != nil:
		return 0, nil, err
	}
	return ProformaCreated, inv, nil
}

func (g *ProformaGenerator) generate(ctx context.Context, b *entity.Billboard) (*entity.Invoice, error) {
	if b.ClientID == "" {
		return nil, fmt.Errorf("valla %s sin cliente: %w", b.Code, domain.ErrInvalidInput)
	}
	client, err := g.clients.GetByID(ctx, b.ClientID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("cliente %s: %w", b.ClientID, domain.ErrNotFound)
	}

	res, err := g.resolver.ResolveRate(ctx, b.TariffZoneID, b.Type)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("valla %s: %w", b.Code, domain.ErrRateUnresolved)
		}
		return nil, err
	}
	price := res.PricePerAreaPerYear
	amount, ok := domainbilling.AnnualRate(b, &price)
	if !ok || !amount.IsPositive() {
		return nil, fmt.Errorf("valla %s sin área ni tarifa anual: %w", b.Code, domain.ErrRateUnresolved)
	}

	now := g.clock.Now()
	tax := amount.Mul(domainbilling.TaxRate)
	area, _ := b.SurfaceArea()
	inv := &entity.Invoice{
		Type:        entity.InvoiceTypeProforma,
		Status:      entity.InvoicePending,
		Amount:      amount,
		TaxAmount:   tax,
		TotalAmount: amount.Add(tax),
		IssueDate:   now,
		DueDate:     now.AddDate(0, 0, g.cfg.DueDays),
		ClientID:    client.ID,
		BillboardID: b.ID,
		Description: fmt.Sprintf("Factura Pro Forma - Valla %s", b.Code),
		Notes: fmt.Sprintf("Tarifa anual: %s/año. Área: %s m². Tarifa: %s/m²/año",
			g.money.Format(amount), area.StringFixed(2), g.money.Format(price)),
		IssuedBy:  entity.ActorSystem,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := g.insertWithNumber(ctx, inv); err != nil {
		return nil, err
	}

	g.log.Info().Str("invoice_number", inv.Number).Str("billboard_id", b.ID).
		Str("total", inv.TotalAmount.StringFixed(2)).Msg("pro-forma emitida")

	if client.UserID != "" {
		if err := g.notifier.Notify(ctx, &entity.Notification{
			UserID: client.UserID,
			Type:   entity.NotificationProformaInvoice,
			Title:  "Nueva factura pro-forma disponible",
			Message: fmt.Sprintf("Pro-forma %s emitida para la valla %s. Valor: %s. Vencimiento: %s.",
				inv.Number, b.Code, g.money.Format(inv.TotalAmount), inv.DueDate.Format("2006-01-02")),
			Data: map[string]any{
				"invoiceId":     inv.ID,
				"invoiceNumber": inv.Number,
				"billboardId":   b.ID,
				"billboardCode": b.Code,
				"totalAmount":   inv.TotalAmount.StringFixed(2),
				"dueDate":       inv.DueDate.Format("2006-01-02"),
			},
			SendEmail: true,
			DedupeKey: "proforma:" + inv.ID,
		}); err != nil {
			g.log.Error().Err(err).Str("invoice_id", inv.ID).Msg("no se pudo notificar la pro-forma")
		}
	}

	if err := g.audit.Record(ctx, &entity.AuditLog{
		UserID:     entity.ActorSystem,
		Action:     entity.AuditGenerateProforma,
		EntityType: "Invoice",
		EntityID:   inv.ID,
		NewValues: map[string]any{
			"invoiceNumber": inv.Number,
			"billboardId":   b.ID,
			"billboardCode": b.Code,
			"amount":        inv.TotalAmount.StringFixed(2),
		},
	}); err != nil {
		g.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("auditoría de pro-forma fallida")
	}
	return inv, nil
}

// insertWithNumber asigna número e inserta; ante colisión de número reintenta con otro nuevo.
func (g *ProformaGenerator) insertWithNumber(ctx context.Context, inv *entity.Invoice) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxInterval = 200 * time.Millisecond

	op := func() error {
		number, err := g.numbering.NextNumber(ctx, inv.Type)
		if err != nil {
			return backoff.Permanent(err)
		}
		inv.ID = uuid.New().String()
		inv.Number = number
		err = g.invoices.Create(ctx, inv)
		if errors.Is(err, domain.ErrNumberingConflict) {
			g.log.Warn().Str("invoice_number", number).Msg("número de factura en uso, se reintenta")
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}
	b := backoff.WithContext(backoff.WithMaxRetries(policy, g.cfg.MaxNumberTries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return fmt.Errorf("insert proforma: %w", err)
	}
	return nil
}
