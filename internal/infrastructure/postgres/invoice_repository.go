package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Vallas-api/internal/domain"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const (
	constraintInvoiceNumber = "invoices_number_key"
	constraintProformaMonth = "invoices_proforma_month_key"
)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la factura. billing_month se deriva de la fecha de emisión.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, number, type, status, amount, tax_amount, total_amount,
			issue_date, due_date, paid_date, billing_month, client_id, billboard_id, payment_id,
			description, notes, issued_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::date, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.Number, string(inv.Type), string(inv.Status), inv.Amount, inv.TaxAmount, inv.TotalAmount,
		inv.IssueDate, inv.DueDate, inv.PaidDate, monthStart(inv.IssueDate).Format("2006-01-02"),
		inv.ClientID, nullString(inv.BillboardID), nullString(inv.PaymentID),
		inv.Description, inv.Notes, inv.IssuedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			switch violatedConstraint(err) {
			case constraintProformaMonth:
				return domain.ErrDuplicate
			case constraintInvoiceNumber:
				return domain.ErrNumberingConflict
			}
			return fmt.Errorf("invoice %s: %w", inv.Number, domain.ErrNumberingConflict)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `
		SELECT id, number, type, status, amount, tax_amount, total_amount, issue_date, due_date, paid_date,
			client_id, billboard_id, payment_id, description, notes, issued_by, created_at, updated_at
		FROM invoices WHERE id = $1`
	var (
		inv                    entity.Invoice
		billboardID, paymentID *string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.Number, &inv.Type, &inv.Status, &inv.Amount, &inv.TaxAmount, &inv.TotalAmount,
		&inv.IssueDate, &inv.DueDate, &inv.PaidDate,
		&inv.ClientID, &billboardID, &paymentID, &inv.Description, &inv.Notes, &inv.IssuedBy,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.BillboardID = fromNullString(billboardID)
	inv.PaymentID = fromNullString(paymentID)
	return &inv, nil
}

// FindLatestNumber mayor número emitido con el patrón {prefix}-{year}-%. El relleno a
// seis dígitos permite ordenar lexicográficamente.
func (r *InvoiceRepo) FindLatestNumber(ctx context.Context, prefix string, year int) (string, error) {
	var number string
	err := r.q.QueryRow(ctx,
		`SELECT number FROM invoices WHERE number LIKE $1 ORDER BY number DESC LIMIT 1`,
		fmt.Sprintf("%s-%d-%%", prefix, year),
	).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find latest invoice number: %w", err)
	}
	return number, nil
}

// NextSequence incrementa el contador (prefix, year) en una sola sentencia.
// floor permite alinear el contador con números emitidos antes de existir la tabla.
func (r *InvoiceRepo) NextSequence(ctx context.Context, prefix string, year int, floor int64) (int64, error) {
	query := `
		INSERT INTO invoice_sequences (prefix, year, last_value)
		VALUES ($1, $2, $3 + 1)
		ON CONFLICT (prefix, year)
		DO UPDATE SET last_value = GREATEST(invoice_sequences.last_value, $3) + 1
		RETURNING last_value`
	var next int64
	if err := r.q.QueryRow(ctx, query, prefix, year, floor).Scan(&next); err != nil {
		return 0, fmt.Errorf("next invoice sequence: %w", err)
	}
	return next, nil
}

// ExistsProformaForMonth indica si la valla ya tiene pro-forma en el mes de monthStart.
func (r *InvoiceRepo) ExistsProformaForMonth(ctx context.Context, billboardID string, month time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM invoices
			WHERE billboard_id = $1 AND type = $2 AND billing_month = $3::date
		)`,
		billboardID, string(entity.InvoiceTypeProforma), monthStart(month).Format("2006-01-02"),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists proforma: %w", err)
	}
	return exists, nil
}

// UpdateStatusByPayment cambia el estado de las facturas vinculadas al pago.
func (r *InvoiceRepo) UpdateStatusByPayment(ctx context.Context, paymentID string, status entity.InvoiceStatus, paidAt *time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $2, paid_date = $3, updated_at = NOW() WHERE payment_id = $1`,
		paymentID, string(status), paidAt,
	)
	if err != nil {
		return 0, fmt.Errorf("update invoices by payment: %w", err)
	}
	return tag.RowsAffected(), nil
}
