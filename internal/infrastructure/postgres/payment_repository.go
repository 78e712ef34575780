package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `
	id, reference_number, amount, method, status, payment_date, due_date,
	billboard_id, client_id, validated_by, validated_at, rejection_reason,
	created_at, updated_at`

// GetByID obtiene un pago por ID.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// ListValidatedByBillboard pagos validados de la valla, del más antiguo al más reciente.
func (r *PaymentRepo) ListValidatedByBillboard(ctx context.Context, billboardID string) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments WHERE billboard_id = $1 AND status = $2
		ORDER BY payment_date, id`
	rows, err := r.q.Query(ctx, query, billboardID, string(entity.PaymentValidated))
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateStatus persiste el nuevo estado solo si el actual es from.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, p *entity.Payment, from entity.PaymentStatus) (bool, error) {
	query := `
		UPDATE payments
		SET status = $3, validated_by = $4, validated_at = $5, rejection_reason = $6, updated_at = $7
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(ctx, query,
		p.ID, string(from), string(p.Status), p.ValidatedBy, p.ValidatedAt, p.RejectionReason, p.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("update payment status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountByStatus cuenta pagos en un estado.
func (r *PaymentRepo) CountByStatus(ctx context.Context, status entity.PaymentStatus) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE status = $1`, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count payments: %w", err)
	}
	return n, nil
}

func scanPayment(row pgxScanner) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID, &p.ReferenceNumber, &p.Amount, &p.Method, &p.Status, &p.PaymentDate, &p.DueDate,
		&p.BillboardID, &p.ClientID, &p.ValidatedBy, &p.ValidatedAt, &p.RejectionReason,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
