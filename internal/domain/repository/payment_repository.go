package repository

import (
	"context"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	ListValidatedByBillboard(ctx context.Context, billboardID string) ([]*entity.Payment, error)
	// UpdateStatus persiste estado, validador y motivo solo si el estado actual es from.
	UpdateStatus(ctx context.Context, payment *entity.Payment, from entity.PaymentStatus) (bool, error)
	CountByStatus(ctx context.Context, status entity.PaymentStatus) (int, error)
}
