package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vallas-api/internal/domain"
	domainbilling "github.com/jhoicas/Vallas-api/internal/domain/billing"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

// ClientDebtSummary deuda agregada de todas las vallas de un cliente.
type ClientDebtSummary struct {
	ClientID                 string
	TotalDebt                decimal.Decimal
	TotalWithPenaltiesAndTax decimal.Decimal
	BillboardsInDebt         int
	Billboards               []BillboardDebt
}

// BillboardDebt deuda de una valla dentro del resumen de cliente.
type BillboardDebt struct {
	Billboard *entity.Billboard
	Debt      domainbilling.DebtSnapshot
}

// DebtUseCase arma la instantánea de datos y delega en el cálculo puro.
type DebtUseCase struct {
	billboards repository.BillboardRepository
	payments   repository.PaymentRepository
	resolver   *RateResolver
	clock      domain.Clock
	observer   RateObserver // opcional
	log        zerolog.Logger
}

// NewDebtUseCase construye el caso de uso.
func NewDebtUseCase(
	billboards repository.BillboardRepository,
	payments repository.PaymentRepository,
	resolver *RateResolver,
	clock domain.Clock,
	observer RateObserver,
	log zerolog.Logger,
) *DebtUseCase {
	return &DebtUseCase{
		billboards: billboards,
		payments:   payments,
		resolver:   resolver,
		clock:      clock,
		observer:   observer,
		log:        log,
	}
}

// CalculateDebt calcula la deuda actual de una valla.
func (uc *DebtUseCase) CalculateDebt(ctx context.Context, billboardID string) (*entity.Billboard, domainbilling.DebtSnapshot, error) {
	b, err := uc.billboards.GetByID(ctx, billboardID)
	if err != nil {
		return nil, domainbilling.DebtSnapshot{}, fmt.Errorf("get billboard: %w", err)
	}
	if b == nil {
		return nil, domainbilling.DebtSnapshot{}, domain.ErrNotFound
	}
	snap, err := uc.Snapshot(ctx, b)
	return b, snap, err
}

// Snapshot calcula la deuda de una valla ya cargada (usado por los barridos).
func (uc *DebtUseCase) Snapshot(ctx context.Context, b *entity.Billboard) (domainbilling.DebtSnapshot, error) {
	payments, err := uc.payments.ListValidatedByBillboard(ctx, b.ID)
	if err != nil {
		return domainbilling.DebtSnapshot{}, fmt.Errorf("list payments: %w", err)
	}

	in := domainbilling.DebtInput{Billboard: b, Payments: payments}
	if !b.HasStoredFee() {
		res, err := uc.resolver.ResolveRate(ctx, b.TariffZoneID, b.Type)
		switch {
		case err == nil:
			price := res.PricePerAreaPerYear
			in.PricePerM2 = &price
		case errors.Is(err, domain.ErrNotFound):
			// sin tarifa: deuda cero marcada como no resuelta
		default:
			return domainbilling.DebtSnapshot{}, err
		}
	}

	snap := domainbilling.CalculateDebt(in, uc.clock.Now())
	if snap.RateUnresolved {
		uc.log.Warn().Str("billboard_id", b.ID).Str("code", b.Code).
			Msg("valla sin tarifa resoluble, deuda reportada en cero")
		if uc.observer != nil {
			uc.observer.RateUnresolved(b.ID)
		}
	}
	return snap, nil
}

// GetClientDebtSummary suma la deuda de las vallas habilitadas del cliente.
func (uc *DebtUseCase) GetClientDebtSummary(ctx context.Context, clientID string) (*ClientDebtSummary, error) {
	if clientID == "" {
		return nil, domain.ErrInvalidInput
	}
	billboards, err := uc.billboards.List(ctx, repository.BillboardFilter{ClientID: clientID, OnlyEnabled: true})
	if err != nil {
		return nil, fmt.Errorf("list billboards: %w", err)
	}

	sum := &ClientDebtSummary{
		ClientID:                 clientID,
		TotalDebt:                decimal.Zero,
		TotalWithPenaltiesAndTax: decimal.Zero,
		Billboards:               make([]BillboardDebt, 0, len(billboards)),
	}
	for _, b := range billboards {
		snap, err := uc.Snapshot(ctx, b)
		if err != nil {
			return nil, fmt.Errorf("debt %s: %w", b.ID, err)
		}
		sum.TotalDebt = sum.TotalDebt.Add(snap.CurrentDebt)
		sum.TotalWithPenaltiesAndTax = sum.TotalWithPenaltiesAndTax.Add(snap.TotalWithPenaltiesAndTax)
		if snap.HasDebt() {
			sum.BillboardsInDebt++
		}
		sum.Billboards = append(sum.Billboards, BillboardDebt{Billboard: b, Debt: snap})
	}
	return sum, nil
}
