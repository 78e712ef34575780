package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vallas-api/internal/domain"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

// RateResolution precio anual por m² y la tarifa de la que proviene.
type RateResolution struct {
	PricePerAreaPerYear decimal.Decimal
	Tariff              *entity.Tariff
}

// RateResolver resuelve la tarifa vigente para zona y tipo de valla.
type RateResolver struct {
	tariffs repository.TariffRepository
}

// NewRateResolver construye el resolvedor.
func NewRateResolver(tariffs repository.TariffRepository) *RateResolver {
	return &RateResolver{tariffs: tariffs}
}

// ResolveRate devuelve la tarifa activa más reciente.
// domain.ErrNotFound si la valla no tiene zona o no hay tarifa: el llamador decide qué hacer,
// nunca se interpreta aquí como deuda cero.
func (r *RateResolver) ResolveRate(ctx context.Context, zoneID string, billboardType entity.BillboardType) (*RateResolution, error) {
	if zoneID == "" {
		return nil, fmt.Errorf("valla sin zona tarifaria: %w", domain.ErrNotFound)
	}
	t, err := r.tariffs.FindActive(ctx, zoneID, billboardType)
	if err != nil {
		return nil, fmt.Errorf("find active tariff: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("tarifa zona=%s tipo=%s: %w", zoneID, billboardType, domain.ErrNotFound)
	}
	return &RateResolution{PricePerAreaPerYear: t.PricePerM2, Tariff: t}, nil
}
