package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

var _ repository.TariffRepository = (*TariffRepo)(nil)

// TariffRepo implementación de TariffRepository.
type TariffRepo struct {
	q Querier
}

// NewTariffRepository construye el adaptador.
func NewTariffRepository(q Querier) *TariffRepo {
	return &TariffRepo{q: q}
}

// FindActive tarifa activa más reciente para zona y tipo; nil si no hay.
func (r *TariffRepo) FindActive(ctx context.Context, zoneID string, billboardType entity.BillboardType) (*entity.Tariff, error) {
	query := `
		SELECT id, zone_id, billboard_type, price_per_m2, is_active, valid_from, valid_until, created_at
		FROM tariffs
		WHERE zone_id = $1 AND billboard_type = $2 AND is_active
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	var t entity.Tariff
	err := r.q.QueryRow(ctx, query, zoneID, string(billboardType)).Scan(
		&t.ID, &t.ZoneID, &t.BillboardType, &t.PricePerM2, &t.IsActive, &t.ValidFrom, &t.ValidUntil, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active tariff: %w", err)
	}
	return &t, nil
}
