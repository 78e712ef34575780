package repository

import (
	"context"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

// TariffRepository define el puerto de lectura de tarifas.
type TariffRepository interface {
	// FindActive devuelve la tarifa activa más reciente para zona y tipo, o nil.
	FindActive(ctx context.Context, zoneID string, billboardType entity.BillboardType) (*entity.Tariff, error)
}
