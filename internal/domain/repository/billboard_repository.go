package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

// BillboardFilter criterios de listado para los barridos.
type BillboardFilter struct {
	Statuses    []entity.BillboardStatus
	ClientID    string
	OnlyEnabled bool       // solo is_active = true
	ExpiresOn   *time.Time // fecha exacta de vencimiento de contrato (se compara por día)
}

// BillboardRepository define el puerto de persistencia para Billboard.
type BillboardRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Billboard, error)
	List(ctx context.Context, filter BillboardFilter) ([]*entity.Billboard, error)
	// CompareAndSetStatus cambia el estado solo si el actual es from.
	// Devuelve false si otro proceso ya lo modificó.
	CompareAndSetStatus(ctx context.Context, id string, from, to entity.BillboardStatus) (bool, error)
	CountByStatus(ctx context.Context, status entity.BillboardStatus) (int, error)
}
