package repository

import (
	"context"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

// UserDirectory consulta usuarios para el envío de avisos.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// ListByRoles devuelve los usuarios activos con alguno de los roles.
	ListByRoles(ctx context.Context, roles ...string) ([]*entity.User, error)
}
