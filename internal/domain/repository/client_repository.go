package repository

import (
	"context"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

// ClientRepository define el puerto de lectura de clientes.
type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Client, error)
}
