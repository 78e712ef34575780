package repository

import (
	"context"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia para Notification.
type NotificationRepository interface {
	// Create devuelve false si ya existía un aviso con la misma DedupeKey.
	Create(ctx context.Context, n *entity.Notification) (bool, error)
	MarkEmailSent(ctx context.Context, id string) error
}
