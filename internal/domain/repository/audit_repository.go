package repository

import (
	"context"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

// AuditRepository persiste la bitácora de auditoría.
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditLog) error
}
