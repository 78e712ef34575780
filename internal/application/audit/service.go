package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Vallas-api/internal/domain"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

// Service registra entradas de auditoría. Un fallo nunca revierte la operación auditada:
// el llamador solo lo registra en log.
type Service struct {
	repo  repository.AuditRepository
	clock domain.Clock
	log   zerolog.Logger
}

// NewService construye el servicio de auditoría.
func NewService(repo repository.AuditRepository, clock domain.Clock, log zerolog.Logger) *Service {
	return &Service{repo: repo, clock: clock, log: log}
}

// Record persiste la entrada completando ID y fecha.
func (s *Service) Record(ctx context.Context, entry *entity.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.UserID == "" {
		entry.UserID = entity.ActorSystem
	}
	entry.CreatedAt = s.clock.Now()
	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.Error().Err(err).
			Str("action", entry.Action).
			Str("entity_id", entry.EntityID).
			Msg("no se pudo registrar auditoría")
		return fmt.Errorf("audit %s: %w", entry.Action, err)
	}
	return nil
}
