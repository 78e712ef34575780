package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Vallas-api/internal/domain"
	domainbilling "github.com/jhoicas/Vallas-api/internal/domain/billing"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

// maxTransitionAttempts reintentos ante un compare-and-set perdido.
const maxTransitionAttempts = 3

// TransitionResult resultado de aplicar un evento de ciclo de vida.
type TransitionResult struct {
	BillboardID string
	From        entity.BillboardStatus
	To          entity.BillboardStatus
	Changed     bool
}

// LifecycleService es el único escritor del estado de las vallas.
// Aplica la decisión de la máquina de estados con compare-and-set y audita cada cambio efectivo.
type LifecycleService struct {
	billboards repository.BillboardRepository
	audit      AuditLogger
	log        zerolog.Logger
}

// NewLifecycleService construye el servicio.
func NewLifecycleService(billboards repository.BillboardRepository, audit AuditLogger, log zerolog.Logger) *LifecycleService {
	return &LifecycleService{billboards: billboards, audit: audit, log: log}
}

// Apply aplica ev sobre la valla b (tomando su estado como primera lectura).
// Si otro proceso cambió el estado entretanto, relee y vuelve a decidir.
func (s *LifecycleService) Apply(ctx context.Context, b *entity.Billboard, ev domainbilling.Event, actorID string) (TransitionResult, error) {
	current := b.Status
	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		next, err := domainbilling.Transition(current, ev)
		if errors.Is(err, domain.ErrTransitionNoop) {
			s.log.Debug().Str("billboard_id", b.ID).Str("status", string(current)).
				Str("event", string(ev.Kind)).Msg("transición sin cambio")
			return TransitionResult{BillboardID: b.ID, From: current, To: current}, nil
		}
		if err != nil {
			return TransitionResult{BillboardID: b.ID, From: current, To: current}, err
		}

		ok, err := s.billboards.CompareAndSetStatus(ctx, b.ID, current, next)
		if err != nil {
			return TransitionResult{}, fmt.Errorf("update billboard status: %w", err)
		}
		if ok {
			b.Status = next
			s.recordTransition(ctx, b, current, next, ev, actorID)
			return TransitionResult{BillboardID: b.ID, From: current, To: next, Changed: true}, nil
		}

		fresh, err := s.billboards.GetByID(ctx, b.ID)
		if err != nil {
			return TransitionResult{}, fmt.Errorf("reload billboard: %w", err)
		}
		if fresh == nil {
			return TransitionResult{}, domain.ErrNotFound
		}
		s.log.Debug().Str("billboard_id", b.ID).Str("expected", string(current)).
			Str("actual", string(fresh.Status)).Int("attempt", attempt).Msg("estado modificado concurrentemente, se reintenta")
		current = fresh.Status
		b.Status = fresh.Status
	}
	return TransitionResult{BillboardID: b.ID, From: current, To: current},
		fmt.Errorf("transición %s de valla %s: %w", ev.Kind, b.ID, domain.ErrConflict)
}

// ApplyByID carga la valla y aplica ev.
func (s *LifecycleService) ApplyByID(ctx context.Context, billboardID string, ev domainbilling.Event, actorID string) (TransitionResult, error) {
	b, err := s.billboards.GetByID(ctx, billboardID)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("get billboard: %w", err)
	}
	if b == nil {
		return TransitionResult{}, domain.ErrNotFound
	}
	return s.Apply(ctx, b, ev, actorID)
}

// Approve pasa una valla pendiente a activa.
func (s *LifecycleService) Approve(ctx context.Context, billboardID, actorID string) (TransitionResult, error) {
	return s.ApplyByID(ctx, billboardID, domainbilling.Event{Kind: domainbilling.EventApproved}, actorID)
}

func (s *LifecycleService) recordTransition(ctx context.Context, b *entity.Billboard, from, to entity.BillboardStatus, ev domainbilling.Event, actorID string) {
	s.log.Info().Str("billboard_id", b.ID).Str("code", b.Code).
		Str("from", string(from)).Str("to", string(to)).Str("event", string(ev.Kind)).
		Msg("estado de valla actualizado")

	newValues := map[string]any{"status": string(to), "event": string(ev.Kind)}
	if ev.Debt != nil {
		newValues["currentDebt"] = ev.Debt.CurrentDebt.StringFixed(2)
		newValues["yearsInDebt"] = ev.Debt.YearsInDebt
	}
	if err := s.audit.Record(ctx, &entity.AuditLog{
		UserID:     actorID,
		Action:     entity.AuditBillboardStatusChange,
		EntityType: "Billboard",
		EntityID:   b.ID,
		OldValues:  map[string]any{"status": string(from)},
		NewValues:  newValues,
	}); err != nil {
		s.log.Warn().Err(err).Str("billboard_id", b.ID).Msg("auditoría de transición fallida")
	}
}
