package reconciliation

import (
	"context"
	"fmt"

	domainbilling "github.com/jhoicas/Vallas-api/internal/domain/billing"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

// CheckOverduePayments evalúa la deuda de las vallas activas y en mora y aplica la
// transición correspondiente: active → in_debt con al menos un año adeudado,
// in_debt → active cuando la deuda llega a cero.
func (s *Service) CheckOverduePayments(ctx context.Context) (SweepResult, error) {
	res := SweepResult{Sweep: SweepOverdue, StartedAt: s.clock.Now()}
	s.log.Info().Str("sweep", string(res.Sweep)).Msg("barrido iniciado")

	items, err := s.billboards.List(ctx, repository.BillboardFilter{
		Statuses:    []entity.BillboardStatus{entity.BillboardActive, entity.BillboardInDebt},
		OnlyEnabled: true,
	})
	if err != nil {
		return res, fmt.Errorf("list billboards: %w", err)
	}

	s.forEach(ctx, &res, items, func(ctx context.Context, b *entity.Billboard) (outcome, error) {
		snap, err := s.debt.Snapshot(ctx, b)
		if err != nil {
			return outcomeUnchanged, err
		}
		if snap.RateUnresolved {
			// deuda cero sin tarifa no significa "al día"
			return outcomeSkipped, nil
		}
		tr, err := s.lifecycle.Apply(ctx, b, domainbilling.Event{Kind: domainbilling.EventDebtAssessed, Debt: &snap}, entity.ActorSystem)
		if err != nil {
			return outcomeUnchanged, err
		}
		if !tr.Changed {
			return outcomeUnchanged, nil
		}

		if tr.To == entity.BillboardInDebt {
			s.notifyClient(ctx, b, &entity.Notification{
				Type:  entity.NotificationAlert,
				Title: "Valla en mora",
				Message: fmt.Sprintf("La valla %s registra %d año(s) de deuda. Total con multas e IVA: %s.",
					b.Code, snap.YearsInDebt, s.money.Format(snap.TotalWithPenaltiesAndTax)),
				Data: map[string]any{
					"billboardId":  b.ID,
					"currentDebt":  snap.CurrentDebt.StringFixed(2),
					"yearsInDebt":  snap.YearsInDebt,
					"penalty":      snap.PenaltyAmount.StringFixed(2),
					"totalWithTax": snap.TotalWithPenaltiesAndTax.StringFixed(2),
				},
				SendEmail: true,
				DedupeKey: fmt.Sprintf("overdue:%s:%s", b.ID, s.today().Format("2006-01-02")),
			})
		}
		return outcomeAffected, nil
	})

	return s.finish(res), nil
}
