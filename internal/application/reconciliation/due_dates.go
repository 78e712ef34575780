package reconciliation

import (
	"context"
	"fmt"
	"math"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

// CheckUpcomingDueDates avisa a los clientes con deuda cuyo próximo pago vence
// dentro de cfg.DueSoonDays días. Un aviso por valla y día.
func (s *Service) CheckUpcomingDueDates(ctx context.Context) (SweepResult, error) {
	res := SweepResult{Sweep: SweepDueDates, StartedAt: s.clock.Now()}
	s.log.Info().Str("sweep", string(res.Sweep)).Msg("barrido iniciado")

	items, err := s.billboards.List(ctx, repository.BillboardFilter{
		Statuses:    []entity.BillboardStatus{entity.BillboardActive, entity.BillboardInDebt},
		OnlyEnabled: true,
	})
	if err != nil {
		return res, fmt.Errorf("list billboards: %w", err)
	}

	today := s.today()
	s.forEach(ctx, &res, items, func(ctx context.Context, b *entity.Billboard) (outcome, error) {
		snap, err := s.debt.Snapshot(ctx, b)
		if err != nil {
			return outcomeUnchanged, err
		}
		if !snap.HasDebt() || snap.NextPaymentDue == nil {
			return outcomeUnchanged, nil
		}
		days := int(math.Round(snap.NextPaymentDue.Sub(today).Hours() / 24))
		if days < 0 || days > s.cfg.DueSoonDays {
			return outcomeUnchanged, nil
		}

		due := snap.NextPaymentDue.Format("2006-01-02")
		sent := s.notifyClient(ctx, b, &entity.Notification{
			Type:  entity.NotificationDueDate,
			Title: "Pago próximo a vencer",
			Message: fmt.Sprintf("La valla %s tiene un saldo pendiente de %s con vencimiento el %s (%d días).",
				b.Code, s.money.Format(snap.TotalWithPenaltiesAndTax), due, days),
			Data: map[string]any{
				"billboardId":   b.ID,
				"billboardCode": b.Code,
				"currentDebt":   snap.CurrentDebt.StringFixed(2),
				"totalDue":      snap.TotalWithPenaltiesAndTax.StringFixed(2),
				"dueDate":       due,
				"daysUntilDue":  days,
			},
			SendEmail: true,
			DedupeKey: fmt.Sprintf("due-date:%s:%s", b.ID, today.Format("2006-01-02")),
		})
		if !sent {
			return outcomeSkipped, nil
		}
		return outcomeAffected, nil
	})

	return s.finish(res), nil
}
