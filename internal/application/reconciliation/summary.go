package reconciliation

import (
	"context"
	"fmt"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

// SendWeeklySummary envía a administración y finanzas los totales de pagos pendientes,
// vallas en mora y vallas activas. No modifica estados.
func (s *Service) SendWeeklySummary(ctx context.Context) (SweepResult, error) {
	res := SweepResult{Sweep: SweepWeeklySummary, StartedAt: s.clock.Now()}
	s.log.Info().Str("sweep", string(res.Sweep)).Msg("barrido iniciado")

	pending, err := s.payments.CountByStatus(ctx, entity.PaymentPending)
	if err != nil {
		return res, fmt.Errorf("count pending payments: %w", err)
	}
	inDebt, err := s.billboards.CountByStatus(ctx, entity.BillboardInDebt)
	if err != nil {
		return res, fmt.Errorf("count billboards in debt: %w", err)
	}
	active, err := s.billboards.CountByStatus(ctx, entity.BillboardActive)
	if err != nil {
		return res, fmt.Errorf("count active billboards: %w", err)
	}

	year, week := s.clock.Now().ISOWeek()
	sent, err := s.notifier.NotifyRoles(ctx, []string{entity.RoleAdmin, entity.RoleFinance}, func(u *entity.User) *entity.Notification {
		return &entity.Notification{
			Type:  entity.NotificationSystem,
			Title: "Resumen semanal",
			Message: fmt.Sprintf("Pagos pendientes: %d. Vallas en mora: %d. Vallas activas: %d.",
				pending, inDebt, active),
			Data: map[string]any{
				"pendingPayments":  pending,
				"billboardsInDebt": inDebt,
				"activeBillboards": active,
			},
			DedupeKey: fmt.Sprintf("weekly-summary:%d-W%02d", year, week),
		}
	})
	if err != nil {
		return res, err
	}
	res.Processed = sent
	res.Affected = sent
	return s.finish(res), nil
}

// finish cierra el resultado y registra la línea de resumen.
func (s *Service) finish(res SweepResult) SweepResult {
	res.FinishedAt = s.clock.Now()
	s.log.Info().
		Str("sweep", string(res.Sweep)).
		Int("processed", res.Processed).
		Int("affected", res.Affected).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Dur("duration", res.FinishedAt.Sub(res.StartedAt)).
		Msg("barrido finalizado")
	return res
}
