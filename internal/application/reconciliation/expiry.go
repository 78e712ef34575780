package reconciliation

import (
	"context"
	"fmt"
	"time"

	domainbilling "github.com/jhoicas/Vallas-api/internal/domain/billing"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

// expiryReminderDays días de antelación de los recordatorios de vencimiento.
var expiryReminderDays = []int{30, 15}

// nonTerminal estados que aún pueden vencer.
var nonTerminal = []entity.BillboardStatus{
	entity.BillboardPending, entity.BillboardActive, entity.BillboardSuspended, entity.BillboardInDebt,
}

// CheckContractExpiry envía recordatorios a 30 y 15 días del vencimiento y, el día del
// vencimiento, desactiva la valla y avisa al cliente y a administración/técnicos.
// Solo se consideran coincidencias exactas de fecha.
func (s *Service) CheckContractExpiry(ctx context.Context) (SweepResult, error) {
	res := SweepResult{Sweep: SweepContractExpiry, StartedAt: s.clock.Now()}
	s.log.Info().Str("sweep", string(res.Sweep)).Msg("barrido iniciado")
	today := s.today()

	for _, days := range expiryReminderDays {
		target := today.AddDate(0, 0, days)
		items, err := s.listExpiringOn(ctx, target)
		if err != nil {
			return res, err
		}
		d := days
		s.forEach(ctx, &res, items, func(ctx context.Context, b *entity.Billboard) (outcome, error) {
			return s.remindExpiry(ctx, b, d), nil
		})
	}

	items, err := s.listExpiringOn(ctx, today)
	if err != nil {
		return res, err
	}
	s.forEach(ctx, &res, items, s.expire)

	return s.finish(res), nil
}

func (s *Service) listExpiringOn(ctx context.Context, day time.Time) ([]*entity.Billboard, error) {
	items, err := s.billboards.List(ctx, repository.BillboardFilter{
		Statuses:    nonTerminal,
		OnlyEnabled: true,
		ExpiresOn:   &day,
	})
	if err != nil {
		return nil, fmt.Errorf("list billboards expiring %s: %w", day.Format("2006-01-02"), err)
	}
	return items, nil
}

func (s *Service) remindExpiry(ctx context.Context, b *entity.Billboard, days int) outcome {
	expiry := b.ContractExpiryDate.Format("2006-01-02")
	sent := s.notifyClient(ctx, b, &entity.Notification{
		Type:      entity.NotificationAlert,
		Title:     fmt.Sprintf("Contrato vence en %d días", days),
		Message:   fmt.Sprintf("El contrato de la valla %s vence el %s. Contacte a la administración para renovarlo.", b.Code, expiry),
		Data:      map[string]any{"billboardId": b.ID, "billboardCode": b.Code, "expiryDate": expiry, "daysRemaining": days},
		SendEmail: true,
		DedupeKey: fmt.Sprintf("expiry-reminder:%d:%s:%s", days, b.ID, expiry),
	})
	if !sent {
		return outcomeSkipped
	}
	return outcomeAffected
}

// expire desactiva la valla. Solo quien gana la transición envía los avisos.
func (s *Service) expire(ctx context.Context, b *entity.Billboard) (outcome, error) {
	tr, err := s.lifecycle.Apply(ctx, b, domainbilling.Event{Kind: domainbilling.EventContractExpired}, entity.ActorSystem)
	if err != nil {
		return outcomeUnchanged, err
	}
	if !tr.Changed {
		return outcomeSkipped, nil
	}

	expiry := b.ContractExpiryDate.Format("2006-01-02")
	dedupe := "expired:" + b.ID
	data := map[string]any{"billboardId": b.ID, "billboardCode": b.Code, "expiryDate": expiry, "previousStatus": string(tr.From)}

	s.notifyClient(ctx, b, &entity.Notification{
		Type:      entity.NotificationBillboardExpired,
		Title:     "Contrato de valla vencido",
		Message:   fmt.Sprintf("El contrato de la valla %s venció el %s y la valla fue desactivada.", b.Code, expiry),
		Data:      data,
		SendEmail: true,
		DedupeKey: dedupe,
	})

	if _, err := s.notifier.NotifyRoles(ctx, []string{entity.RoleAdmin, entity.RoleTechnician}, func(u *entity.User) *entity.Notification {
		return &entity.Notification{
			Type:      entity.NotificationBillboardExpired,
			Title:     "Valla desactivada por vencimiento",
			Message:   fmt.Sprintf("La valla %s venció el %s y fue desactivada. Programe el retiro si corresponde.", b.Code, expiry),
			Data:      data,
			SendEmail: true,
			DedupeKey: dedupe,
		}
	}); err != nil {
		s.log.Error().Err(err).Str("billboard_id", b.ID).Msg("no se pudo notificar a administración")
	}
	return outcomeAffected, nil
}
