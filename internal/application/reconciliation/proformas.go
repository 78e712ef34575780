package reconciliation

import (
	"context"
	"fmt"

	"github.com/jhoicas/Vallas-api/internal/application/billing"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

// GenerateMonthlyProformas emite la pro-forma del mes para cada valla activa que aún no la tenga.
func (s *Service) GenerateMonthlyProformas(ctx context.Context) (SweepResult, error) {
	res := SweepResult{Sweep: SweepMonthlyProformas, StartedAt: s.clock.Now()}
	s.log.Info().Str("sweep", string(res.Sweep)).Msg("barrido iniciado")

	items, err := s.billboards.List(ctx, repository.BillboardFilter{
		Statuses:    []entity.BillboardStatus{entity.BillboardActive},
		OnlyEnabled: true,
	})
	if err != nil {
		return res, fmt.Errorf("list billboards: %w", err)
	}

	s.forEach(ctx, &res, items, func(ctx context.Context, b *entity.Billboard) (outcome, error) {
		out, _, err := s.proforma.GenerateMonthly(ctx, b)
		if err != nil {
			return outcomeUnchanged, err
		}
		if out == billing.ProformaCreated {
			return outcomeAffected, nil
		}
		return outcomeSkipped, nil
	})

	return s.finish(res), nil
}
