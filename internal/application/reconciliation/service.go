// Package reconciliation implementa los barridos periódicos que concilian deuda,
// estado de las vallas, pro-formas mensuales y vencimientos de contrato.
// Cada barrido es idempotente: repetirlo el mismo día no duplica efectos.
package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Vallas-api/internal/application/billing"
	"github.com/jhoicas/Vallas-api/internal/domain"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
	"github.com/jhoicas/Vallas-api/pkg/money"
)

// Sweep nombre de un barrido.
type Sweep string

const (
	SweepDueDates         Sweep = "due-dates"
	SweepOverdue          Sweep = "overdue"
	SweepMonthlyProformas Sweep = "monthly-proformas"
	SweepContractExpiry   Sweep = "contract-expiry"
	SweepWeeklySummary    Sweep = "weekly-summary"
)

// Sweeps todos los barridos en orden de ejecución de RunAll.
func Sweeps() []Sweep {
	return []Sweep{SweepOverdue, SweepDueDates, SweepContractExpiry, SweepMonthlyProformas, SweepWeeklySummary}
}

// ParseSweep valida el nombre de un barrido.
func ParseSweep(name string) (Sweep, error) {
	for _, s := range Sweeps() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("barrido desconocido %q: %w", name, domain.ErrInvalidInput)
}

// SweepResult contadores de una ejecución.
type SweepResult struct {
	Sweep      Sweep
	Processed  int // elementos evaluados
	Affected   int // elementos con efecto (transición, aviso o factura)
	Skipped    int // elementos sin efecto por idempotencia o datos insuficientes
	Failed     int // elementos con error (el barrido continúa)
	StartedAt  time.Time
	FinishedAt time.Time
}

// Notifier avisos individuales y por rol.
type Notifier interface {
	billing.Notifier
	NotifyRoles(ctx context.Context, roles []string, build func(u *entity.User) *entity.Notification) (int, error)
}

// Config parámetros de los barridos.
type Config struct {
	Workers     int
	DueSoonDays int
}

// Service ejecuta los barridos.
type Service struct {
	billboards repository.BillboardRepository
	payments   repository.PaymentRepository
	clients    repository.ClientRepository
	debt       *billing.DebtUseCase
	lifecycle  *billing.LifecycleService
	proforma   *billing.ProformaGenerator
	notifier   Notifier
	clock      domain.Clock
	money      *money.Formatter
	cfg        Config
	log        zerolog.Logger
}

// NewService construye el servicio de conciliación.
func NewService(
	billboards repository.BillboardRepository,
	payments repository.PaymentRepository,
	clients repository.ClientRepository,
	debt *billing.DebtUseCase,
	lifecycle *billing.LifecycleService,
	proforma *billing.ProformaGenerator,
	notifier Notifier,
	clock domain.Clock,
	formatter *money.Formatter,
	cfg Config,
	log zerolog.Logger,
) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.DueSoonDays <= 0 {
		cfg.DueSoonDays = 7
	}
	return &Service{
		billboards: billboards,
		payments:   payments,
		clients:    clients,
		debt:       debt,
		lifecycle:  lifecycle,
		proforma:   proforma,
		notifier:   notifier,
		clock:      clock,
		money:      formatter,
		cfg:        cfg,
		log:        log,
	}
}

// Run ejecuta un barrido por nombre.
func (s *Service) Run(ctx context.Context, sweep Sweep) (SweepResult, error) {
	switch sweep {
	case SweepDueDates:
		return s.CheckUpcomingDueDates(ctx)
	case SweepOverdue:
		return s.CheckOverduePayments(ctx)
	case SweepMonthlyProformas:
		return s.GenerateMonthlyProformas(ctx)
	case SweepContractExpiry:
		return s.CheckContractExpiry(ctx)
	case SweepWeeklySummary:
		return s.SendWeeklySummary(ctx)
	}
	return SweepResult{Sweep: sweep}, fmt.Errorf("barrido desconocido %q: %w", sweep, domain.ErrInvalidInput)
}

// today inicio del día actual en la zona del reloj.
func (s *Service) today() time.Time {
	now := s.clock.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// notifyClient avisa al usuario del cliente dueño de la valla. Los fallos solo se registran.
func (s *Service) notifyClient(ctx context.Context, b *entity.Billboard, n *entity.Notification) bool {
	c, err := s.clients.GetByID(ctx, b.ClientID)
	if err != nil || c == nil || c.UserID == "" {
		s.log.Warn().Err(err).Str("billboard_id", b.ID).Str("client_id", b.ClientID).Msg("cliente sin usuario, aviso omitido")
		return false
	}
	n.UserID = c.UserID
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Error().Err(err).Str("billboard_id", b.ID).Str("type", string(n.Type)).Msg("no se pudo notificar al cliente")
		return false
	}
	return true
}
