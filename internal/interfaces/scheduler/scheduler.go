// Package scheduler programa los barridos de conciliación con expresiones cron
// evaluadas en la zona horaria de la aplicación.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Vallas-api/internal/application/reconciliation"
	"github.com/jhoicas/Vallas-api/internal/domain"
	"github.com/jhoicas/Vallas-api/pkg/config"
)

// SweepRunner ejecuta un barrido (implementado por reconciliation.Runner).
type SweepRunner interface {
	Run(ctx context.Context, sweep reconciliation.Sweep) (reconciliation.SweepResult, error)
}

// Schedule expresión cron por barrido. Una expresión vacía desactiva el barrido.
type Schedule map[reconciliation.Sweep]string

// ScheduleFromConfig expresiones cron de SCHEDULER_*.
func ScheduleFromConfig(cfg config.SchedulerConfig) Schedule {
	return Schedule{
		reconciliation.SweepDueDates:         cfg.DueDatesCron,
		reconciliation.SweepOverdue:          cfg.OverdueCron,
		reconciliation.SweepMonthlyProformas: cfg.ProformaCron,
		reconciliation.SweepContractExpiry:   cfg.ExpiryCron,
		reconciliation.SweepWeeklySummary:    cfg.SummaryCron,
	}
}

// Scheduler envuelve cron.Cron.
type Scheduler struct {
	cron   *cron.Cron
	runner SweepRunner
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New registra los barridos de schedule. Falla si alguna expresión es inválida.
func New(runner SweepRunner, schedule Schedule, loc *time.Location, log zerolog.Logger) (*Scheduler, error) {
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{cron: c, runner: runner, log: log, ctx: ctx, cancel: cancel}

	for _, sweep := range reconciliation.Sweeps() {
		spec := schedule[sweep]
		if spec == "" {
			log.Info().Str("sweep", string(sweep)).Msg("barrido sin programación")
			continue
		}
		sw := sweep
		if _, err := c.AddFunc(spec, func() { s.run(sw) }); err != nil {
			cancel()
			return nil, fmt.Errorf("programar %s (%q): %w", sweep, spec, err)
		}
		log.Info().Str("sweep", string(sweep)).Str("cron", spec).Msg("barrido programado")
	}
	return s, nil
}

// Start inicia el planificador en segundo plano.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("planificador iniciado")
}

// Stop cancela los barridos en curso y espera a que terminen o a que venza ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(sweep reconciliation.Sweep) {
	res, err := s.runner.Run(s.ctx, sweep)
	switch {
	case errors.Is(err, domain.ErrSweepLocked):
		// otra réplica lo está ejecutando
	case err != nil:
		s.log.Error().Err(err).Str("sweep", string(sweep)).Msg("barrido programado con error")
	default:
		s.log.Info().Str("sweep", string(sweep)).Int("affected", res.Affected).
			Int("failed", res.Failed).Msg("barrido programado completado")
	}
}

// cronLogger adapta zerolog a cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
