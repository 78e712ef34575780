package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Vallas-api/internal/domain"
)

// Lock candado adquirido por un barrido.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker exclusión mutua entre instancias. ok=false si otro proceso tiene el candado.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (lock Lock, ok bool, err error)
}

// Metrics observa ejecuciones de barridos.
type Metrics interface {
	ObserveSweep(res SweepResult, err error)
	SweepSkipped(sweep Sweep)
}

// RunnerConfig límites de ejecución.
type RunnerConfig struct {
	Timeout time.Duration
	LockTTL time.Duration
}

// Runner envuelve el servicio con candado, timeout, recuperación de panics y métricas.
// Es el punto de entrada del planificador, la CLI y el endpoint de administración.
type Runner struct {
	svc     *Service
	locker  Locker
	metrics Metrics
	cfg     RunnerConfig
	log     zerolog.Logger
}

// NewRunner construye el runner. metrics puede ser nil.
func NewRunner(svc *Service, locker Locker, metrics Metrics, cfg RunnerConfig, log zerolog.Logger) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = cfg.Timeout + 5*time.Minute
	}
	return &Runner{svc: svc, locker: locker, metrics: metrics, cfg: cfg, log: log}
}

// Run ejecuta un barrido. Devuelve domain.ErrSweepLocked si otra ejecución lo tiene tomado.
func (r *Runner) Run(ctx context.Context, sweep Sweep) (res SweepResult, err error) {
	res.Sweep = sweep
	log := r.log.With().Str("sweep", string(sweep)).Logger()

	lock, ok, err := r.locker.Acquire(ctx, lockKey(sweep), r.cfg.LockTTL)
	if err != nil {
		return res, fmt.Errorf("acquire lock %s: %w", sweep, err)
	}
	if !ok {
		log.Warn().Msg("barrido en curso en otra ejecución, se omite")
		if r.metrics != nil {
			r.metrics.SweepSkipped(sweep)
		}
		return res, domain.ErrSweepLocked
	}
	defer func() {
		// el candado se libera aunque ctx haya vencido
		if relErr := lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			log.Warn().Err(relErr).Msg("no se pudo liberar el candado")
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("barrido %s: panic: %v", sweep, p)
			log.Error().Interface("panic", p).Msg("panic en barrido")
		}
		if r.metrics != nil {
			r.metrics.ObserveSweep(res, err)
		}
	}()

	res, err = r.svc.Run(runCtx, sweep)
	if err == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("barrido %s: %w", sweep, runCtx.Err())
	}
	if err != nil {
		log.Error().Err(err).Msg("barrido con error")
	}
	return res, err
}

// RunAll ejecuta todos los barridos en orden. Un fallo no detiene los siguientes.
func (r *Runner) RunAll(ctx context.Context) ([]SweepResult, error) {
	var (
		results []SweepResult
		errs    []error
	)
	for _, sweep := range Sweeps() {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		res, err := r.Run(ctx, sweep)
		results = append(results, res)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return results, errors.Join(errs...)
}

func lockKey(sweep Sweep) string {
	return "vallas:reconciliation:" + string(sweep)
}
