package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Vallas-api/internal/bootstrap"
	"github.com/jhoicas/Vallas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Vallas-api/pkg/config"
	"github.com/jhoicas/Vallas-api/pkg/logger"
)

// env estado compartido por los subcomandos.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:   "reconcile",
		Short: "Operación manual de facturación y conciliación de vallas",
		Long: `Ejecuta a demanda los barridos que el planificador corre por cron,
consulta la deuda de una valla y aplica las migraciones de base de datos.

Lee la misma configuración que la API (variables de entorno y .env).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level, _ := cmd.Flags().GetString("log-level")
			if level == "" {
				level = cfg.App.LogLevel
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{Env: cfg.App.Env, Level: level})
			return nil
		},
	}
	root.PersistentFlags().String("log-level", "", "Nivel de log (trace, debug, info, warn, error)")

	root.AddCommand(newRunCmd(e), newDebtCmd(e), newMigrateCmd(e))
	return root
}

// open conecta a PostgreSQL (y Redis/RabbitMQ si están configurados) y arma los casos de uso.
func (e *env) open(ctx context.Context) (*bootstrap.Container, func(), error) {
	pool, err := postgres.NewPool(ctx, e.cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	locker, closeLocker := bootstrap.OpenLocker(ctx, e.cfg.Redis, e.log)
	queue, closeQueue, err := bootstrap.OpenEmailQueue(e.cfg.RabbitMQ, e.log)
	if err != nil {
		closeLocker()
		pool.Close()
		return nil, nil, fmt.Errorf("conexión a RabbitMQ: %w", err)
	}
	closeAll := func() {
		closeQueue()
		closeLocker()
		pool.Close()
	}

	c, err := bootstrap.New(e.cfg, bootstrap.PostgresRepositories(pool), bootstrap.Options{
		EmailQueue: queue,
		Locker:     locker,
	}, e.log)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return c, closeAll, nil
}
