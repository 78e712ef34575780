package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/Vallas-api/internal/bootstrap"
	inframetrics "github.com/jhoicas/Vallas-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Vallas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Vallas-api/internal/interfaces/http"
	"github.com/jhoicas/Vallas-api/internal/interfaces/scheduler"
	"github.com/jhoicas/Vallas-api/pkg/config"
	"github.com/jhoicas/Vallas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.DB.MigrateOnStart {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := inframetrics.NewRecorder(registry)

	locker, closeLocker := bootstrap.OpenLocker(ctx, cfg.Redis, log)
	defer closeLocker()

	emailQueue, closeQueue, err := bootstrap.OpenEmailQueue(cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a RabbitMQ")
	}
	defer closeQueue()

	container, err := bootstrap.New(cfg, bootstrap.PostgresRepositories(pool), bootstrap.Options{
		EmailQueue: emailQueue,
		Locker:     locker,
		Metrics:    recorder,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("armar casos de uso")
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		loc, _ := cfg.App.Location()
		sched, err = scheduler.New(container.Runner, scheduler.ScheduleFromConfig(cfg.Scheduler), loc, log.Component("scheduler"))
		if err != nil {
			log.Fatal().Err(err).Msg("programar barridos")
		}
		sched.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Debt:       container.Debt,
		Payments:   container.Payments,
		Lifecycle:  container.Lifecycle,
		Proforma:   container.Proforma,
		InvoicePDF: container.InvoicePDF,
		Sweeps:     container.Runner,
		Metrics:    recorder,
		Gatherer:   registry,
		JWTSecret:  cfg.JWT.Secret,
		AppName:    cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("barridos en curso no terminaron a tiempo")
		}
	}

	log.Info().Msg("aplicación detenida")
}
