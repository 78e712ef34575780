package bootstrap

import (
	"context"

	"github.com/jhoicas/Vallas-api/internal/application/notification"
	"github.com/jhoicas/Vallas-api/internal/application/reconciliation"
	"github.com/jhoicas/Vallas-api/internal/infrastructure/cache"
	"github.com/jhoicas/Vallas-api/internal/infrastructure/rabbitmq"
	"github.com/jhoicas/Vallas-api/pkg/config"
	"github.com/jhoicas/Vallas-api/pkg/logger"
)

// OpenLocker devuelve el candado Redis si REDIS_ADDR está definido.
// Sin Redis, o si no responde, usa un candado en memoria válido para una sola réplica.
func OpenLocker(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (reconciliation.Locker, func()) {
	if cfg.Addr == "" {
		log.Warn().Msg("REDIS_ADDR vacío, candado de barridos en memoria")
		return reconciliation.NewLocalLocker(), func() {}
	}
	client, err := cache.NewClient(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("redis no disponible, candado de barridos en memoria")
		return reconciliation.NewLocalLocker(), func() {}
	}
	return cache.NewLocker(client), func() { _ = client.Close() }
}

// OpenEmailQueue conecta la cola de correos si RABBITMQ_URL está definido.
// Devuelve nil sin error cuando no hay cola configurada.
func OpenEmailQueue(cfg config.RabbitMQConfig, log *logger.Logger) (notification.EmailQueue, func(), error) {
	if cfg.URL == "" {
		log.Warn().Msg("RABBITMQ_URL vacío, los correos solo se registran en log")
		return nil, func() {}, nil
	}
	queue, err := rabbitmq.Dial(cfg.URL, cfg.EmailQueue)
	if err != nil {
		return nil, func() {}, err
	}
	return queue, func() { _ = queue.Close() }, nil
}
