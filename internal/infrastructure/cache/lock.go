package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Vallas-api/internal/application/reconciliation"
)

var _ reconciliation.Locker = (*Locker)(nil)

// releaseScript borra la clave solo si sigue perteneciendo al dueño del token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Locker candado distribuido con SET NX PX y token aleatorio.
type Locker struct {
	client *redis.Client
}

// NewLocker construye el candado sobre un cliente existente.
func NewLocker(client *redis.Client) *Locker {
	return &Locker{client: client}
}

// Acquire toma el candado por ttl. Devuelve ok=false si otro proceso lo tiene.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (reconciliation.Lock, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return &lock{client: l.client, key: key, token: token}, true, nil
}

type lock struct {
	client *redis.Client
	key    string
	token  string
}

// Release libera el candado si aún es nuestro; si venció y otro lo tomó no hace nada.
func (k *lock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, k.client, []string{k.key}, k.token).Err(); err != nil {
		return fmt.Errorf("redis release %s: %w", k.key, err)
	}
	return nil
}
