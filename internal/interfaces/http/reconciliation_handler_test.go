package http_test

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vallas-api/internal/application/reconciliation"
	apphttp "github.com/jhoicas/Vallas-api/internal/interfaces/http"
)

type requestIDKey struct{}

// recordingRunner guarda el request id visto en el contexto de cada barrido.
type recordingRunner struct {
	mu   sync.Mutex
	seen []any
}

func (r *recordingRunner) Run(ctx context.Context, sweep reconciliation.Sweep) (reconciliation.SweepResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, ctx.Value(requestIDKey{}))
	return reconciliation.SweepResult{Sweep: sweep}, nil
}

func buildReconciliationApp(runner *recordingRunner) *fiber.App {
	app := fiber.New()
	h := apphttp.NewReconciliationHandler(runner)
	app.Post("/run/:sweep", func(c *fiber.Ctx) error {
		c.SetUserContext(context.WithValue(c.UserContext(), requestIDKey{}, "req-42"))
		return c.Next()
	}, h.Run)
	return app
}

func TestReconciliationHandler_PropagaContextoDeUsuario(t *testing.T) {
	runner := &recordingRunner{}
	app := buildReconciliationApp(runner)

	resp, err := app.Test(httptest.NewRequest("POST", "/run/overdue", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, runner.seen, 1)
	assert.Equal(t, "req-42", runner.seen[0])
}

func TestReconciliationHandler_TodosUsanContextoDeUsuario(t *testing.T) {
	runner := &recordingRunner{}
	app := buildReconciliationApp(runner)

	resp, err := app.Test(httptest.NewRequest("POST", "/run/all", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, runner.seen, len(reconciliation.Sweeps()))
	for _, v := range runner.seen {
		assert.Equal(t, "req-42", v)
	}
}
