package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vallas-api/internal/application/dto"
	"github.com/jhoicas/Vallas-api/internal/application/reconciliation"
)

// SweepRunner ejecuta un barrido con candado y timeout.
type SweepRunner interface {
	Run(ctx context.Context, sweep reconciliation.Sweep) (reconciliation.SweepResult, error)
}

// ReconciliationHandler ejecución manual de barridos (solo admin).
type ReconciliationHandler struct {
	runner SweepRunner
}

// NewReconciliationHandler construye el handler.
func NewReconciliationHandler(runner SweepRunner) *ReconciliationHandler {
	return &ReconciliationHandler{runner: runner}
}

// Run ejecuta el barrido indicado, o todos con :sweep = "all".
// POST /api/reconciliation/:sweep/run
func (h *ReconciliationHandler) Run(c *fiber.Ctx) error {
	name := c.Params("sweep")
	if name == "all" {
		out := make([]dto.SweepResponse, 0, len(reconciliation.Sweeps()))
		for _, sweep := range reconciliation.Sweeps() {
			res, err := h.runner.Run(c.UserContext(), sweep)
			res.Sweep = sweep
			out = append(out, toSweepResponse(res, err))
		}
		return c.JSON(out)
	}

	sweep, err := reconciliation.ParseSweep(name)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.runner.Run(c.UserContext(), sweep)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSweepResponse(res, nil))
}
