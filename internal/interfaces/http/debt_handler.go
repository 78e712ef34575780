package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vallas-api/internal/application/billing"
)

// DebtHandler consultas de deuda (protegido).
type DebtHandler struct {
	uc *billing.DebtUseCase
}

// NewDebtHandler construye el handler.
func NewDebtHandler(uc *billing.DebtUseCase) *DebtHandler {
	return &DebtHandler{uc: uc}
}

// GetBillboardDebt deuda actual de una valla.
// GET /api/billboards/:id/debt
func (h *DebtHandler) GetBillboardDebt(c *fiber.Ctx) error {
	b, snap, err := h.uc.CalculateDebt(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if scope := clientScope(c); scope != "" && b.ClientID != scope {
		return forbidden(c)
	}
	return c.JSON(toDebtResponse(b, snap))
}

// GetClientDebt resumen y detalle de la deuda de un cliente.
// GET /api/clients/:id/debt
func (h *DebtHandler) GetClientDebt(c *fiber.Ctx) error {
	clientID := c.Params("id")
	if scope := clientScope(c); scope != "" && clientID != scope {
		return forbidden(c)
	}
	sum, err := h.uc.GetClientDebtSummary(c.UserContext(), clientID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toClientDebtResponse(sum))
}
