package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vallas-api/internal/application/billing"
)

// BillboardHandler acciones administrativas sobre vallas (protegido).
type BillboardHandler struct {
	lifecycle *billing.LifecycleService
	proforma  *billing.ProformaGenerator
}

// NewBillboardHandler construye el handler.
func NewBillboardHandler(lifecycle *billing.LifecycleService, proforma *billing.ProformaGenerator) *BillboardHandler {
	return &BillboardHandler{lifecycle: lifecycle, proforma: proforma}
}

// Approve pasa una valla pendiente a activa. Repetirlo sobre una valla activa no cambia nada.
// POST /api/billboards/:id/approve
func (h *BillboardHandler) Approve(c *fiber.Ctx) error {
	res, err := h.lifecycle.Approve(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransitionResponse(res))
}

// GenerateProforma emite la pro-forma anual de la valla.
// POST /api/billboards/:id/proforma
func (h *BillboardHandler) GenerateProforma(c *fiber.Ctx) error {
	inv, err := h.proforma.Generate(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(inv))
}
