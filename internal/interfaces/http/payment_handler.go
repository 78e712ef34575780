package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vallas-api/internal/application/billing"
	"github.com/jhoicas/Vallas-api/internal/application/dto"
)

// PaymentHandler validación y rechazo de pagos (protegido).
type PaymentHandler struct {
	uc       *billing.PaymentUseCase
	validate *validator.Validate
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *billing.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc, validate: validator.New()}
}

// Validate confirma un pago pendiente.
// POST /api/payments/:id/validate
func (h *PaymentHandler) Validate(c *fiber.Ctx) error {
	p, err := h.uc.ValidatePayment(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPaymentResponse(p))
}

// Reject rechaza un pago pendiente con un motivo.
// POST /api/payments/:id/reject
func (h *PaymentHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "motivo de rechazo requerido"})
	}
	p, err := h.uc.RejectPayment(c.UserContext(), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPaymentResponse(p))
}
