package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vallas-api/internal/application/billing"
)

// InvoiceHandler descarga de facturas y pro-formas (protegido).
type InvoiceHandler struct {
	pdf *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{pdf: pdf}
}

// DownloadPDF devuelve el PDF de la factura. Un usuario client solo descarga las suyas.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	doc, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), clientScope(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(doc)
}
