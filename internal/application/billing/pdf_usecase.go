package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Vallas-api/internal/domain"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

// PDFUseCase genera el documento imprimible de una factura o pro-forma.
type PDFUseCase struct {
	invoiceRepo   repository.InvoiceRepository
	billboardRepo repository.BillboardRepository
	clientRepo    repository.ClientRepository
	generator     ProformaPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	billboardRepo repository.BillboardRepository,
	clientRepo repository.ClientRepository,
	generator ProformaPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:   invoiceRepo,
		billboardRepo: billboardRepo,
		clientRepo:    clientRepo,
		generator:     generator,
	}
}

// DownloadInvoicePDF genera el PDF de la factura.
// clientID no vacío restringe el acceso a facturas de ese cliente.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura no pertenece al cliente del token.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, clientID, invoiceID string) ([]byte, string, error) {
	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if clientID != "" && inv.ClientID != clientID {
		return nil, "", domain.ErrForbidden
	}

	// ── 2. Cargar cliente y valla ─────────────────────────────────────────────
	client, err := uc.clientRepo.GetByID(ctx, inv.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if client == nil {
		return nil, "", fmt.Errorf("pdf: cliente %s: %w", inv.ClientID, domain.ErrNotFound)
	}
	billboard, err := uc.billboardRepo.GetByID(ctx, inv.BillboardID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener valla: %w", err)
	}

	// ── 3. Generar ────────────────────────────────────────────────────────────
	pdfBytes, err := uc.generator.GenerateInvoicePDF(ctx, inv, billboard, client)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}
	return pdfBytes, inv.Number + ".pdf", nil
}
