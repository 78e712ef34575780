package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Vallas-api/pkg/money"
)

func TestGenerateInvoicePDF_Proforma(t *testing.T) {
	gen := pdf.NewMarotoPDFGenerator(pdf.Issuer{Name: "Vallas Maputo Lda", TaxID: "400123456"}, money.NewFormatter("pt-MZ", "MT"))
	issue := time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		Number:      "PRO-2025-000001",
		Type:        entity.InvoiceTypeProforma,
		Status:      entity.InvoicePending,
		Amount:      decimal.NewFromInt(6000),
		TaxAmount:   decimal.NewFromInt(960),
		TotalAmount: decimal.NewFromInt(6960),
		IssueDate:   issue,
		DueDate:     issue.AddDate(0, 0, 30),
		Description: "Factura Pro Forma - Valla VAL-001",
		Notes:       "Tarifa anual: 6000.00 MT/año. Área: 12.00 m². Tarifa: 500.00 MT/m²/año",
	}
	b := &entity.Billboard{Code: "VAL-001"}
	c := &entity.Client{CompanyName: "Publicidad Lda", TaxID: "400999888"}

	out, err := gen.GenerateInvoicePDF(context.Background(), inv, b, c)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInvoicePDF_SinValla(t *testing.T) {
	gen := pdf.NewMarotoPDFGenerator(pdf.Issuer{Name: "Vallas Maputo Lda"}, money.NewFormatter("pt-MZ", "MT"))
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		Number: "INV-2025-000010", Type: entity.InvoiceTypeInvoice,
		Amount: decimal.NewFromInt(100), TaxAmount: decimal.NewFromInt(16), TotalAmount: decimal.NewFromInt(116),
		IssueDate: now, DueDate: now,
	}

	out, err := gen.GenerateInvoicePDF(context.Background(), inv, nil, &entity.Client{CompanyName: "X"})

	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
