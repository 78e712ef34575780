// Package pdf genera el documento imprimible de facturas y pro-formas de vallas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + NUIT        │  Tipo + N° + Fechas          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email                             │
//	│  CLIENTE: Razón social + NUIT + contacto                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Valla | Descripción | Período | Importe              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Base / IVA / TOTAL A PAGAR                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con huella SHA-384 + notas                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/Vallas-api/internal/application/billing"
	domainbilling "github.com/jhoicas/Vallas-api/internal/domain/billing"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/pkg/money"
)

var _ appbilling.ProformaPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// Issuer datos de la empresa emisora impresos en la cabecera.
type Issuer struct {
	Name    string
	TaxID   string
	Address string
	Phone   string
	Email   string
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.ProformaPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	issuer Issuer
	money  *money.Formatter
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(issuer Issuer, formatter *money.Formatter) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{issuer: issuer, money: formatter}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes. billboard puede ser nil.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	billboard *entity.Billboard,
	client *entity.Client,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(documentTitle(invoice.Type)+" "+invoice.Number, true).
		WithAuthor(g.issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.issuerRow())
	m.AddRows(clientRow(client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.detailRow(invoice, billboard))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(invoice))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRows(invoice, client)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y tipo, número y fechas (der).
func (g *MarotoPDFGenerator) headerRow(invoice *entity.Invoice) core.Row {
	return row.New(22).Add(
		col.New(7).Add(
			text.New(g.issuer.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NUIT: "+nonEmpty(g.issuer.TaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(documentTitle(invoice.Type), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emisión: "+invoice.IssueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
			text.New("Vencimiento: "+invoice.DueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 18, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoPDFGenerator) issuerRow() core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(g.issuer.Address, "—"),
				nonEmpty(g.issuer.Phone, "—"),
				nonEmpty(g.issuer.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func clientRow(client *entity.Client) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NUIT: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(client.TaxID, "—"),
				nonEmpty(client.Email, "—"),
				nonEmpty(client.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Valla", 2, align.Left),
		h("Descripción", 5, align.Left),
		h("Período", 2, align.Center),
		h("Importe", 3, align.Right),
	)
}

// detailRow: una sola línea, la tarifa anual de la valla.
func (g *MarotoPDFGenerator) detailRow(invoice *entity.Invoice, billboard *entity.Billboard) core.Row {
	ref := "—"
	if billboard != nil {
		ref = billboard.Code
	}
	return row.New(7).Add(
		col.New(2).Add(text.New(ref, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(5).Add(text.New(nonEmpty(invoice.Description, "Tarifa anual de valla"), props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(invoice.IssueDate.Format("01/2006"), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(3).Add(text.New(g.money.Format(invoice.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func (g *MarotoPDFGenerator) totalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1})
	}

	tax := domainbilling.TaxRate.Mul(decimal.NewFromInt(100))
	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Base:"),
			label(fmt.Sprintf("IVA (%s%%):", tax.StringFixed(0))),
			label("TOTAL A PAGAR:"),
		),
		col.New(3).Add(
			value(g.money.Format(invoice.Amount)),
			value(g.money.Format(invoice.TaxAmount)),
			grand(g.money.Format(invoice.TotalAmount)),
		),
		col.New(3),
	)
}

// footerRows: QR con la huella de verificación y notas de la factura.
func (g *MarotoPDFGenerator) footerRows(invoice *entity.Invoice, client *entity.Client) []core.Row {
	verification := domainbilling.VerificationCode(domainbilling.VerificationInput{
		Number:      invoice.Number,
		IssueDate:   invoice.IssueDate,
		Amount:      invoice.Amount,
		TaxAmount:   invoice.TaxAmount,
		TotalAmount: invoice.TotalAmount,
		IssuerTaxID: g.issuer.TaxID,
		ClientTaxID: client.TaxID,
	})
	qr := fmt.Sprintf("%s|%s|%s|%s|%s", invoice.Number, invoice.IssueDate.Format("2006-01-02"),
		invoice.TotalAmount.StringFixed(2), g.money.Currency(), verification)

	legend := "Documento sin valor fiscal hasta la confirmación del pago."
	if invoice.Type != entity.InvoiceTypeProforma {
		legend = "Conserve este documento como soporte fiscal."
	}

	return []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr(qr, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("NOTAS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 3}),
				text.New(nonEmpty(invoice.Notes, "—"), props.Text{Size: 8, Top: 8, Left: 3, Color: colorGray}),
				text.New("Verificación: "+verification[:32], props.Text{Size: 7, Top: 18, Left: 3, Color: colorGray}),
				text.New(legend, props.Text{Style: fontstyle.Bold, Size: 9, Top: 26, Left: 3, Color: colorPrimary}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func documentTitle(t entity.InvoiceType) string {
	switch t {
	case entity.InvoiceTypeProforma:
		return "FACTURA PRO-FORMA"
	case entity.InvoiceTypeReceipt:
		return "RECIBO"
	case entity.InvoiceTypeFinalInvoice:
		return "FACTURA DEFINITIVA"
	}
	return "FACTURA"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
