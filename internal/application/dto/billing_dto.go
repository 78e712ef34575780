package dto

import "github.com/shopspring/decimal"

// DebtResponse deuda de una valla para GET /api/billboards/:id/debt.
// Los importes van redondeados a 2 decimales.
type DebtResponse struct {
	BillboardID              string          `json:"billboard_id"`
	Code                     string          `json:"code"`
	Status                   string          `json:"status"`
	AnnualRate               decimal.Decimal `json:"annual_rate"`
	InstallDate              string          `json:"install_date"`
	YearsSinceInstall        int64           `json:"years_since_install"`
	TotalOwed                decimal.Decimal `json:"total_owed"`
	TotalPaid                decimal.Decimal `json:"total_paid"`
	CurrentDebt              decimal.Decimal `json:"current_debt"`
	YearsInDebt              int64           `json:"years_in_debt"`
	PenaltyAmount            decimal.Decimal `json:"penalty_amount"`
	TaxAmount                decimal.Decimal `json:"tax_amount"`
	TotalWithPenaltiesAndTax decimal.Decimal `json:"total_with_penalties_and_tax"`
	NextPaymentDue           string          `json:"next_payment_due,omitempty"` // YYYY-MM-DD
	RateUnresolved           bool            `json:"rate_unresolved,omitempty"`
}

// ClientDebtResponse resumen y detalle de deuda para GET /api/clients/:id/debt.
type ClientDebtResponse struct {
	ClientID                 string          `json:"client_id"`
	TotalDebt                decimal.Decimal `json:"total_debt"`
	TotalWithPenaltiesAndTax decimal.Decimal `json:"total_with_penalties_and_tax"`
	BillboardsInDebt         int             `json:"billboards_in_debt"`
	Billboards               []DebtResponse  `json:"billboards"`
}

// RejectPaymentRequest body para POST /api/payments/:id/reject.
type RejectPaymentRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// PaymentResponse pago tras validar o rechazar.
type PaymentResponse struct {
	ID              string          `json:"id"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	BillboardID     string          `json:"billboard_id"`
	ClientID        string          `json:"client_id"`
	ValidatedBy     string          `json:"validated_by,omitempty"`
	ValidatedAt     string          `json:"validated_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
}

// TransitionResponse resultado de un cambio de estado de valla.
type TransitionResponse struct {
	BillboardID string `json:"billboard_id"`
	From        string `json:"from"`
	To          string `json:"to"`
	Changed     bool   `json:"changed"`
}

// InvoiceResponse factura o pro-forma emitida.
type InvoiceResponse struct {
	ID          string          `json:"id"`
	Number      string          `json:"number"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	IssueDate   string          `json:"issue_date"`
	DueDate     string          `json:"due_date"`
	ClientID    string          `json:"client_id"`
	BillboardID string          `json:"billboard_id"`
	Notes       string          `json:"notes,omitempty"`
}

// SweepResponse resultado de un barrido de conciliación.
type SweepResponse struct {
	Sweep      string `json:"sweep"`
	Processed  int    `json:"processed"`
	Affected   int    `json:"affected"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
	Error      string `json:"error,omitempty"`
}
