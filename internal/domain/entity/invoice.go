package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType tipo de documento de cobro.
type InvoiceType string

const (
	InvoiceTypeInvoice      InvoiceType = "invoice"
	InvoiceTypeReceipt      InvoiceType = "receipt"
	InvoiceTypeProforma     InvoiceType = "proforma"
	InvoiceTypeFinalInvoice InvoiceType = "final_invoice"
)

// InvoiceStatus estado de cobro de la factura.
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "pending"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Invoice cabecera de factura o pro-forma. Number es único en todo el sistema.
type Invoice struct {
	ID          string
	Number      string
	Type        InvoiceType
	Status      InvoiceStatus
	Amount      decimal.Decimal // base imponible
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	IssueDate   time.Time
	DueDate     time.Time
	PaidDate    *time.Time
	ClientID    string
	BillboardID string
	PaymentID   string
	Description string
	Notes       string
	IssuedBy    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
