package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus estado de validación de un pago.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentValidated PaymentStatus = "validated"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentExpired   PaymentStatus = "expired"
)

// PaymentMethod medio de pago declarado por el cliente.
type PaymentMethod string

const (
	PaymentMethodMpesa        PaymentMethod = "mpesa"
	PaymentMethodEmola        PaymentMethod = "emola"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
)

// Payment pago registrado contra una valla. Solo los validados reducen la deuda.
type Payment struct {
	ID              string
	ReferenceNumber string
	Amount          decimal.Decimal
	Method          PaymentMethod
	Status          PaymentStatus
	PaymentDate     time.Time
	DueDate         *time.Time
	BillboardID     string
	ClientID        string
	ValidatedBy     string
	ValidatedAt     *time.Time
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
