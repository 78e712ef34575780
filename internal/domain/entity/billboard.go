package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillboardStatus estado del ciclo de vida de una valla.
type BillboardStatus string

const (
	BillboardPending   BillboardStatus = "pending"
	BillboardActive    BillboardStatus = "active"
	BillboardSuspended BillboardStatus = "suspended"
	BillboardInDebt    BillboardStatus = "in_debt"
	BillboardInactive  BillboardStatus = "inactive"
)

// BillboardType tipo de estructura publicitaria; junto con la zona determina la tarifa.
type BillboardType string

const (
	BillboardTypeOutdoor     BillboardType = "outdoor"
	BillboardTypeBillboard   BillboardType = "billboard"
	BillboardTypeTotem       BillboardType = "totem"
	BillboardTypeDigital     BillboardType = "digital"
	BillboardTypeIlluminated BillboardType = "illuminated"
	BillboardTypeOther       BillboardType = "other"
)

// Billboard representa una valla publicitaria arrendada a un cliente.
// Status solo lo modifica el servicio de ciclo de vida.
type Billboard struct {
	ID                 string
	Code               string
	Name               string
	Type               BillboardType
	Status             BillboardStatus
	Width              decimal.NullDecimal
	Height             decimal.NullDecimal
	Area               decimal.NullDecimal
	AnnualFee          decimal.NullDecimal // tarifa anual almacenada; tiene prioridad sobre la tarifa por zona
	ClientID           string
	TariffZoneID       string // vacío = sin zona asignada
	InstallationDate   *time.Time
	ContractExpiryDate *time.Time
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// InstallDate fecha de instalación; si no se registró se usa la fecha de alta.
func (b *Billboard) InstallDate() time.Time {
	if b.InstallationDate != nil {
		return *b.InstallationDate
	}
	return b.CreatedAt
}

// SurfaceArea área en m². Si no está almacenada se deriva de ancho × alto.
func (b *Billboard) SurfaceArea() (decimal.Decimal, bool) {
	if b.Area.Valid && b.Area.Decimal.IsPositive() {
		return b.Area.Decimal, true
	}
	if b.Width.Valid && b.Height.Valid {
		a := b.Width.Decimal.Mul(b.Height.Decimal)
		return a, a.IsPositive()
	}
	return decimal.Zero, false
}

// HasStoredFee indica si la valla tiene una tarifa anual fija distinta de cero.
func (b *Billboard) HasStoredFee() bool {
	return b.AnnualFee.Valid && !b.AnnualFee.Decimal.IsZero()
}
