package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tariff precio anual por m² para una zona y un tipo de valla.
type Tariff struct {
	ID            string
	ZoneID        string
	BillboardType BillboardType
	PricePerM2    decimal.Decimal
	IsActive      bool
	ValidFrom     time.Time
	ValidUntil    *time.Time
	CreatedAt     time.Time
}
